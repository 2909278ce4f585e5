// Package generator turns regenerated blocks into file operations that can
// be validated, previewed, and executed.
//
// # Features
//
//   - Template rendering with helper functions
//   - Block operations that rewrite only the generated part of a file
//   - Conflict resolution (interactive, --force, --skip, --diff)
//   - Myers diff algorithm for previews
//
// # Regenerating a block
//
//	r := generator.NewRenderer()
//	body, err := r.RenderFile("templates/locale.tmpl", data)
//	if err != nil {
//	    return err
//	}
//
//	ops := []generator.Operation{
//	    &generator.BlockOp{Path: "src/qlocale_data_p.h", Strict: true, Content: body},
//	}
//	sum, err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: true})
//
// Every operation is validated before any is executed. A BlockOp whose
// output equals the file on disk is reported as up to date and not
// rewritten, so regenerating twice leaves file timestamps alone.
package generator
