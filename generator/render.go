package generator

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer renders block templates. Parsed templates are cached by name, so
// regenerating many targets from one template parses it once.
type Renderer struct {
	funcs template.FuncMap

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewRenderer returns a renderer with the helper functions listed in
// FuncMap.
func NewRenderer() *Renderer {
	return &Renderer{
		funcs: FuncMap(),
		cache: make(map[string]*template.Template),
	}
}

// RenderString renders text as a template named name.
func (r *Renderer) RenderString(name, text string, data any) ([]byte, error) {
	tmpl, err := r.parse("string:"+name, name, func() (string, error) { return text, nil })
	if err != nil {
		return nil, err
	}
	return execute(tmpl, data)
}

// RenderFile renders the template stored at path.
func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	tmpl, err := r.parse("file:"+path, path, func() (string, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading template %s: %w", path, err)
		}
		return string(b), nil
	})
	if err != nil {
		return nil, err
	}
	return execute(tmpl, data)
}

// ClearCache drops every parsed template.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func (r *Renderer) parse(key, name string, load func() (string, error)) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	text, err := load()
	if err != nil {
		return nil, err
	}

	tmpl, err = template.New(name).Funcs(r.funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

// FuncMap returns the helpers available to block templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"join":       join,
		"split":      strings.Split,
		"replace":    strings.ReplaceAll,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,
		"repeat":     strings.Repeat,
		"quote":      Quote,
		"indent":     Indent,
		"pascalCase": PascalCase,
		"camelCase":  CamelCase,
		"snakeCase":  SnakeCase,
		"default":    Default,
	}
}

// join accepts any slice, so YAML lists ([]any) join as well as []string.
func join(sep string, v any) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("join: expected a list, got %T", v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep), nil
}

// Quote wraps s in double quotes, escaping as a Go/C string literal.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Indent prefixes every non-empty line of s with n spaces.
func Indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// words splits an identifier on underscores, dashes, spaces and lower→upper
// case changes: "userID_list" → ["user", "ID", "list"].
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) ||
			(i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]))):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// PascalCase: "locale_data" → "LocaleData".
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// CamelCase: "locale_data" → "localeData".
func CamelCase(s string) string {
	p := []rune(PascalCase(s))
	if len(p) == 0 {
		return ""
	}
	p[0] = unicode.ToLower(p[0])
	return string(p)
}

// SnakeCase: "LocaleData" → "locale_data".
func SnakeCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

// Default returns val unless it is nil or a zero value, in which case it
// returns def. Written for pipelines: {{ .Name | default "unnamed" }}.
func Default(def, val any) any {
	if val == nil {
		return def
	}
	if rv := reflect.ValueOf(val); rv.IsZero() {
		return def
	}
	return val
}
