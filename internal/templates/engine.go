package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
)

type Engine interface {
	Execute(name string, data any) (string, error)
}

// TextTemplateEngine renders report templates from an embedded tree with an
// optional directory of overrides.
type TextTemplateEngine struct {
	templates *template.Template
	embedded  embed.FS
	customDir string
}

// DefaultFuncs are available to every report template.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}
}

// NewEngine loads embedded templates, then templates from customDir which
// override embedded ones with the same relative name.
func NewEngine(embedded embed.FS, customDir string, funcs template.FuncMap) (*TextTemplateEngine, error) {
	e := &TextTemplateEngine{
		templates: template.New("").Funcs(funcs),
		embedded:  embedded,
		customDir: customDir,
	}

	if err := e.parseTree(e.embedded, "embedded"); err != nil {
		return nil, err
	}
	if customDir != "" {
		if _, err := os.Stat(customDir); err == nil {
			if err := e.parseTree(os.DirFS(customDir), "custom"); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

// parseTree registers every .tmpl file of fsys under its slash path, so a
// later tree replaces templates of an earlier one.
func (e *TextTemplateEngine) parseTree(fsys fs.FS, source string) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s template %s: %w", source, path, err)
		}
		if _, err := e.templates.New(path).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing %s template %s: %w", source, path, err)
		}
		return nil
	})
}

// Execute renders the named report template.
func (e *TextTemplateEngine) Execute(name string, data any) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
