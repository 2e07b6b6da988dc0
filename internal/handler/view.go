package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"leantime-watchers/internal/pkg/i18n"
)

// Views renders the plugin pages from TEMPLATE_PATH/watchers.
type Views struct {
	dir string
}

func NewViews(templatePath string) *Views {
	return &Views{dir: filepath.Join(templatePath, "watchers")}
}

func (v *Views) Path(name string) string {
	return filepath.Join(v.dir, name)
}

func (v *Views) render(tr *i18n.Translator, data interface{}, names ...string) ([]byte, error) {
	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, v.Path(name))
	}

	tmpl, err := template.New(names[0]).
		Funcs(template.FuncMap{"t": tr.T}).
		ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	var out bytes.Buffer
	if err := tmpl.ExecuteTemplate(&out, names[0], data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return out.Bytes(), nil
}

func (v *Views) Page(c *fiber.Ctx, tr *i18n.Translator, name string, data interface{}) error {
	body, err := v.render(tr, data, "layout.html", name)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(body)
}

func (v *Views) Partial(c *fiber.Ctx, tr *i18n.Translator, name string, data interface{}) error {
	body, err := v.render(tr, data, name)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(body)
}
