// Package renderer turns ledger views into markdown reports. It owns no
// domain logic: every number it prints was computed by the finledger
// package and copied into a plain view struct first.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderStatement renders an account statement to a markdown string.
func RenderStatement(s *Statement) string {
	partials := map[string]string{
		"statement_title": "templates/statement_title.md",
		"statement_rows":  "templates/statement_rows.md",
	}
	return renderTemplate("statement", "templates/statement.md", partials, s)
}

// RenderLiabilities renders the liability board to a markdown string.
func RenderLiabilities(b *LiabilityBoard) string {
	partials := map[string]string{
		"liability_entry": "templates/liability_entry.md",
	}
	return renderTemplate("liabilities", "templates/liabilities.md", partials, b)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, readErr := fs.ReadFile(templates, file)
		if readErr != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
