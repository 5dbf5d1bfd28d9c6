// Package renderer turns simulation reports into markdown and HTML documents.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	ttemplate "text/template"

	"github.com/etnz/montecarlo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md templates/*.html
var templatesFS embed.FS

// templates holds the markdown templates by file name.
var templates, _ = fs.Sub(templatesFS, "templates")

// reportPartials are the sections of the report template.
var reportPartials = map[string]string{
	"report_title":        "report_title.md",
	"report_parameters":   "report_parameters.md",
	"report_scenarios":    "report_scenarios.md",
	"report_tail_risk":    "report_tail_risk.md",
	"report_series":       "report_series.md",
	"report_distribution": "report_distribution.md",
}

// ReportMarkdown renders a simulation report to a markdown string.
func ReportMarkdown(r *montecarlo.Report) string {
	return RenderReport(NewReport(r))
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report) string {
	return renderTemplate("report", "report.md", reportPartials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := ttemplate.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
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

var page = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

// ReportHTML converts a markdown document into a standalone HTML page.
//
// Tables use the GitHub flavored markdown syntax.
func ReportHTML(title, md string) (string, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := conv.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("cannot convert markdown: %w", err)
	}

	var b strings.Builder
	err := page.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
