package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/heatmap"
)

//go:embed *.md
var templates embed.FS

// Sections lists the dashboard sections that can be rendered on their own, in
// dashboard order.
var Sections = []string{"headline", "regions", "countries", "rankings", "hours", "payments", "activity", "warnings"}

var funcs = template.FuncMap{
	"rankings": RankingsMarkdown,
	"hourRows": hourRows,
}

// RenderDashboard renders the whole dashboard to a markdown string.
func RenderDashboard(d *heatmap.Dashboard) string {
	partials := make(map[string]string, len(Sections))
	for _, s := range Sections {
		partials["dashboard_"+s] = "dashboard_" + s + ".md"
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderSection renders a single section of the dashboard, see Sections.
func RenderSection(section string, d *heatmap.Dashboard) string {
	name := "dashboard_" + section
	return renderTemplate(name, name+".md", nil, d)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
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

// hourRow is one line of the peak hours table: the share of every region at a given hour.
type hourRow struct {
	Hour   int
	Shares []heatmap.HourShare
}

func hourRows(dist []heatmap.RegionHours) []hourRow {
	rows := make([]hourRow, 24)
	for h := range rows {
		rows[h].Hour = h
		for _, rh := range dist {
			rows[h].Shares = append(rows[h].Shares, rh.Hours[h])
		}
	}
	return rows
}
