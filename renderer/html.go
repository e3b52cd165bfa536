package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/etnz/heatmap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// page is the standalone dashboard document. Region cards carry the region
// display colors.
var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>TRON Merchant Analytics | Global Heatmap</title>
<style>
body { background: #0a0a0a; color: #e0e0e0; font-family: "IBM Plex Sans", sans-serif; max-width: 1100px; margin: auto; padding: 2rem; }
h1 { color: #00ff88; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border-bottom: 1px solid #222; padding: 0.3rem 0.8rem; }
.cards { display: flex; gap: 1rem; }
.card { flex: 1; background: #111; border-top: 4px solid; padding: 1rem; }
.card .value { font-size: 2rem; font-weight: 600; }
figure { margin: 2rem 0; }
figure img { max-width: 100%; }
</style>
</head>
<body>
<div class="cards">
{{- range .Regions}}
<div class="card" style="border-color: {{.Color}}">
<div>{{.Region}}</div>
<div class="value" style="color: {{.Color}}">{{.Scaled}}</div>
<div>{{.Percent.Short}} of merchants</div>
</div>
{{- end}}
</div>
{{.Body}}
{{- range .Charts}}
<figure>
<img src="{{.Src}}" alt="{{.Title}}">
<figcaption>{{.Title}}</figcaption>
</figure>
{{- end}}
</body>
</html>
`))

// Figure is a chart image referenced by the HTML page.
type Figure struct {
	Title string
	Src   string
}

// HTML writes d as a standalone HTML page: the markdown dashboard converted
// with goldmark, preceded by the region cards and followed by the figures.
func HTML(w io.Writer, d *heatmap.Dashboard, figures []Figure) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(RenderDashboard(d)), &body); err != nil {
		return fmt.Errorf("cannot convert dashboard to html: %w", err)
	}
	data := struct {
		Regions []heatmap.RegionSummary
		Body    template.HTML
		Charts  []Figure
	}{
		Regions: d.Regions,
		Body:    template.HTML(body.String()),
		Charts:  figures,
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("cannot write html page: %w", err)
	}
	return nil
}
