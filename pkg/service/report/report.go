package report

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": func(part, total int) int {
		if total == 0 {
			return 0
		}
		return part * 100 / total
	},
}).ParseFS(templateFS, "templates/*.html"))

// Generator renders audience-specific report documents
type Generator struct {
	repo interfaces.Repository
}

// New creates a report generator backed by the repository
func New(repo interfaces.Repository) *Generator {
	return &Generator{repo: repo}
}

// templateData is what every audience template receives
type templateData struct {
	Params *Params
	Stats  *Stats
	Chart  template.HTML
	Period string
}

// Generate builds the stats for the requested period and renders the
// audience's document as an HTML fragment.
func (g *Generator) Generate(ctx context.Context, params *Params) (string, error) {
	if params == nil {
		return "", goerr.New("report params are required")
	}

	w, err := params.Window()
	if err != nil {
		return "", err
	}

	stats, err := BuildStats(ctx, g.repo, w)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build report stats")
	}

	data := templateData{
		Params: params,
		Stats:  stats,
		Chart:  RenderChart(stats.MalwareSeries, stats.PhishSeries),
		Period: params.Period,
	}

	var buf bytes.Buffer
	name := params.Audience.String() + ".html"
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", goerr.Wrap(err, "failed to render report",
			goerr.V("audience", params.Audience))
	}
	return buf.String(), nil
}
