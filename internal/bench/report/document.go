package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

var documentTmpl = template.Must(template.New("document").Parse(`# Sorting algorithm comparison: {{ .Title }}

**Goal:** compare the running time of sorting algorithms empirically on several kinds of input.

## Datasets
{{ range .Datasets }}- ` + "`{{ .Kind }}`" + `: {{ .Description }}
{{ end }}
## Sizes
` + "`{{ .Sizes }}`" + `{{ if .SkipNotes }} (slow cases are recorded as "skipped": {{ .SkipNotes }}){{ end }}.

Each cell is timed as repeat × number calls ({{ .BaseParams }}{{ if .AdaptiveNotes }}; {{ .AdaptiveNotes }}{{ end }}) and the
per-call min, median and max over the repeats are reported.

## Results (seconds, lower is better)
{{ .Table }}

## Analysis and conclusions
{{ .Conclusions }}

### Theoretical expectations
{{ range .Algorithms }}- **{{ .Name }}**: {{ .Complexity }}{{ if .Stable }}, stable{{ end }}. {{ .Summary }}
{{ end }}
## Run
- id: ` + "`{{ .RunID }}`" + `
- started: {{ .StartedAt }}, took {{ .Duration }}
- environment: {{ .Env.GoVersion }} {{ .Env.OS }}/{{ .Env.Arch }}, {{ .Env.NumCPU }} CPUs
- seed: {{ .Seed }}
`))

type datasetView struct {
	Kind        string
	Description string
}

type algorithmView struct {
	Name       string
	Complexity string
	Stable     bool
	Summary    string
}

type documentView struct {
	Title         string
	Datasets      []datasetView
	Sizes         string
	SkipNotes     string
	BaseParams    string
	AdaptiveNotes string
	Table         string
	Conclusions   string
	Algorithms    []algorithmView
	RunID         string
	StartedAt     string
	Duration      time.Duration
	Env           runner.Environment
	Seed          int64
}

func newDocumentView(run *runner.Run) documentView {
	cfg := run.Config
	v := documentView{
		Sizes:       fmtInts(cfg.Sizes),
		BaseParams:  fmt.Sprintf("%d × %d by default", cfg.Base.Repeat, cfg.Base.Number),
		Table:       MarkdownTable(run.Rows),
		Conclusions: Conclusions(run.Rows, cfg),
		RunID:       run.ID.String(),
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
		Duration:    run.Duration().Round(time.Millisecond),
		Env:         run.Env,
		Seed:        cfg.Seed,
	}

	var names []string
	for _, a := range cfg.ResolvedAlgorithms() {
		names = append(names, string(a.Name))
		v.Algorithms = append(v.Algorithms, algorithmView{
			Name:       string(a.Name),
			Complexity: a.Complexity,
			Stable:     a.Stable,
			Summary:    a.Summary,
		})
	}
	v.Title = strings.Join(names, ", ")

	for _, d := range cfg.ResolvedDatasets() {
		v.Datasets = append(v.Datasets, datasetView{Kind: string(d.Kind), Description: d.Description})
	}

	var skips []string
	for _, r := range cfg.Skip {
		skips = append(skips, fmt.Sprintf("%s above n=%d on %s", r.Algorithm, r.AboveSize, joinKinds(r.Datasets)))
	}
	v.SkipNotes = strings.Join(skips, "; ")

	var adaptive []string
	for _, r := range cfg.Adaptive {
		adaptive = append(adaptive, fmt.Sprintf("%d × %d for %s from n=%d", r.Repeat, r.Number, joinKinds(r.Datasets), r.MinSize))
	}
	v.AdaptiveNotes = strings.Join(adaptive, "; ")

	return v
}

func joinKinds[T ~string](kinds []T) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// WriteDocument renders the human-readable Markdown report of a run.
func WriteDocument(w io.Writer, run *runner.Run) error {
	return documentTmpl.Execute(w, newDocumentView(run))
}

func SaveDocument(path string, run *runner.Run) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return WriteDocument(w, run)
	})
	if err != nil {
		return fmt.Errorf("write report document %q: %w", path, err)
	}
	return nil
}
