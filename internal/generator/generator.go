package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kolah/modelslots/internal/config"
	"github.com/kolah/modelslots/internal/graph"
	"github.com/kolah/modelslots/internal/materialize"
	"github.com/kolah/modelslots/internal/model"
	"github.com/kolah/modelslots/internal/scene"
	"github.com/kolah/modelslots/internal/templates"
	embeddedtmpl "github.com/kolah/modelslots/templates"
)

const summaryTemplate = "report/summary.tmpl"

type Generator struct {
	config *config.Config
	engine templates.Engine
	logger *slog.Logger
}

// Outcome is everything one run produced.
type Outcome struct {
	Result  *graph.Result
	Report  *materialize.Report
	Summary string
}

type summaryData struct {
	Title       string
	Version     string
	Root        string
	Nodes       []*graph.Node
	Resolved    []graph.Binding
	Removed     []graph.TemplateReference
	Diagnostics []graph.Diagnostic
}

func New(cfg *config.Config, logger *slog.Logger) (*Generator, error) {
	engine, err := templates.NewEngine(embeddedtmpl.FS, cfg.Templates.Dir, templates.DefaultFuncs())
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		config: cfg,
		engine: engine,
		logger: logger,
	}, nil
}

// Generate builds the model graph for doc and writes it under root. Runs
// against the same root must not overlap.
func (g *Generator) Generate(root *scene.Slot, doc *model.Document) (*Outcome, error) {
	for _, s := range doc.Schemas {
		if g.config.IsExcluded(s.Name) {
			g.logger.Info("schema excluded", "model", s.Name)
		}
	}
	doc = doc.Without(g.config.ExcludeSchemas...)

	result := graph.Generate(doc)
	for _, d := range result.Diagnostics {
		g.logDiagnostic(d)
	}

	report, err := materialize.Apply(root, result)
	if err != nil {
		return nil, fmt.Errorf("materializing models: %w", err)
	}
	for _, name := range report.Replaced {
		g.logger.Debug("replaced existing slot", "model", name)
	}

	g.logger.Info("models generated",
		"root", root.Path(),
		"nodes", report.Nodes,
		"variables", report.Variables,
		"arrays", report.Arrays,
		"references", report.References,
		"removed", len(result.Resolution.Removed),
	)

	summary, err := g.engine.Execute(summaryTemplate, summaryData{
		Title:       doc.Title,
		Version:     doc.Version,
		Root:        root.Path(),
		Nodes:       result.Graph.Nodes,
		Resolved:    result.Resolution.Resolved,
		Removed:     result.Resolution.Removed,
		Diagnostics: result.Diagnostics,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}

	return &Outcome{
		Result:  result,
		Report:  report,
		Summary: summary,
	}, nil
}

func (g *Generator) logDiagnostic(d graph.Diagnostic) {
	attrs := []any{"kind", string(d.Kind), "model", d.Model}
	if d.Property != "" {
		attrs = append(attrs, "property", d.Property)
	}

	if d.Kind == graph.DanglingReference {
		attrs = append(attrs, "missing", strings.TrimSuffix(d.Property, graph.TemplateSuffix))
	}
	g.logger.Warn(d.Message, attrs...)
}
