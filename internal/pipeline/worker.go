package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/reportgen/internal/parser"
	"github.com/dgallion1/reportgen/internal/render"
	"github.com/dgallion1/reportgen/internal/render/docxsurface"
	"github.com/dgallion1/reportgen/internal/style"
)

// Worker renders one job at a time. Renders share nothing, so any number
// of workers can run side by side.
type Worker struct {
	engine  *render.Engine
	margins docxsurface.Margins
	stats   *RenderStats
	log     *slog.Logger
}

func NewWorker(opts render.Options, margins docxsurface.Margins, stats *RenderStats, log *slog.Logger) *Worker {
	return &Worker{
		engine:  render.NewEngine(opts, log),
		margins: margins,
		stats:   stats,
		log:     log,
	}
}

// Process parses the uploaded draft, renders it and stores the .docx on
// the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	fail := func(phase, msg string) {
		job.AddError(msg)
		job.SetStatus(StatusFailed, phase)
		if w.stats != nil {
			w.stats.Record(time.Since(start), true)
		}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		fail("parsing", err.Error())
		return
	}

	rep, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		fail("parsing", fmt.Sprintf("parse: %s", err))
		return
	}
	sections, depth := rep.Stats()
	log.Info("parsed report", "sections", sections, "depth", depth)
	if job.Title != "" {
		rep.Name = job.Title
	}
	if job.Time != "" {
		rep.Time = job.Time
	}

	cfg := rep.Styles
	if data, format := job.Styles(); len(data) > 0 {
		override, err := style.Parse(data, format)
		if err != nil {
			log.Error("style override rejected", "error", err)
			fail("parsing", fmt.Sprintf("styles: %s", err))
			return
		}
		cfg = cfg.Merge(override)
	}
	roles := style.ResolveRoles(cfg)

	if err := ctx.Err(); err != nil {
		fail("parsing", err.Error())
		return
	}

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	doc := docxsurface.New(docxsurface.Options{Margins: w.margins})
	res, err := w.engine.Render(doc, rep, roles)
	if err != nil {
		fatal := render.IsFatal(err)
		log.Error("render failed", "error", err, "invalid_report", fatal)
		if fatal {
			fail("rendering", fmt.Sprintf("invalid report: %s", err))
		} else {
			fail("rendering", fmt.Sprintf("render: %s", err))
		}
		return
	}

	out, err := doc.Bytes()
	if err != nil {
		log.Error("serialize failed", "error", err)
		fail("rendering", fmt.Sprintf("serialize: %s", err))
		return
	}

	warnings := res.WarningList()
	for _, warn := range warnings {
		job.AddWarning(warn.Error())
	}
	job.SetOutput(out, res.Sections)
	if w.stats != nil {
		w.stats.Record(time.Since(start), false)
	}

	log.Info("render complete", "sections", res.Sections, "bytes", len(out), "warnings", len(warnings))
	if len(warnings) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
