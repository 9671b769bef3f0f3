package render

import (
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

// TimeLayout is how the issue time appears in the title and sign-off.
const TimeLayout = "2006年01月02日15时"

// inputTimeLayout is the compact hour-precision form used by report files.
const inputTimeLayout = "2006010215"

var (
	titleColor   = style.RGB{0x2B, 0x56, 0x9A}
	dividerTop   = Border{Style: "single", Size: 20, Color: "2B569A"}
	dividerBelow = Border{Style: "single", Size: 5, Color: "000000"}
)

// Options configures an Engine. Report fields take precedence over the
// Name, Recipient and Sender fallbacks.
type Options struct {
	Name      string
	Recipient string
	Sender    string
	MaxDepth  int // 0 or anything above style.MaxDepth means style.MaxDepth
	Images    ImageLoader
	Now       func() time.Time
}

// Engine renders report trees onto a Surface.
type Engine struct {
	opts Options
	log  *slog.Logger
}

// NewEngine returns an Engine with opts, filling unset fields.
func NewEngine(opts Options, log *slog.Logger) *Engine {
	if opts.MaxDepth <= 0 || opts.MaxDepth > style.MaxDepth {
		opts.MaxDepth = style.MaxDepth
	}
	if opts.Images == nil {
		opts.Images = FileLoader{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{opts: opts, log: log}
}

// Result summarizes a completed render.
type Result struct {
	Sections int   // nodes rendered
	Warnings error // content-local failures, combined with multierr
}

// WarningList returns the individual warnings.
func (r Result) WarningList() []error {
	return multierr.Errors(r.Warnings)
}

// Render writes the title block, the section tree and the closing block
// of r. Structural errors abort the render and are returned; the surface
// keeps whatever was written before the failure.
func (e *Engine) Render(s Surface, r *report.Report, roles style.Roles) (Result, error) {
	issued, err := e.issueTime(r.Time)
	if err != nil {
		return Result{}, err
	}
	stamp := issued.Format(TimeLayout)

	name := firstNonEmpty(r.Name, e.opts.Name, r.Source)
	KeywordParagraph(s, name, TitleStyle(22, true, titleColor))
	KeywordParagraph(s, stamp, TitleStyle(14, false, style.RGB{}))

	w := &walker{
		engine: e,
		s:      s,
		roles:  roles,
	}
	w.env = Env{Roles: roles, Images: e.opts.Images, Warn: w.warn}
	if err := w.walk(1, r.Sections); err != nil {
		e.log.Error("render aborted", "report", name, "sections", w.count, "error", err)
		return Result{Sections: w.count, Warnings: w.warnings}, err
	}

	divider := s.AddTable(1, 1)
	top, bottom := dividerTop, dividerBelow
	divider.Cell(0, 0).SetBorders(CellBorders{Top: &top, Bottom: &bottom})

	signOff := fmt.Sprintf("接收单位：%s\n发送单位：%s\n发送时间：%s",
		firstNonEmpty(r.Recipient, e.opts.Recipient),
		firstNonEmpty(r.Sender, e.opts.Sender),
		stamp)
	if err := RenderParagraph(s, signOff, roles.Content, roles.Content); err != nil {
		return Result{Sections: w.count, Warnings: w.warnings}, err
	}

	res := Result{Sections: w.count, Warnings: w.warnings}
	e.log.Info("render complete", "report", name, "sections", res.Sections, "warnings", len(res.WarningList()))
	return res, nil
}

func (e *Engine) issueTime(v string) (time.Time, error) {
	if v == "" {
		return e.opts.Now(), nil
	}
	if t, err := time.Parse(inputTimeLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, &SchemaError{Key: v, Reason: "unparseable report time"}
}

type walker struct {
	engine   *Engine
	s        Surface
	roles    style.Roles
	env      Env
	count    int
	warnings error
}

func (w *walker) warn(err error) {
	w.engine.log.Warn("content skipped", "error", err)
	w.warnings = multierr.Append(w.warnings, err)
}

// walk renders nodes at depth and descends into their children until a
// branch ends or the depth limit is reached.
func (w *walker) walk(depth int, nodes []*report.Section) error {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		children, err := RenderSection(w.s, node, w.roles.Title(depth), w.roles.Content, w.roles.Key, w.env)
		if err != nil {
			return fmt.Errorf("level %d: %w", depth, err)
		}
		w.count++
		if len(children) == 0 {
			continue
		}
		if depth >= w.engine.opts.MaxDepth {
			w.warn(fmt.Errorf("section %q: %d subsections below level %d not rendered", node.Label, len(children), depth))
			continue
		}
		if err := w.walk(depth+1, children); err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
