package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/reportgen/internal/config"
	"github.com/dgallion1/reportgen/internal/parser"
	"github.com/dgallion1/reportgen/internal/render"
	"github.com/dgallion1/reportgen/internal/render/docxsurface"
	"github.com/dgallion1/reportgen/internal/style"
)

type renderFlags struct {
	styles    string
	out       string
	imageRoot string
	time      string
	title     string
	recipient string
	sender    string
	verbose   bool
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "reportgen",
		Short:         "Render structured reports into .docx documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCommand())
	return root
}

func newRenderCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [flags] <input>",
		Short: "Render a report description into a Word document",
		Long: `Render reads a report description and writes a .docx next to it.

Supported inputs: ` + supportedList() + `

Page margins, fallback recipient/sender and the depth limit come from the
same environment variables the server reads (MARGIN_*_CM, REPORT_*,
MAX_DEPTH).

Examples:
  reportgen render weekly.json
  reportgen render --styles house.yaml -o out/weekly.docx weekly.json
  reportgen render --image-root ./charts --time 2024040809 draft.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.ErrOrStderr(), args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.styles, "styles", "", "style file (.json, .yaml, .yml) overriding the report's own styles")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output path (default: input name with .docx)")
	cmd.Flags().StringVar(&f.imageRoot, "image-root", "", "directory picture paths are resolved against (default: input directory)")
	cmd.Flags().StringVar(&f.time, "time", "", "issue time, YYYYMMDDHH or RFC 3339 (default: report time or now)")
	cmd.Flags().StringVar(&f.title, "title", "", "report title override")
	cmd.Flags().StringVar(&f.recipient, "recipient", "", "fallback recipient for the sign-off")
	cmd.Flags().StringVar(&f.sender, "sender", "", "fallback sender for the sign-off")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log each skipped item")
	return cmd
}

func runRender(stderr io.Writer, input string, f renderFlags) error {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Load()
	if err := cfg.ValidateLayout(); err != nil {
		return err
	}

	p, err := parser.ForFile(input)
	if err != nil {
		return err
	}
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	rep, err := p.Parse(in, input)
	in.Close()
	if err != nil {
		return err
	}
	if f.title != "" {
		rep.Name = f.title
	}
	if f.time != "" {
		rep.Time = f.time
	}

	styles := rep.Styles
	if f.styles != "" {
		override, err := style.LoadFile(f.styles)
		if err != nil {
			return err
		}
		styles = styles.Merge(override)
	}

	root := f.imageRoot
	if root == "" {
		root = firstNonEmpty(cfg.ImageRoot, filepath.Dir(input))
	}
	engine := render.NewEngine(render.Options{
		Name:      cfg.ReportName,
		Recipient: firstNonEmpty(f.recipient, cfg.Recipient),
		Sender:    firstNonEmpty(f.sender, cfg.Sender),
		MaxDepth:  cfg.MaxDepth,
		Images:    render.FileLoader{Root: root},
	}, log)

	doc := docxsurface.New(docxsurface.Options{Margins: docxsurface.Margins{
		Top:    cfg.MarginTop,
		Bottom: cfg.MarginBottom,
		Left:   cfg.MarginLeft,
		Right:  cfg.MarginRight,
	}})
	res, err := engine.Render(doc, rep, style.ResolveRoles(styles))
	if err != nil {
		return err
	}

	out := f.out
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".docx"
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := doc.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	warnings := res.WarningList()
	fmt.Fprintf(stderr, "wrote %s (%d sections, %d warnings)\n", out, res.Sections, len(warnings))
	return nil
}

func supportedList() string {
	exts := make([]string, 0, len(parser.SupportedExtensions))
	for _, e := range []string{".json", ".md", ".markdown", ".html", ".htm", ".txt", ".csv", ".docx"} {
		if parser.SupportedExtensions[e] {
			exts = append(exts, e)
		}
	}
	return strings.Join(exts, ", ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
