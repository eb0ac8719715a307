package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ereader/internal/bootstrap"
	readerdto "ereader/internal/modules/reader/dto"
	"ereader/internal/platform/config"
	"ereader/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir  string
	logLevel string
	logFile  string
}

// layoutFlags override the configured typography and page geometry.
type layoutFlags struct {
	width            int
	height           int
	font             string
	fontSize         float64
	lineSpacing      float64
	paragraphSpacing float64
	align            string
	wrap             string
}

func (l *layoutFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&l.width, "width", 0, "page width in pixels")
	f.IntVar(&l.height, "height", 0, "page height in pixels")
	f.StringVar(&l.font, "font", "", "font: goregular|7x13")
	f.Float64Var(&l.fontSize, "font-size", 0, "font size in points")
	f.Float64Var(&l.lineSpacing, "line-spacing", 0, "extra space between lines")
	f.Float64Var(&l.paragraphSpacing, "paragraph-spacing", 0, "extra space after paragraphs")
	f.StringVar(&l.align, "align", "", "alignment: left|center|right|justified")
	f.StringVar(&l.wrap, "wrap", "", "line breaking: char|word")
}

func (l *layoutFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("width") {
		cfg.Display.Width = l.width
	}
	if f.Changed("height") {
		cfg.Display.Height = l.height
	}
	if f.Changed("font") {
		cfg.Typography.Font = l.font
	}
	if f.Changed("font-size") {
		cfg.Typography.FontSize = l.fontSize
	}
	if f.Changed("line-spacing") {
		cfg.Typography.LineSpacing = l.lineSpacing
	}
	if f.Changed("paragraph-spacing") {
		cfg.Typography.ParagraphSpacing = l.paragraphSpacing
	}
	if f.Changed("align") {
		cfg.Typography.Alignment = l.align
	}
	if f.Changed("wrap") {
		cfg.Typography.Wrap = l.wrap
	}
	return cfg.Validate()
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "ereader",
		Short:         "Paginate, read and render plain-text books",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.dataDir, "data-dir", ".", "directory holding .ereader/ (progress database and config)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&g.logFile, "log-file", "", "append logs to this file instead of stderr")

	root.AddCommand(newPaginateCmd(g))
	root.AddCommand(newOpenCmd(g))
	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newProgressCmd(g))
	root.AddCommand(newTUICmd(g))
	return root
}

// loadApp reads the configuration, lets mutate adjust it and wires the app.
// The returned cleanup closes the app and the log file.
func loadApp(g *globalFlags, quiet bool, mutate func(*config.Config) error) (*bootstrap.App, func(), error) {
	cfg, err := config.Load(g.dataDir)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFile != "" {
		cfg.LogFile = g.logFile
	}
	if mutate != nil {
		if err := mutate(&cfg); err != nil {
			return nil, nil, err
		}
	}

	logger := zerolog.Nop()
	closeLog := func() {}
	if !quiet || cfg.LogFile != "" {
		logger, closeLog, err = logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("close app")
		}
		closeLog()
	}
	return app, cleanup, nil
}

func newPaginateCmd(g *globalFlags) *cobra.Command {
	var layout layoutFlags
	var verbose bool

	cmd := &cobra.Command{
		Use:   "paginate <file>",
		Short: "Split a text file into pages and report the page table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(g, false, func(cfg *config.Config) error { return layout.apply(cmd, cfg) })
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := app.ReaderCLI.Paginate(context.Background(), readerdto.PaginateInput{
				Ref:     args[0],
				Context: bootstrap.PageContext(app.Config),
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s: %d pages, %s characters, fingerprint %s\n",
				out.DocumentID, len(out.Pages), humanize.Comma(int64(out.Total)), out.Fingerprint)
			if verbose {
				for i, p := range out.Pages {
					_, _ = fmt.Fprintf(w, "%d\t%d\t%d\n", i+1, p.Start, p.Length)
				}
			}
			return nil
		},
	}
	layout.register(cmd)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every page as: page start length")
	return cmd
}

func newOpenCmd(g *globalFlags) *cobra.Command {
	var layout layoutFlags
	var page int
	var next, prev bool

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Open a text file at the saved position and print the page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(g, false, func(cfg *config.Config) error { return layout.apply(cmd, cfg) })
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			out, err := app.ReaderCLI.Open(ctx, readerdto.OpenInput{
				Ref:     args[0],
				Context: bootstrap.PageContext(app.Config),
				Page:    page,
			})
			if err != nil {
				return err
			}
			switch {
			case next:
				out, err = app.ReaderCLI.Turn(ctx, 1)
			case prev:
				out, err = app.ReaderCLI.Turn(ctx, -1)
			}
			if err != nil {
				return err
			}
			printPage(cmd, out)
			return app.ReaderCLI.Close(ctx)
		},
	}
	layout.register(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "jump to this page (1-based) and save it")
	cmd.Flags().BoolVar(&next, "next", false, "turn to the next page and save it")
	cmd.Flags().BoolVar(&prev, "prev", false, "turn to the previous page and save it")
	cmd.MarkFlagsMutuallyExclusive("page", "next", "prev")
	return cmd
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var layout layoutFlags
	var page int
	var outPath string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the current (or given) page of a text file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(g, false, func(cfg *config.Config) error { return layout.apply(cmd, cfg) })
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			out, err := app.ReaderCLI.Open(ctx, readerdto.OpenInput{
				Ref:     args[0],
				Context: bootstrap.PageContext(app.Config),
				Page:    page,
			})
			if err != nil {
				return err
			}
			if out.PageCount == 0 {
				return errors.New("document is empty; nothing to render")
			}
			status, err := app.RenderCLI.ExportCommitted(ctx, outPath)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rendered page %d/%d of %s to %s (token %d, %s)\n",
				out.Page, out.PageCount, out.DocumentID, outPath, status.Token, status.State)
			return app.ReaderCLI.Close(ctx)
		},
	}
	layout.register(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "page to render (1-based); defaults to the saved position")
	cmd.Flags().StringVarP(&outPath, "out", "o", "page.png", "output PNG path")
	return cmd
}

func newProgressCmd(g *globalFlags) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Reading progress commands"}

	progress.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List documents by most recent access",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(g, false, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			recent, err := app.ProgressCLI.ListRecent(context.Background())
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no documents")
				return nil
			}
			for _, r := range recent {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f%%\t%s\n", r.DocumentID, r.Percent, humanize.Time(r.LastAccess))
			}
			return nil
		},
	})

	var showID string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the saved position of a document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(g, false, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			pos, err := app.ProgressCLI.Show(context.Background(), showID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "chapter=%d page=%d progress=%.4f\n", pos.ChapterIndex, pos.SubrangeIndex+1, pos.Progress)
			return nil
		},
	}
	show.Flags().StringVar(&showID, "id", "", "document id")
	_ = show.MarkFlagRequired("id")

	var removeID string
	remove := &cobra.Command{
		Use:   "remove",
		Short: "Forget the saved progress of a document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(g, false, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.ReaderCLI.Remove(context.Background(), removeID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", removeID)
			return nil
		},
	}
	remove.Flags().StringVar(&removeID, "id", "", "document id")
	_ = remove.MarkFlagRequired("id")

	progress.AddCommand(show, remove)
	return progress
}

func newTUICmd(g *globalFlags) *cobra.Command {
	var layout layoutFlags

	cmd := &cobra.Command{
		Use:   "tui <file>",
		Short: "Read a text file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs would draw over the pager, so they go to --log-file or nowhere.
			app, cleanup, err := loadApp(g, true, func(cfg *config.Config) error { return layout.apply(cmd, cfg) })
			if err != nil {
				return err
			}
			defer cleanup()
			return bootstrap.RunTUI(args[0], app)
		},
	}
	layout.register(cmd)
	return cmd
}

func printPage(cmd *cobra.Command, out readerdto.PageOutput) {
	w := cmd.OutOrStdout()
	if out.PageCount == 0 {
		_, _ = fmt.Fprintf(w, "%s is empty\n", out.DocumentID)
		return
	}
	_, _ = fmt.Fprintf(w, "%s  page %d/%d  %.1f%%\n", out.DocumentID, out.Page, out.PageCount, out.Percent)
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 40))
	_, _ = fmt.Fprintln(w, strings.TrimRight(out.Text, "\n"))
}
