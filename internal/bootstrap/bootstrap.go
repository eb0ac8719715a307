package bootstrap

import (
	"fmt"
	"image"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	paginationoutadapter "ereader/internal/modules/pagination/adapter/out"
	pagedomain "ereader/internal/modules/pagination/domain"
	paginationout "ereader/internal/modules/pagination/port/out"
	paginationservice "ereader/internal/modules/pagination/service"
	paginationusecase "ereader/internal/modules/pagination/usecase"
	progressinadapter "ereader/internal/modules/progress/adapter/in"
	progressoutadapter "ereader/internal/modules/progress/adapter/out"
	progressin "ereader/internal/modules/progress/port/in"
	progressservice "ereader/internal/modules/progress/service"
	progressusecase "ereader/internal/modules/progress/usecase"
	readerinadapter "ereader/internal/modules/reader/adapter/in"
	readeroutadapter "ereader/internal/modules/reader/adapter/out"
	readerin "ereader/internal/modules/reader/port/in"
	readerservice "ereader/internal/modules/reader/service"
	readerusecase "ereader/internal/modules/reader/usecase"
	renderinadapter "ereader/internal/modules/render/adapter/in"
	renderoutadapter "ereader/internal/modules/render/adapter/out"
	renderin "ereader/internal/modules/render/port/in"
	renderservice "ereader/internal/modules/render/service"
	renderusecase "ereader/internal/modules/render/usecase"
	"ereader/internal/platform/clock"
	"ereader/internal/platform/config"
	"ereader/internal/platform/typeset"
	"ereader/internal/platform/workerpool"
	uireader "ereader/internal/ui/views/reader"
)

type App struct {
	ReaderCLI   readerinadapter.CLIHandler
	ReaderTUI   readerinadapter.TUIHandler
	RenderCLI   renderinadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler

	Config config.Config

	surface *uireader.Surface
	pool    *workerpool.Pool
	closers []func() error
}

func New(cfg config.Config, logger zerolog.Logger) (*App, error) {
	pool := workerpool.New(cfg.Workers)
	faces := cfg.Faces()

	store, err := progressoutadapter.NewSQLiteProgressStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new progress store: %w", err)
	}
	progressUC := progressusecase.NewInteractor(progressservice.NewProgressService(clock.SystemClock{}, store))

	cli, err := newReader(cfg, pool, progressUC,
		paginationoutadapter.NewTypesetEngine(faces),
		renderusecase.NewInteractor(renderservice.NewRenderService[*image.RGBA](
			pool,
			renderoutadapter.NewRasterDrawer(faces),
			renderoutadapter.NewPNGEncoder(),
			nil,
			logger.With().Str("module", "render").Str("target", "raster").Logger(),
		)),
		logger,
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	surface := &uireader.Surface{}
	tui, err := newReader(cfg, pool, progressUC,
		paginationoutadapter.NewCellEngine(),
		renderusecase.NewInteractor(renderservice.NewRenderService[string](
			pool,
			renderoutadapter.NewTextDrawer(),
			renderoutadapter.NewTextEncoder(),
			surface,
			logger.With().Str("module", "render").Str("target", "terminal").Logger(),
		)),
		logger,
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		ReaderCLI:   readerinadapter.NewCLIHandler(cli.reader),
		ReaderTUI:   readerinadapter.NewTUIHandler(tui.reader),
		RenderCLI:   renderinadapter.NewCLIHandler(cli.render),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		Config:      cfg,
		surface:     surface,
		pool:        pool,
		closers:     []func() error{store.Close},
	}, nil
}

type readerStack struct {
	reader readerin.Usecase
	render renderin.Usecase
}

// newReader wires a reading session over its own pagination cache. The
// raster and terminal sessions measure in different units, so they never
// share layouts.
func newReader(
	cfg config.Config,
	pool *workerpool.Pool,
	progress progressin.Usecase,
	engine paginationout.LayoutEngine,
	render renderin.Usecase,
	logger zerolog.Logger,
) (readerStack, error) {
	pagination, err := paginationservice.NewPaginationService(engine, pool, cfg.CacheSize, logger.With().Str("module", "pagination").Logger())
	if err != nil {
		return readerStack{}, fmt.Errorf("new pagination service: %w", err)
	}
	reader := readerusecase.NewInteractor(readerservice.NewReaderService(
		readeroutadapter.NewLocalTextSource(),
		readeroutadapter.NewPaginationAdapter(paginationusecase.NewInteractor(pagination)),
		readeroutadapter.NewProgressAdapter(progress),
		readeroutadapter.NewRenderAdapter(render),
		logger.With().Str("module", "reader").Logger(),
	))
	return readerStack{reader: reader, render: render}, nil
}

// Close waits for background work and releases the progress store.
func (a *App) Close() error {
	a.pool.Wait()
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PageContext is the measurement context for raster pages, in pixels.
func PageContext(cfg config.Config) pagedomain.MeasurementContext {
	align, _ := typeset.ParseAlignment(cfg.Typography.Alignment)
	wrap, _ := typeset.ParseWrapMode(cfg.Typography.Wrap)
	return pagedomain.MeasurementContext{
		Display:          pagedomain.Rect{Width: cfg.Display.Width, Height: cfg.Display.Height},
		FontSize:         cfg.Typography.FontSize,
		LineSpacing:      cfg.Typography.LineSpacing,
		ParagraphSpacing: cfg.Typography.ParagraphSpacing,
		Alignment:        align,
		Wrap:             wrap,
	}
}

// TerminalContext is the measurement context for the pager, in cells. The
// display rectangle is filled in from the terminal size; spacing is dropped
// since a cell cannot be split.
func TerminalContext(cfg config.Config) pagedomain.MeasurementContext {
	mc := PageContext(cfg)
	mc.Display = pagedomain.Rect{}
	mc.FontSize = 1
	mc.LineSpacing = 0
	mc.ParagraphSpacing = 0
	return mc
}

func RunTUI(path string, app *App) error {
	model := uireader.New(app.ReaderTUI, path, TerminalContext(app.Config))
	program := tea.NewProgram(model, tea.WithAltScreen())
	app.surface.Attach(program)
	_, err := program.Run()
	return err
}
