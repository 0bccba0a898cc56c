package app

import (
	"context"
	"path/filepath"

	"goeda/adapters/api"
	"goeda/adapters/datareadiness/coercer"
	"goeda/adapters/excel"
	"goeda/adapters/plot"
	"goeda/domain/dataset"
	"goeda/internal"
	"goeda/internal/analysis/eda"
	"goeda/internal/config"
	"goeda/internal/errors"
	"goeda/ports"
)

// ReaderFactory opens a table source for a path
type ReaderFactory func(path string) ports.TableReader

// EDAService wires loading, analysis, figures and presentation of one dataset
type EDAService struct {
	cfg       *config.Config
	console   ports.ConsolePrinter
	newReader ReaderFactory
	logger    *internal.Logger
}

// AnalyzeRequest names the dataset to analyse: either a file or a ready table
type AnalyzeRequest struct {
	Path  string
	Table *dataset.Table
	Name  string // report label; falls back to the configured name, then the file name
}

// AnalyzeResponse holds the run result and where its artefacts went
type AnalyzeResponse struct {
	Result    *eda.Result
	PlotsPath string // empty when no figure page was written
	PlotsHTML []byte
}

// NewEDAService creates the service; console may be nil
func NewEDAService(cfg *config.Config, console ports.ConsolePrinter) *EDAService {
	s := &EDAService{
		cfg:     cfg,
		console: console,
		logger:  internal.DefaultLogger.With("EDAService"),
	}
	s.newReader = s.fileReader
	return s
}

// WithReaderFactory replaces the file loader
func (s *EDAService) WithReaderFactory(f ReaderFactory) *EDAService {
	s.newReader = f
	return s
}

func (s *EDAService) fileReader(path string) ports.TableReader {
	cc := coercer.DefaultCoercionConfig()
	cc.LenientNumbers = s.cfg.Data.LenientNumbers
	cc.DetectTimestamps = s.cfg.Data.DetectTimestamps
	cc.NormalizeStrings = s.cfg.Data.NormalizeStrings

	rc := excel.DefaultReaderConfig()
	rc.Sheet = s.cfg.Data.Sheet
	rc.CoercionConfig = cc
	if d := []rune(s.cfg.Data.Delimiter); len(d) == 1 {
		rc.Delimiter = d[0]
	}
	return excel.NewDataReader(path, rc)
}

// Options maps the configuration onto engine options
func (s *EDAService) Options(name string) eda.Options {
	opts := eda.Options{
		DatasetName:    s.cfg.Analysis.DatasetName,
		Alpha:          s.cfg.Analysis.Alpha,
		TopKCategories: s.cfg.Analysis.TopKCategories,
		SummaryPath:    s.cfg.Output.SummaryPath,
		SampleCap:      s.cfg.Analysis.SampleCap,
		Seed:           s.cfg.Analysis.Seed,
	}
	if name != "" {
		opts.DatasetName = name
	}
	if s.cfg.Plot.Enabled {
		opts.MaxNumericPlots = s.cfg.Plot.MaxNumericPlots
		opts.MaxQQPlots = s.cfg.Plot.MaxQQPlots
		opts.MaxBoxPlots = s.cfg.Plot.MaxBoxPlots
	}
	return opts
}

// Analyze loads the dataset if needed, runs the engine, and writes the report
// and, when plotting is enabled, the figure page
func (s *EDAService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := req.Table
	name := req.Name
	if name == "" {
		name = s.cfg.Analysis.DatasetName
	}
	if table == nil {
		if req.Path == "" {
			return nil, errors.InvalidInput("a data file or table is required")
		}
		var err error
		table, err = s.newReader(req.Path).ReadTable()
		if err != nil {
			return nil, errors.Wrapf(err, "loading %s", req.Path)
		}
		if name == "" {
			name = filepath.Base(req.Path)
		}
	}

	var renderer *plot.Renderer
	engineOpts := []eda.EngineOption{}
	opts := s.Options(name)
	if s.cfg.Plot.Enabled {
		renderer = plot.NewRenderer("EDA: " + opts.DatasetName)
		engineOpts = append(engineOpts, eda.WithRenderer(renderer))
	}
	if s.console != nil {
		engineOpts = append(engineOpts, eda.WithConsole(s.console))
	}

	result, err := eda.NewEngine(engineOpts...).Run(table, opts)
	if err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{Result: result}
	if renderer == nil || renderer.Len() == 0 {
		return resp, nil
	}
	if path := s.cfg.Output.PlotsPath; path != "" {
		if err := renderer.Flush(path); err != nil {
			s.logger.Warn("figure page not written: %v", err)
		} else {
			resp.PlotsPath = path
		}
	}
	html, err := renderer.Bytes()
	if err != nil {
		s.logger.Warn("figure page not rendered: %v", err)
		return resp, nil
	}
	resp.PlotsHTML = html
	return resp, nil
}

// Serve presents the response over HTTP on the configured address until ctx
// is cancelled
func (s *EDAService) Serve(ctx context.Context, resp *AnalyzeResponse) error {
	if resp == nil || resp.Result == nil {
		return errors.InternalError("no analysis result to serve")
	}
	addr := s.cfg.Server.Addr
	if addr == "" {
		return errors.ConfigInvalid("server address is not configured")
	}
	srv := api.NewServer()
	srv.Publish(api.Page{
		Title:     "EDA: " + resp.Result.DatasetName,
		Lines:     resp.Result.Lines,
		PlotsHTML: resp.PlotsHTML,
	})
	return srv.Serve(ctx, addr)
}
