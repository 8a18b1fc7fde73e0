package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MattiaPT/displayer/internal/config"
	"github.com/MattiaPT/displayer/internal/dataset"
	"github.com/MattiaPT/displayer/internal/log"
	"github.com/MattiaPT/displayer/internal/metadata"
	"github.com/MattiaPT/displayer/internal/scanner"
	"github.com/MattiaPT/displayer/pkg/types"
)

// ErrRootDirectoryUnreadable is returned when the root does not exist, is
// not a directory or cannot be listed.
var ErrRootDirectoryUnreadable = errors.New("root directory unreadable")

// progressEvery controls how often analysis_progress updates are emitted.
const progressEvery = 100

type Pipeline struct {
	cfg              *config.Config
	scanner          *scanner.Scanner
	meta             *metadata.Extractor
	logger           *log.Logger
	progressCallback ProgressCallback
}

func New(cfg *config.Config, logger *log.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		scanner: scanner.New(cfg.IncludeExtensions),
		meta:    metadata.New(),
		logger:  logger,
	}
}

func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.progressCallback = cb
}

func (p *Pipeline) emit(update ProgressUpdate) {
	if p.progressCallback != nil {
		p.progressCallback(update)
	}
}

// Run walks the root, extracts one asset per readable geotagged file and
// aggregates them. Per-file failures are logged and counted; only an
// unreadable root or an empty result is fatal. The summary is returned
// even when the run fails after the walk.
func (p *Pipeline) Run() (*dataset.Dataset, *types.ScanSummary, error) {
	summary := &types.ScanSummary{
		Root:          p.cfg.Root,
		SkippedByKind: make(map[types.FailureKind]int),
		StartTime:     time.Now(),
	}
	finish := func() {
		summary.EndTime = time.Now()
		summary.Duration = summary.EndTime.Sub(summary.StartTime)
	}

	if err := scanner.CheckRoot(p.cfg.Root); err != nil {
		finish()
		return nil, summary, fmt.Errorf("%w: %v", ErrRootDirectoryUnreadable, err)
	}

	p.logger.Info("Starting scan", zap.String("root", p.cfg.Root))
	p.emit(ProgressUpdate{Type: "status", Message: "Scanning files..."})

	entries, dirSkips, err := p.scanner.Scan(p.cfg.Root)
	if err != nil {
		finish()
		return nil, summary, fmt.Errorf("%w: %v", ErrRootDirectoryUnreadable, err)
	}

	for _, rec := range dirSkips {
		p.logger.Skip(rec)
		summary.SkippedByKind[rec.Kind]++
		if rec.Kind == types.FailureDirectoryUnreadable {
			summary.DirectoryWarnings++
		} else {
			summary.Skipped++
		}
	}

	summary.Candidates = len(entries)
	p.logger.Info("Found candidates", zap.Int("count", len(entries)))
	p.emit(ProgressUpdate{Type: "status", Message: "Reading metadata...", Total: len(entries)})

	assets := make([]types.MediaAsset, 0, len(entries))
	for i, entry := range entries {
		if i%progressEvery == 0 {
			p.emit(ProgressUpdate{
				Type:     "analysis_progress",
				Current:  i,
				Total:    len(entries),
				Filename: entry.Name,
			})
		}
		p.logger.Progress(i+1, len(entries), entry.Name)

		asset, err := p.meta.Extract(entry)
		if err != nil {
			rec := skipRecord(entry.Path, err)
			p.logger.Skip(rec)
			summary.Skipped++
			summary.SkippedByKind[rec.Kind]++
			continue
		}
		assets = append(assets, asset)
	}

	p.emit(ProgressUpdate{
		Type:    "analysis_progress",
		Current: len(entries),
		Total:   len(entries),
	})

	ds, err := dataset.Aggregate(assets)
	if err != nil {
		finish()
		p.logger.Summary(*summary)
		return nil, summary, fmt.Errorf("aggregate %s: %w", p.cfg.Root, err)
	}

	summary.Assets = ds.Len()
	summary.FirstCaptureTime = ds.FirstCaptureTime()
	summary.LastCaptureTime = ds.LastCaptureTime()
	finish()

	p.logger.Summary(*summary)
	p.emit(ProgressUpdate{Type: "complete", Summary: summary})

	return ds, summary, nil
}

func skipRecord(path string, err error) types.SkipRecord {
	var extractErr *metadata.ExtractError
	if errors.As(err, &extractErr) {
		return types.SkipRecord{Path: path, Kind: extractErr.Kind, Reason: extractErr.Err.Error()}
	}
	return types.SkipRecord{Path: path, Kind: types.FailureIO, Reason: err.Error()}
}

// BuildDataset runs the full pipeline over root with default settings.
func BuildDataset(root string, logger *log.Logger) (*dataset.Dataset, error) {
	cfg := config.DefaultConfig()
	cfg.Root = root
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ds, _, err := New(cfg, logger).Run()
	return ds, err
}
