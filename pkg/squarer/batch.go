package squarer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dixieflatline76/Squarify/config"
	"github.com/dixieflatline76/Squarify/util/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Result is the outcome for a single file.
type Result struct {
	Path     string
	Geometry Geometry
	Written  bool
	Err      error
}

// Summary collects the results of a batch run in processing order.
type Summary struct {
	Folders   int
	Files     int
	Processed int
	Failed    int
	Results   []Result
}

// Batch squares every eligible image under the configured folder set and
// writes each one back over its original.
type Batch struct {
	cfg     *config.Config
	fm      *FileManager
	codec   *Codec
	squarer *Squarer
	limiter *rate.Limiter
}

// NewBatch wires a batch from its configuration.
func NewBatch(cfg *config.Config) *Batch {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Batch{
		cfg:     cfg,
		fm:      NewFileManager(cfg),
		codec:   NewCodec(cfg.Encoding),
		squarer: NewSquarer(cfg),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FileManager exposes the batch's file manager.
func (b *Batch) FileManager() *FileManager {
	return b.fm
}

// Run processes the whole folder set. With one worker files are handled
// strictly in folder and name order. Unless KeepGoing is set, the first
// failure stops the batch; files written before it stay written. A dry run
// writes nothing and does not take the batch lock.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	if !b.cfg.DryRun {
		lock, err := AcquireLock(b.fm.Root())
		if err != nil {
			return Summary{}, err
		}
		defer lock.Release()
	}

	files, folders, err := b.fm.Scan()
	if err != nil {
		return Summary{Folders: folders}, err
	}
	log.Debugf("Batch: %d files in %d folders", len(files), folders)

	results := make([]Result, len(files))
	done := make([]bool, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)

	for i, path := range files {
		if err := b.limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := b.ProcessFile(gctx, path)
			if res.Err != nil && gctx.Err() != nil && errors.Is(res.Err, gctx.Err()) {
				// Interrupted, not failed.
				return nil
			}

			mu.Lock()
			results[i] = res
			done[i] = true
			mu.Unlock()

			if res.Err != nil {
				if b.cfg.KeepGoing {
					log.Printf("Batch: skipping %s: %v", path, res.Err)
					return nil
				}
				return res.Err
			}
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	summary := Summary{Folders: folders, Files: len(files)}
	for i, res := range results {
		if !done[i] {
			continue
		}
		summary.Results = append(summary.Results, res)
		if res.Err != nil {
			summary.Failed++
		} else {
			summary.Processed++
		}
	}

	if runErr == nil && summary.Failed > 0 {
		runErr = fmt.Errorf("%d of %d files failed", summary.Failed, summary.Files)
	}
	log.Printf("Batch: processed %d, failed %d of %d files in %d folders",
		summary.Processed, summary.Failed, summary.Files, summary.Folders)
	return summary, runErr
}

// ProcessFile squares one image in place. The image is fully decoded and
// re-encoded in memory before the original is touched. In dry-run mode only
// the geometry is computed.
func (b *Batch) ProcessFile(ctx context.Context, path string) Result {
	res := Result{Path: path}
	if err := checkContext(ctx); err != nil {
		res.Err = err
		return res
	}

	if b.cfg.DryRun {
		w, h, err := b.fm.GetDimensions(path)
		if err != nil {
			res.Err = err
			return res
		}
		res.Geometry, res.Err = b.squarer.Plan(w, h)
		if res.Err != nil {
			res.Err = fmt.Errorf("%s: %w", path, res.Err)
		}
		return res
	}

	img, err := b.codec.Load(path)
	if err != nil {
		res.Err = err
		return res
	}

	squared, geo, err := b.squarer.Transform(ctx, img)
	res.Geometry = geo
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	data, err := b.codec.EncodeBytes(squared)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	if err := b.fm.ReplaceFile(path, data); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	log.Debugf("Batch: %s %s", path, geo)
	return res
}

// IsGeometryError reports whether err came from an image that cannot be squared.
func IsGeometryError(err error) bool {
	return errors.Is(err, ErrCropTooWide) || errors.Is(err, ErrTallerThanWide)
}
