// Package pipeline wires the decoder, the manipulations and the encoder into
// the read -> decode -> apply -> encode -> write flow used by pnmtool, for a
// single image or a directory processed by a bounded pool of workers.
package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-pnm/images"
	"github.com/nvr-ai/go-pnm/manip"
	"github.com/nvr-ai/go-pnm/pnm"
	"github.com/nvr-ai/go-pnm/profiler"
	"github.com/nvr-ai/go-pnm/util"
)

// Stage names recorded by the profiler.
const (
	StageRead   = "read"
	StageDecode = "decode"
	StageApply  = "apply"
	StageEncode = "encode"
	StageWrite  = "write"
)

// Options configures a Processor.
type Options struct {
	// Op is the manipulation applied to every image.
	Op manip.Op
	// Raster is the output encoding.
	Raster images.RasterKind
	// Workers bounds concurrent files in Batch. Values below 1 mean 1.
	Workers int
}

// Job is one input file and where its result goes.
type Job struct {
	In  string
	Out string
}

// Result describes a processed job.
type Result struct {
	Job
	Kind     images.ChannelKind
	Width    int
	Height   int
	Maxval   int
	Checksum string
	Err      error
}

// Processor runs Options over images. It is safe for concurrent use.
type Processor struct {
	opts    Options
	logger  *zap.SugaredLogger
	tracker *profiler.Tracker
}

// New creates a processor that logs to logger.
func New(opts Options, logger *zap.SugaredLogger) *Processor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Processor{
		opts:    opts,
		logger:  logger,
		tracker: profiler.NewTracker(),
	}
}

// Tracker returns the stage timings collected so far.
func (p *Processor) Tracker() *profiler.Tracker {
	return p.tracker
}

// Process decodes data, applies the configured operation and encodes the
// result. Decode failures are returned unchanged so callers can match
// them against the pnm error kinds.
func (p *Processor) Process(data []byte) ([]byte, images.Image, error) {
	done := p.tracker.StartOperation(StageDecode)
	img, err := pnm.Decode(data)
	done()
	if err != nil {
		return nil, nil, err
	}
	w, h := img.Size()
	p.logger.Debugw("decoded", "kind", img.Kind(), "width", w, "height", h, "maxval", img.MaxValue())

	done = p.tracker.StartOperation(StageApply)
	out := manip.Apply(img, p.opts.Op)
	done()
	p.logger.Debugw("applied", "op", p.opts.Op)

	done = p.tracker.StartOperation(StageEncode)
	encoded := pnm.Encode(out, p.opts.Raster)
	done()
	return encoded, out, nil
}

// ProcessFile runs one job from disk to disk.
func (p *Processor) ProcessFile(ctx context.Context, job Job) Result {
	res := Result{Job: job}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	done := p.tracker.StartOperation(StageRead)
	data, err := util.ReadImageFile(job.In)
	done()
	if err != nil {
		res.Err = err
		return res
	}

	encoded, img, err := p.Process(data)
	if err != nil {
		res.Err = errors.Wrapf(err, "decoding %s", job.In)
		return res
	}
	res.Kind = img.Kind()
	res.Width, res.Height = img.Size()
	res.Maxval = img.MaxValue()
	res.Checksum = images.Checksum(img)

	done = p.tracker.StartOperation(StageWrite)
	err = util.WriteImageFile(job.Out, encoded)
	done()
	if err != nil {
		res.Err = err
		return res
	}
	p.logger.Infow("processed", "in", job.In, "out", job.Out, "op", p.opts.Op, "raster", p.opts.Raster)
	return res
}

// Batch processes jobs with at most Options.Workers in flight. Every job is
// attempted; the returned error combines all per-job failures. Results are
// in job order.
func (p *Processor) Batch(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = p.ProcessFile(ctx, job)
			if results[i].Err != nil {
				p.logger.Warnw("failed", "in", job.In, "error", results[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := lo.Filter(results, func(r Result, _ int) bool { return r.Err != nil })
	p.logger.Infow("batch complete", "jobs", len(jobs), "failed", len(failed))
	p.tracker.Report(p.logger)
	return results, multierr.Combine(lo.Map(failed, func(r Result, _ int) error { return r.Err })...)
}

// DirectoryJobs pairs every image file in inDir with a path of the same
// name in outDir. Compression suffixes are kept on the output. Grayscale
// writes PGM data, so a .ppm input is given a .pgm output.
func DirectoryJobs(inDir, outDir string, op manip.Op) ([]Job, error) {
	paths, err := util.ListDirectoryImageFiles(inDir)
	if err != nil {
		return nil, err
	}
	return lo.Map(paths, func(in string, _ int) Job {
		return Job{In: in, Out: filepath.Join(outDir, OutputName(filepath.Base(in), op))}
	}), nil
}

// OutputName returns the file name a result of op is written under.
func OutputName(name string, op manip.Op) string {
	if op.Kind != manip.KindGrayscale {
		return name
	}
	base := util.TrimCompression(name)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".ppm") {
		return name
	}
	return strings.TrimSuffix(base, ext) + ".pgm" + strings.TrimPrefix(name, base)
}
