// Package main is the pnmtool command: decode a Netpbm image, apply one
// manipulation and encode the result as ascii or raw.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-pnm/config"
	"github.com/nvr-ai/go-pnm/images"
	"github.com/nvr-ai/go-pnm/logging"
	"github.com/nvr-ai/go-pnm/pipeline"
)

const (
	// Flags.
	flagNegate    = "negate"
	flagBrighten  = "brighten"
	flagSharpen   = "sharpen"
	flagSmooth    = "smooth"
	flagGrayscale = "grayscale"
	flagContrast  = "contrast"
	flagResize    = "resize"
	flagAscii     = "ascii"
	flagBinary    = "binary"
	flagEdge      = "edge"
	flagConfig    = "config"
	flagDebug     = "debug"
	flagWorkers   = "workers"
	flagIn        = "in"
	flagOut       = "out"

	exitProcessing = 1
	exitUsage      = 2

	usageLine = "pnmtool [op] (-oa|-ob) <infile> <outfile>"
)

// boolOps are the parameterless operation flags in the order they are reported.
var boolOps = []string{flagNegate, flagSharpen, flagSmooth, flagGrayscale, flagContrast}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitProcessing)
	}
}

// opFlags returns a fresh set of the flags shared by the root command and
// batch.
func opFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: flagNegate, Aliases: []string{"n"}, Usage: "replace every sample s with maxval-s"},
		&cli.IntFlag{Name: flagBrighten, Aliases: []string{"b"}, Usage: "add `N` to every sample, saturating"},
		&cli.BoolFlag{Name: flagSharpen, Aliases: []string{"p"}, Usage: "apply the 3x3 sharpen kernel"},
		&cli.BoolFlag{Name: flagSmooth, Aliases: []string{"s"}, Usage: "apply the 3x3 box blur"},
		&cli.BoolFlag{Name: flagGrayscale, Aliases: []string{"g"}, Usage: "convert color to luma"},
		&cli.BoolFlag{Name: flagContrast, Aliases: []string{"c"}, Usage: "stretch each channel to the full range"},
		&cli.StringFlag{Name: flagResize, Usage: "scale to `WxH` (or 720p, 1080p, ...) with Lanczos3"},
		&cli.BoolFlag{Name: flagAscii, Aliases: []string{"oa"}, Usage: "write an ascii raster (P2/P3)"},
		&cli.BoolFlag{Name: flagBinary, Aliases: []string{"ob"}, Usage: "write a raw raster (P5/P6)"},
		&cli.StringFlag{Name: flagEdge, Usage: "convolution border: clamp, mirror or wrap"},
		&cli.StringFlag{Name: flagConfig, Usage: "load configuration from `FILE`"},
	}
}

func newApp() *cli.App {
	logger := zap.NewNop().Sugar()

	usageError := func(_ *cli.Context, err error, _ bool) error {
		return cli.Exit(err.Error(), exitUsage)
	}

	return &cli.App{
		Name:            "pnmtool",
		Usage:           "manipulate PGM and PPM images",
		UsageText:       usageLine,
		HideHelpCommand: true,
		Flags:           append(opFlags(), &cli.BoolFlag{Name: flagDebug, Usage: "enable debug logging"}),
		OnUsageError:    usageError,
		Before: func(c *cli.Context) error {
			l, err := logging.NewLogger("pnmtool", c.Bool(flagDebug))
			if err != nil {
				return cli.Exit(err.Error(), exitProcessing)
			}
			logger = l
			return nil
		},
		After: func(*cli.Context) error {
			// Sync fails on terminals; nothing useful to report.
			_ = logger.Sync()
			return nil
		},
		Action: func(c *cli.Context) error {
			return runSingle(c, logger)
		},
		Commands: []*cli.Command{
			{
				Name:      "batch",
				Usage:     "process every Netpbm file in a directory",
				UsageText: "pnmtool batch --in DIR --out DIR [op] (-oa|-ob) [--workers N]",
				Flags: append(opFlags(),
					&cli.StringFlag{Name: flagIn, Required: true, Usage: "input `DIR`"},
					&cli.StringFlag{Name: flagOut, Required: true, Usage: "output `DIR`"},
					&cli.IntFlag{Name: flagWorkers, Usage: "files processed concurrently (default: number of CPUs)"},
				),
				OnUsageError: usageError,
				Action: func(c *cli.Context) error {
					return runBatch(c, logger)
				},
			},
		},
	}
}

func runSingle(c *cli.Context, logger *zap.SugaredLogger) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: "+usageLine, exitUsage)
	}
	cfg, err := buildConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	p := pipeline.New(opts, logger)
	res := p.ProcessFile(c.Context, pipeline.Job{In: c.Args().Get(0), Out: c.Args().Get(1)})
	if res.Err != nil {
		return cli.Exit(fmt.Sprintf("pnmtool: %v", res.Err), exitProcessing)
	}
	p.Tracker().Report(logger)
	return nil
}

func runBatch(c *cli.Context, logger *zap.SugaredLogger) error {
	if c.NArg() != 0 {
		return cli.Exit("batch takes no positional arguments", exitUsage)
	}
	cfg, err := buildConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	jobs, err := pipeline.DirectoryJobs(c.String(flagIn), c.String(flagOut), opts.Op)
	if err != nil {
		return cli.Exit(fmt.Sprintf("pnmtool: %v", err), exitProcessing)
	}
	if _, err := pipeline.New(opts, logger).Batch(c.Context, jobs); err != nil {
		return cli.Exit(fmt.Sprintf("pnmtool: %v", err), exitProcessing)
	}
	return nil
}

func pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	op, err := cfg.Op()
	if err != nil {
		return pipeline.Options{}, err
	}
	rk, err := cfg.RasterKind()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{Op: op, Raster: rk, Workers: cfg.WorkerCount()}, nil
}

// buildConfig merges the optional config file with the command line. At
// most one operation may be selected, and an output mode is required
// unless a config file supplies one.
func buildConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	ops := lo.Filter(boolOps, func(name string, _ int) bool { return c.Bool(name) })
	if c.IsSet(flagBrighten) {
		ops = append(ops, flagBrighten)
		cfg.Amount = c.Int(flagBrighten)
	}
	if c.IsSet(flagResize) {
		ops = append(ops, flagResize)
		w, h, err := parseSize(c.String(flagResize))
		if err != nil {
			return nil, err
		}
		cfg.Width, cfg.Height = w, h
	}
	switch len(ops) {
	case 0:
	case 1:
		cfg.Operation = ops[0]
	default:
		return nil, errors.Errorf("choose at most one operation, got %s", strings.Join(ops, ", "))
	}

	ascii, binary := c.Bool(flagAscii), c.Bool(flagBinary)
	switch {
	case ascii && binary:
		return nil, errors.New("choose only one of -oa and -ob")
	case ascii:
		cfg.Output = "ascii"
	case binary:
		cfg.Output = "raw"
	case c.String(flagConfig) == "":
		return nil, errors.New("choose an output mode with -oa or -ob")
	}

	if c.IsSet(flagEdge) {
		cfg.Edge = c.String(flagEdge)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	return cfg, cfg.Validate()
}

// parseSize parses "WxH" or a preset name such as "720p".
func parseSize(s string) (int, int, error) {
	if r, ok := images.LookupResolution(s); ok {
		return r.Width, r.Height, nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.Errorf("resize %q: want WxH or a preset", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "resize width %q", ws)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "resize height %q", hs)
	}
	return w, h, nil
}
