package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/nvr-ai/go-pnm/images"
	"github.com/nvr-ai/go-pnm/logging"
	"github.com/nvr-ai/go-pnm/manip"
	"github.com/nvr-ai/go-pnm/pnm"
	"github.com/nvr-ai/go-pnm/util"
)

const scenarioPGM = "P2\n3 4\n255\n1 2 3\n4 5 6\n7 8 9\n10 11 12\n"

func newTestProcessor(t *testing.T, opts Options) *Processor {
	t.Helper()
	logger, _ := logging.NewObservedTestLogger(t)
	return New(opts, logger)
}

func TestProcessBrightenAscii(t *testing.T) {
	p := newTestProcessor(t, Options{Op: manip.Brighten(10), Raster: images.RasterAscii})
	out, img, err := p.Process([]byte(scenarioPGM))
	require.NoError(t, err)
	assert.Equal(t, "P2\n3 4\n255\n11 12 13\n14 15 16\n17 18 19\n20 21 22\n", string(out))
	assert.Equal(t, images.ChannelGray, img.Kind())

	stages := p.Tracker().Stats()
	require.Len(t, stages, 3)
	assert.Equal(t, StageApply, stages[0].Name)
}

func TestProcessToRaw(t *testing.T) {
	p := newTestProcessor(t, Options{Op: manip.None(), Raster: images.RasterRaw})
	out, _, err := p.Process([]byte(scenarioPGM))
	require.NoError(t, err)
	assert.Equal(t, append([]byte("P5\n3 4\n255\n"), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12), out)
}

func TestProcessDecodeError(t *testing.T) {
	p := newTestProcessor(t, Options{Op: manip.Negate()})
	_, _, err := p.Process([]byte("P7\n1 1\n255\n"))
	assert.ErrorIs(t, err, pnm.ErrUnrecognizedMagic)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pgm.gz")
	out := filepath.Join(dir, "out", "res.pgm")
	require.NoError(t, util.WriteImageFile(in, []byte(scenarioPGM)))

	p := newTestProcessor(t, Options{Op: manip.Negate(), Raster: images.RasterAscii})
	res := p.ProcessFile(context.Background(), Job{In: in, Out: out})
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Width)
	assert.Equal(t, 4, res.Height)
	assert.Equal(t, 255, res.Maxval)
	assert.NotEmpty(t, res.Checksum)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := pnm.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []images.Sample{254, 253, 252, 251, 250, 249, 248, 247, 246, 245, 244, 243}, img.(*images.Gray).Pix)
}

func TestBatch(t *testing.T) {
	in := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, util.WriteImageFile(filepath.Join(in, "a.pgm"), []byte(scenarioPGM)))
	require.NoError(t, util.WriteImageFile(filepath.Join(in, "b.ppm.zst"), []byte("P3\n1 1\n255\n255 0 0\n")))
	require.NoError(t, util.WriteImageFile(filepath.Join(in, "c.pgm"), []byte("P2\n2 2\n255\n1 2 3\n")))
	require.NoError(t, util.WriteImageFile(filepath.Join(in, "d.ppm"), []byte("XX")))

	jobs, err := DirectoryJobs(in, outDir, manip.Grayscale())
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, filepath.Join(outDir, "b.pgm.zst"), jobs[1].Out)
	assert.Equal(t, filepath.Join(outDir, "d.pgm"), jobs[3].Out)

	logger, logs := logging.NewObservedTestLogger(t)
	p := New(Options{Op: manip.Grayscale(), Raster: images.RasterRaw, Workers: 2}, logger)
	results, err := p.Batch(context.Background(), jobs)
	require.Error(t, err)
	require.Len(t, results, 4)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], pnm.ErrSizeMismatch)
	assert.ErrorIs(t, errs[1], pnm.ErrUnrecognizedMagic)

	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, images.ChannelGray, results[1].Kind)

	data, err := util.ReadImageFile(filepath.Join(outDir, "b.pgm.zst"))
	require.NoError(t, err)
	assert.Equal(t, append([]byte("P5\n1 1\n255\n"), 76), data)

	_, err = os.Stat(filepath.Join(outDir, "c.pgm"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, 2, logs.FilterMessage("failed").Len())
	assert.Equal(t, 2, logs.FilterMessage("processed").Len())
	assert.Equal(t, 1, logs.FilterMessage("batch complete").Len())
}

func TestBatchCanceled(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, util.WriteImageFile(filepath.Join(in, "a.pgm"), []byte(scenarioPGM)))
	jobs, err := DirectoryJobs(in, t.TempDir(), manip.None())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newTestProcessor(t, Options{Op: manip.None()})
	results, err := p.Batch(ctx, jobs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestDirectoryJobsMissing(t *testing.T) {
	_, err := DirectoryJobs(filepath.Join(t.TempDir(), "missing"), t.TempDir(), manip.None())
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name string
		op   manip.Op
		want string
	}{
		{"a.ppm", manip.Grayscale(), "a.pgm"},
		{"a.PPM", manip.Grayscale(), "a.pgm"},
		{"a.ppm.zst", manip.Grayscale(), "a.pgm.zst"},
		{"a.ppm.gz", manip.Grayscale(), "a.pgm.gz"},
		{"a.pgm", manip.Grayscale(), "a.pgm"},
		{"a.pnm", manip.Grayscale(), "a.pnm"},
		{"a.ppm", manip.Negate(), "a.ppm"},
		{"a.ppm.zst", manip.None(), "a.ppm.zst"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.name, tt.op))
		})
	}
}
