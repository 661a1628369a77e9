package util

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ImageExtensions are the file extensions treated as netpbm images.
var ImageExtensions = []string{".pgm", ".ppm", ".pnm"}

// CompressedExtensions are recognised on top of ImageExtensions.
var CompressedExtensions = []string{".zst", ".gz"}

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the decompressed bytes of the image file.
	Data []byte
}

// Name returns the file name with any compression suffix removed.
func (f ImageFile) Name() string {
	return TrimCompression(filepath.Base(f.Path))
}

// TrimCompression drops a trailing .zst or .gz from name.
func TrimCompression(name string) string {
	ext := filepath.Ext(name)
	if lo.Contains(CompressedExtensions, ext) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// IsImageFile reports whether name has a netpbm extension, optionally
// followed by a compression suffix.
func IsImageFile(name string) bool {
	return lo.Contains(ImageExtensions, strings.ToLower(filepath.Ext(TrimCompression(name))))
}

// ListDirectoryImageFiles returns the sorted paths of all image files in dir.
func ListDirectoryImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading directory %s", dir)
	}
	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && IsImageFile(e.Name())
	})
	paths := lo.Map(files, func(e os.DirEntry, _ int) string {
		return filepath.Join(dir, e.Name())
	})
	sort.Strings(paths)
	return paths, nil
}

// LoadDirectoryImageFiles reads all image files from a directory.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile sorted by path, each holding the decompressed bytes.
// - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	paths, err := ListDirectoryImageFiles(dir)
	if err != nil {
		return nil, err
	}
	images := make([]ImageFile, 0, len(paths))
	for _, path := range paths {
		data, err := ReadImageFile(path)
		if err != nil {
			return nil, err
		}
		images = append(images, ImageFile{Path: path, Data: data})
	}
	return images, nil
}

// ReadImageFile reads path, decompressing .zst and .gz files.
func ReadImageFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "zstd reader %s", path)
		}
		defer dec.Close()
		r = dec
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip reader %s", path)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// WriteImageFile writes data to path, compressing when the path ends in
// .zst or .gz. Parent directories are created as needed.
func WriteImageFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}

	var buf bytes.Buffer
	switch filepath.Ext(path) {
	case ".zst":
		enc, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(runtime.NumCPU()))
		if err != nil {
			return errors.Wrap(err, "zstd writer")
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return errors.Wrap(err, "zstd encode")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "zstd close")
		}
		data = buf.Bytes()
	case ".gz":
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			gz.Close()
			return errors.Wrap(err, "gzip encode")
		}
		if err := gz.Close(); err != nil {
			return errors.Wrap(err, "gzip close")
		}
		data = buf.Bytes()
	}

	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}
