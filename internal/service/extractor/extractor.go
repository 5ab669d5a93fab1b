package extractor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/codeclysm/extract/v4"
	"github.com/ulikunitz/xz"

	"github.com/oshokin/fivem-installer/internal/domain/archive"
	"github.com/oshokin/fivem-installer/internal/logger"
)

// IgnoreMarker is never overwritten when it already exists at the destination.
const IgnoreMarker = ".gitignore"

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

var errUnsafePath = errors.New("archive member escapes destination")

// Extractor unpacks archives into a fixed directory.
type Extractor struct {
	dir string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDir sets the destination directory (defaults to the working directory).
func WithDir(dir string) Option {
	return func(e *Extractor) {
		if dir != "" {
			e.dir = dir
		}
	}
}

// New creates an Extractor writing into the working directory.
func New(opts ...Option) *Extractor {
	e := &Extractor{dir: "."}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Dir returns the destination directory.
func (e *Extractor) Dir() string {
	return e.dir
}

// ExtractAndRemove unpacks fileName and deletes it afterwards.
// An unsupported suffix fails with archive.ErrUnsupportedFormat before anything is touched.
func (e *Extractor) ExtractAndRemove(ctx context.Context, fileName string) error {
	format, err := archive.FormatFromName(fileName)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "archive", filepath.Base(fileName), "format", format.String())
	logger.Info(ctx, "Extracting archive")

	if err = e.Extract(ctx, fileName, format); err != nil {
		return fmt.Errorf("extract %s: %w", fileName, err)
	}

	logger.Info(ctx, "Extraction complete")

	if err = os.Remove(fileName); err != nil {
		return fmt.Errorf("remove %s: %w", fileName, err)
	}

	logger.Debugf(ctx, "Deleted %s", fileName)

	return nil
}

// Extract unpacks fileName as format without removing it.
// Relative destinations are resolved against the working directory at call time.
func (e *Extractor) Extract(ctx context.Context, fileName string, format archive.Format) error {
	dir, err := filepath.Abs(e.dir)
	if err != nil {
		return fmt.Errorf("resolve destination %s: %w", e.dir, err)
	}

	if err = os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	switch format {
	case archive.SevenZip:
		return extractSevenZip(ctx, fileName, dir)
	case archive.TarXZ:
		return extractTarXZ(ctx, fileName, dir)
	case archive.Zip:
		return extractZip(ctx, fileName, dir)
	default:
		return fmt.Errorf("%s: %w", format, archive.ErrUnsupportedFormat)
	}
}

func extractTarXZ(ctx context.Context, fileName, dir string) error {
	file, err := os.Open(filepath.Clean(fileName))
	if err != nil {
		return err
	}

	defer func() {
		_ = file.Close()
	}()

	decompressed, err := xz.NewReader(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("open xz stream: %w", err)
	}

	return extract.Tar(ctx, decompressed, dir, memberFilter(ctx, dir))
}

func extractZip(ctx context.Context, fileName, dir string) error {
	file, err := os.Open(filepath.Clean(fileName))
	if err != nil {
		return err
	}

	defer func() {
		_ = file.Close()
	}()

	return extract.Zip(ctx, file, dir, memberFilter(ctx, dir))
}

func extractSevenZip(ctx context.Context, fileName, dir string) error {
	reader, err := sevenzip.OpenReader(filepath.Clean(fileName))
	if err != nil {
		return fmt.Errorf("open 7z archive: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	filter := memberFilter(ctx, dir)

	for _, member := range reader.File {
		if err = ctx.Err(); err != nil {
			return err
		}

		name := filter(member.Name)
		if name == "" {
			continue
		}

		var target string

		target, err = safeJoin(dir, name)
		if err != nil {
			return err
		}

		info := member.FileInfo()
		if info.IsDir() {
			if err = os.MkdirAll(target, dirMode); err != nil {
				return err
			}

			continue
		}

		if err = writeSevenZipMember(member, target, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", member.Name, err)
		}
	}

	return nil
}

func writeSevenZipMember(member *sevenzip.File, target string, perm os.FileMode) error {
	if perm == 0 {
		perm = fileMode
	}

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return err
	}

	src, err := member.Open()
	if err != nil {
		return err
	}

	defer func() {
		_ = src.Close()
	}()

	//nolint:gosec // Target is checked by safeJoin.
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}

	return dst.Close()
}

// memberFilter returns a renamer that drops members escaping dir
// and the ignore marker when one is already present.
// An empty result tells the extraction to skip the member.
// dir must be absolute: the extract package skips every member of a relative location.
func memberFilter(ctx context.Context, dir string) extract.Renamer {
	return func(name string) string {
		if _, err := safeJoin(dir, name); err != nil {
			logger.WarnKV(ctx, "Skipping archive member outside the destination", "member", name)
			return ""
		}

		if !IsIgnoreMarker(name) {
			return name
		}

		if _, err := os.Stat(filepath.Join(dir, IgnoreMarker)); err == nil {
			logger.InfoKV(ctx, "Keeping existing ignore marker", "file", IgnoreMarker)
			return ""
		}

		return name
	}
}

// IsIgnoreMarker reports whether an archive member is the top-level ignore marker.
func IsIgnoreMarker(name string) bool {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")

	return path.Clean(name) == IgnoreMarker
}

func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))

	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, errUnsafePath)
	}

	return target, nil
}
