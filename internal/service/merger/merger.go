package merger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/fivem-installer/internal/logger"
)

// ResourcesDir is the server resources folder.
const ResourcesDir = "resources"

const dirMode os.FileMode = 0o755

var errMissingResources = errors.New("extracted bundle has no resources folder")

// Merger relocates bundled resources inside a server directory.
type Merger struct {
	dir string
}

// Option configures a Merger.
type Option func(*Merger)

// WithDir sets the server directory (defaults to the working directory).
func WithDir(dir string) Option {
	return func(m *Merger) {
		if dir != "" {
			m.dir = dir
		}
	}
}

// New creates a Merger for the working directory.
func New(opts ...Option) *Merger {
	m := &Merger{dir: "."}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// MergeResources moves every entry of <extractedRoot>/resources into
// resources/<namespace>, replacing entries with the same name, then deletes
// extractedRoot. Entries of resources/ outside the namespace are left alone.
func (m *Merger) MergeResources(ctx context.Context, extractedRoot, namespace string) error {
	ctx = logger.WithKV(ctx, "namespace", namespace)

	source := filepath.Join(m.dir, extractedRoot, ResourcesDir)

	entries, err := os.ReadDir(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", source, errMissingResources)
		}

		return fmt.Errorf("read %s: %w", source, err)
	}

	resources := filepath.Join(m.dir, ResourcesDir)
	if _, err = os.Stat(resources); err == nil {
		logger.Info(ctx, "Merging bundled resources into the existing resources folder")
	} else {
		logger.Info(ctx, "Creating resources folder")
	}

	target := filepath.Join(resources, namespace)
	if err = os.MkdirAll(target, dirMode); err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return err
		}

		src := filepath.Join(source, entry.Name())
		dst := filepath.Join(target, entry.Name())

		if err = replace(ctx, src, dst); err != nil {
			return fmt.Errorf("move %s: %w", entry.Name(), err)
		}
	}

	logger.Infof(ctx, "Moved %d resources", len(entries))

	if err = os.RemoveAll(filepath.Join(m.dir, extractedRoot)); err != nil {
		return fmt.Errorf("remove %s: %w", extractedRoot, err)
	}

	return nil
}

func replace(ctx context.Context, src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	logger.Debugf(ctx, "Rename of %s failed, falling back to copy", src)

	if err := copyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}

	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, dirMode)
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}

			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	//nolint:gosec // Destination is derived from the server directory.
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	if err = out.Sync(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
