// Package fsutil provides file system utility functions.
package fsutil

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/ctxlog"
)

// FindFilesByExtension walks rootPath and returns every file whose
// extension is extension, in lexical order. Hidden directories are skipped.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		return nil, errors.New("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && path != rootPath && strings.HasPrefix(d.Name(), "."):
			return filepath.SkipDir
		case !d.IsDir() && filepath.Ext(path) == extension:
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", rootPath)
	}
	return files, nil
}

// ResolvePath takes a path and returns every file with the given extension
// it denotes. A file path must carry the extension itself; a directory is
// searched recursively.
func ResolvePath(ctx context.Context, path, extension string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving path.", "path", path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.Newf("path not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error accessing path %s", path)
	}

	if info.IsDir() {
		logger.Debug("Path is a directory, scanning for files.", "directory", path, "extension", extension)
		return FindFilesByExtension(path, extension)
	}

	if filepath.Ext(path) != extension {
		return nil, errors.Newf("specified file is not a %s file: %s", extension, path)
	}
	return []string{path}, nil
}
