package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/tphakala/birdnet-sql/internal/errors"
)

// Discover lists files below root whose base name matches pattern, sorted
// lexically. Subdirectories are only entered when recursive is set.
func Discover(fs afero.Fs, root, pattern string, recursive bool) ([]string, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading input directory: %w", err)).
			Component("importer").
			Category(errors.CategoryFileIO).
			Context("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.Newf("input path %s is not a directory", root).
			Component("importer").
			Category(errors.CategoryValidation).
			Context("path", root).
			Build()
	}

	var files []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		matched, err := filepath.Match(pattern, info.Name())
		if err != nil {
			return err
		}
		if matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(fmt.Errorf("scanning input directory: %w", err)).
			Component("importer").
			Category(errors.CategoryFileIO).
			Context("path", root).
			Build()
	}

	slices.Sort(files)
	return files, nil
}
