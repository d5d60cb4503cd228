package service

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/ludo-technologies/copyscn/domain"
)

// DirectoryReaderImpl reads one submission per file from a directory tree.
// The student id is the lowercased file name without its extension.
type DirectoryReaderImpl struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewDirectoryReader creates a directory reader on fs
func NewDirectoryReader(fs afero.Fs, logger zerolog.Logger) *DirectoryReaderImpl {
	return &DirectoryReaderImpl{fs: fs, logger: logger}
}

// DefaultPatterns selects every file with extension below the directory
func DefaultPatterns(extension string) []string {
	return []string{"**/*" + extension}
}

// ReadDirectory collects files matching any of patterns (doublestar syntax,
// relative to dir). Hidden files and directories are skipped.
func (r *DirectoryReaderImpl) ReadDirectory(dir string, patterns []string) ([]domain.RawSubmission, error) {
	info, err := r.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(dir, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot access directory %s", dir), err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a directory: %s", dir), nil)
	}
	if len(patterns) == 0 {
		return nil, domain.NewConfigError("at least one file pattern is required", nil)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot resolve directory %s", dir), err)
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(r.fs, root))
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, domain.NewConfigError(fmt.Sprintf("invalid file pattern %q", pattern), nil)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to match %q in %s", pattern, dir), err)
		}
		for _, m := range matches {
			if isHiddenPath(m) {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("no submission files in directory %s match %s", dir, strings.Join(patterns, ", ")), nil)
	}
	sort.Strings(files)

	subs := make([]domain.RawSubmission, 0, len(files))
	for _, rel := range files {
		data, err := afero.ReadFile(r.fs, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot read submission %s", rel), err)
		}
		base := path.Base(rel)
		id := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
		subs = append(subs, domain.RawSubmission{
			ID:     id,
			Name:   id,
			Source: string(data),
		})
	}

	r.logger.Debug().
		Str("dir", dir).
		Strs("patterns", patterns).
		Int("files", len(subs)).
		Msg("submissions collected")
	return subs, nil
}

func isHiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
