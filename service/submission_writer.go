package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/ludo-technologies/copyscn/domain"
)

// SubmissionWriterImpl writes raw answers to <dir>/SubmissionsQ<n>/<id><ext>
type SubmissionWriterImpl struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewSubmissionWriter creates a submission writer on fs
func NewSubmissionWriter(fs afero.Fs, logger zerolog.Logger) *SubmissionWriterImpl {
	return &SubmissionWriterImpl{fs: fs, logger: logger}
}

// SubmissionsDir returns the per-question directory below outputDir
func SubmissionsDir(outputDir, question string) string {
	return filepath.Join(outputDir, "SubmissionsQ"+strings.TrimSpace(question))
}

// WriteSubmissions writes every raw source unchanged. A later submission with
// the same id overwrites the earlier file.
func (w *SubmissionWriterImpl) WriteSubmissions(outputDir, question, extension string, subs []domain.RawSubmission) (string, error) {
	if outputDir == "" {
		outputDir = domain.DefaultSubmissionsDir
	}
	dir := SubmissionsDir(outputDir, question)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return "", domain.NewOutputError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	for _, sub := range subs {
		name := safeFileName(sub.ID) + extension
		if err := afero.WriteFile(w.fs, filepath.Join(dir, name), []byte(sub.Source), 0644); err != nil {
			return "", domain.NewOutputError(fmt.Sprintf("failed to write submission %s", name), err)
		}
	}

	w.logger.Debug().Str("dir", dir).Int("files", len(subs)).Msg("submissions written")
	return dir, nil
}

// safeFileName keeps an id inside its directory
func safeFileName(id string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return r.Replace(id)
}
