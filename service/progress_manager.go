package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/copyscn/domain"
)

const progressDescription = "Normalizing"

// ProgressManagerImpl implements the ProgressManager interface
type ProgressManagerImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	interactive bool
	maxValue    int
}

// NewProgressManager creates a progress manager writing to stderr
func NewProgressManager() domain.ProgressManager {
	return &ProgressManagerImpl{
		writer:      os.Stderr,
		interactive: IsInteractiveEnvironment(),
	}
}

// IsInteractiveEnvironment reports whether stderr is a terminal and CI is unset
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("COPYSCN_NO_PROGRESS") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Initialize sets up progress tracking with the maximum value
func (pm *ProgressManagerImpl) Initialize(maxValue int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.maxValue = maxValue
}

// Start starts the progress bar
func (pm *ProgressManagerImpl) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.interactive && pm.progressBar == nil {
		pm.progressBar = pm.createProgressBar(progressDescription, pm.maxValue)
	}
}

// Complete finishes the progress bar
func (pm *ProgressManagerImpl) Complete(success bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.progressBar != nil {
		if success {
			_ = pm.progressBar.Finish()
		} else {
			_ = pm.progressBar.Exit()
		}
		pm.progressBar = nil
	}
}

// Update updates the progress
func (pm *ProgressManagerImpl) Update(processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.progressBar == nil && pm.interactive {
		pm.progressBar = pm.createProgressBar(progressDescription, total)
	}
	if pm.progressBar != nil {
		_ = pm.progressBar.Set(processed)
	}
}

// SetWriter sets the output writer and re-evaluates interactivity
func (pm *ProgressManagerImpl) SetWriter(writer io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.writer = writer
	if file, ok := writer.(*os.File); ok {
		pm.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		pm.interactive = false
	}
}

// IsInteractive returns true if progress bars should be shown
func (pm *ProgressManagerImpl) IsInteractive() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	return pm.interactive
}

// Close cleans up any resources
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.progressBar != nil {
		_ = pm.progressBar.Finish()
		pm.progressBar = nil
	}
}

func (pm *ProgressManagerImpl) createProgressBar(description string, max int) *progressbar.ProgressBar {
	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}
