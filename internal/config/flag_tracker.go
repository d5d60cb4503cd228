package config

import (
	"sync"

	"github.com/spf13/pflag"
)

// FlagTracker records which command-line flags the user set explicitly, so
// that only those override file and environment configuration.
type FlagTracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagTracker creates an empty tracker
func NewFlagTracker() *FlagTracker {
	return &FlagTracker{flags: make(map[string]bool)}
}

// TrackChanged records every flag of fs whose Changed bit is set
func TrackChanged(fs *pflag.FlagSet) *FlagTracker {
	ft := NewFlagTracker()
	if fs == nil {
		return ft
	}
	fs.Visit(func(f *pflag.Flag) {
		ft.Set(f.Name)
	})
	return ft
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(flagName string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags[flagName] = true
}

// WasSet checks if a flag was explicitly set
func (ft *FlagTracker) WasSet(flagName string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.flags[flagName]
}

// Count returns the number of explicitly set flags
func (ft *FlagTracker) Count() int {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return len(ft.flags)
}

// Names returns a copy of the set flag names
func (ft *FlagTracker) Names() map[string]bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	out := make(map[string]bool, len(ft.flags))
	for k, v := range ft.flags {
		out[k] = v
	}
	return out
}

// Merge returns override when flagName was set and base otherwise.
func Merge[T any](ft *FlagTracker, base, override T, flagName string) T {
	if ft != nil && ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeStringSlice is Merge for slices, ignoring an empty override
func MergeStringSlice(ft *FlagTracker, base, override []string, flagName string) []string {
	if ft != nil && ft.WasSet(flagName) && len(override) > 0 {
		return override
	}
	return base
}
