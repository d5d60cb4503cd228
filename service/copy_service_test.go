package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/copyscn/domain"
)

type recordingProgress struct {
	mu          sync.Mutex
	initialized int
	updates     int
	completed   []bool
}

func (p *recordingProgress) Initialize(maxValue int) { p.initialized = maxValue }
func (p *recordingProgress) Start()                  {}
func (p *recordingProgress) Complete(success bool)   { p.completed = append(p.completed, success) }
func (p *recordingProgress) SetWriter(io.Writer)     {}
func (p *recordingProgress) IsInteractive() bool     { return false }
func (p *recordingProgress) Close()                  {}

// Update is called from normalization workers
func (p *recordingProgress) Update(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
}

func rosterRequest() *domain.CopyRequest {
	req := domain.DefaultCopyRequest()
	req.AnswersPath = "answers.csv"
	req.Question = "5"
	return req
}

func newTestCopyService(progress domain.ProgressManager) *CopyService {
	s := NewCopyService(nil, progress, zerolog.Nop())
	s.newRunID = func() string { return "run-1" }
	return s
}

func clusterIDs(resp *domain.CopyResponse) [][]string {
	var out [][]string
	for _, c := range resp.Clusters {
		var ids []string
		for _, s := range c.Students() {
			ids = append(ids, s.ID)
		}
		out = append(out, ids)
	}
	return out
}

func TestCopyService_DetectCopies_MaskedPython(t *testing.T) {
	req := rosterRequest()
	req.ShowCanonical = true
	subs := []domain.RawSubmission{
		{ID: "bob", Name: "Bob Durand", Email: "bob@example.org", Source: "def bar( ):\n  return 1"},
		{ID: "alice", Name: "Alice Martin", Email: "alice@example.org", Source: "def foo():\n    return 1  # ok"},
		{ID: "carl", Name: "Carl Petit", Email: "carl@example.org", Source: "print('hello')"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), req, subs)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, "answers.csv", resp.Source)
	assert.Equal(t, "5", resp.Question)
	assert.Equal(t, "python", resp.Language)
	require.Len(t, resp.Clusters, 1)

	c := resp.Clusters[0]
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, 2, c.Size)
	assert.Equal(t, domain.Student{ID: "alice", Name: "Alice Martin", Email: "alice@example.org"}, c.Leader)
	assert.Equal(t, "defxxx():return1", c.Canonical)

	assert.Equal(t, []string{"alice@example.org", "bob@example.org"}, resp.EmailList)
	assert.Equal(t, domain.CopyStatistics{
		SubmissionsAnalyzed: 3,
		Clusters:            1,
		StudentsInvolved:    2,
		LargestCluster:      2,
	}, resp.Statistics)
}

func TestCopyService_DetectCopies_ExactOnly(t *testing.T) {
	req := rosterRequest()
	req.ExactOnly = true
	subs := []domain.RawSubmission{
		{ID: "a", Source: "x=1"},
		{ID: "b", Source: "x = 1"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), req, subs)
	require.NoError(t, err)
	assert.Empty(t, resp.Clusters)
	assert.Empty(t, resp.Involved)
	assert.Empty(t, resp.EmailList)
}

func TestCopyService_DetectCopies_LeaderAndMembers(t *testing.T) {
	subs := []domain.RawSubmission{
		{ID: "c", Source: "x = 1"},
		{ID: "a", Source: "x = 1"},
		{ID: "b", Source: "x=1"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), rosterRequest(), subs)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, clusterIDs(resp))

	var involved []string
	for _, s := range resp.Involved {
		involved = append(involved, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, involved)
}

func TestCopyService_DetectCopies_NoAnswerSentinel(t *testing.T) {
	subs := []domain.RawSubmission{
		{ID: "a", Source: "-"},
		{ID: "b", Source: " - \n"},
		{ID: "c", Source: "y = 2"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), rosterRequest(), subs)
	require.NoError(t, err)
	assert.Empty(t, resp.Clusters, "empty answers are never clustered")
	assert.Equal(t, 2, resp.Statistics.NoAnswer)
}

func TestCopyService_DetectCopies_DuplicateIDs(t *testing.T) {
	subs := []domain.RawSubmission{
		{ID: "a", Source: "x = 1"},
		{ID: "b", Source: "y = 2"},
		{ID: "a", Source: "y = 2"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), rosterRequest(), subs)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Statistics.DuplicateIDs)
	assert.Equal(t, 2, resp.Statistics.SubmissionsAnalyzed)
	assert.Equal(t, [][]string{{"a", "b"}}, clusterIDs(resp), "the later submission wins")
}

func TestCopyService_DetectCopies_WorkersAreDeterministic(t *testing.T) {
	var subs []domain.RawSubmission
	for i := 0; i < 60; i++ {
		subs = append(subs, domain.RawSubmission{
			ID:     fmt.Sprintf("s%02d", i),
			Source: fmt.Sprintf("def f%d():\n    return %d", i, i%4),
		})
	}

	sequential := rosterRequest()
	sequential.Workers = 1
	parallel := rosterRequest()
	parallel.Workers = 8

	progress := &recordingProgress{}
	want, err := newTestCopyService(nil).DetectCopies(context.Background(), sequential, subs)
	require.NoError(t, err)
	got, err := newTestCopyService(progress).DetectCopies(context.Background(), parallel, subs)
	require.NoError(t, err)

	assert.Len(t, want.Clusters, 4)
	assert.Equal(t, want.Clusters, got.Clusters)
	assert.Equal(t, want.Involved, got.Involved)
	assert.Equal(t, want.Statistics, got.Statistics)

	assert.Equal(t, 60, progress.initialized)
	assert.Equal(t, 60, progress.updates)
	assert.Equal(t, []bool{true}, progress.completed)
}

func TestCopyService_DetectCopies_EmailDomain(t *testing.T) {
	req := rosterRequest()
	req.EmailDomain = "@etu.example.fr"
	subs := []domain.RawSubmission{
		{ID: "a", Email: "A@example.org", Source: "x"},
		{ID: "b", Email: "b@example.org", Source: "x"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), req, subs)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@etu.example.fr", "b@etu.example.fr"}, resp.EmailList)
}

func TestCopyService_DetectCopies_Errors(t *testing.T) {
	service := newTestCopyService(nil)
	subs := []domain.RawSubmission{{ID: "a", Source: "x"}}

	t.Run("unknown language", func(t *testing.T) {
		req := rosterRequest()
		req.Language = "cobol"
		_, err := service.DetectCopies(context.Background(), req, subs)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrCodeUnsupportedLanguage))
	})

	t.Run("invalid request", func(t *testing.T) {
		req := rosterRequest()
		req.AnswersPath = ""
		_, err := service.DetectCopies(context.Background(), req, subs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid copy request")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		progress := &recordingProgress{}
		_, err := newTestCopyService(progress).DetectCopies(ctx, rosterRequest(), subs)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, domain.HasCode(err, domain.ErrCodeAnalysisError))
		assert.Equal(t, []bool{false}, progress.completed)
	})
}

func TestCopyService_DirectoryInput(t *testing.T) {
	req := domain.DefaultCopyRequest()
	req.SubmissionsDir = "/subs"
	req.Language = "c"
	subs := []domain.RawSubmission{
		{ID: "a", Source: "int main() { return 0; } // a"},
		{ID: "b", Source: "int  main(){return 0;}"},
	}

	resp, err := newTestCopyService(nil).DetectCopies(context.Background(), req, subs)
	require.NoError(t, err)
	assert.Equal(t, "/subs", resp.Source)
	assert.Empty(t, resp.Question)
	assert.Equal(t, [][]string{{"a", "b"}}, clusterIDs(resp))
	assert.Empty(t, resp.EmailList, "directory input has no addresses")
}

func TestCopyService_NormalizeSource(t *testing.T) {
	service := newTestCopyService(nil)

	got, err := service.NormalizeSource("Python", "def foo():\n    return 1  # ok",
		domain.NormalizeOptions{MaskIdentifiers: true, Placeholder: "xxx"})
	require.NoError(t, err)
	assert.Equal(t, "defxxx():return1", got)

	got, err = service.NormalizeSource("python", "x = 1", domain.NormalizeOptions{ExactOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "x = 1", got)

	_, err = service.NormalizeSource("python", "x", domain.NormalizeOptions{MaskIdentifiers: true})
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError), "masking needs a placeholder")
}

func TestCopyService_Languages(t *testing.T) {
	service := newTestCopyService(nil)

	var names []string
	for _, l := range service.Languages() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"c", "java", "matlab", "python"}, names)

	info, err := service.Language("MATLAB")
	require.NoError(t, err)
	assert.Equal(t, ".m", info.Extension)
	assert.Contains(t, info.Keywords, "function")
}
