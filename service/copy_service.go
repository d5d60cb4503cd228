package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/cluster"
	"github.com/ludo-technologies/copyscn/internal/lang"
	"github.com/ludo-technologies/copyscn/internal/normalizer"
	"github.com/ludo-technologies/copyscn/internal/submission"
)

// CopyService implements the domain.CopyService interface
type CopyService struct {
	registry *lang.Registry
	progress domain.ProgressManager
	logger   zerolog.Logger
	newRunID func() string
}

// NewCopyService creates a new copy service.
// progress can be nil - the service can work without progress reporting
func NewCopyService(registry *lang.Registry, progress domain.ProgressManager, logger zerolog.Logger) *CopyService {
	if registry == nil {
		registry = lang.DefaultRegistry()
	}
	return &CopyService{
		registry: registry,
		progress: progress,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// DetectCopies normalizes every submission, clusters identical canonical
// forms and builds the report model.
func (s *CopyService) DetectCopies(ctx context.Context, req *domain.CopyRequest, subs []domain.RawSubmission) (*domain.CopyResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("copy request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid copy request: %w", err)
	}

	startTime := time.Now()

	profile, err := s.registry.Lookup(req.Language)
	if err != nil {
		return nil, err
	}
	norm, err := normalizer.New(profile, normalizer.Options{
		ExactOnly:       req.ExactOnly,
		MaskIdentifiers: req.MaskIdentifiers,
		Placeholder:     req.Placeholder,
	})
	if err != nil {
		return nil, err
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	s.logger.Debug().
		Str("language", profile.Name()).
		Int("submissions", len(subs)).
		Int("workers", req.Workers).
		Bool("exact_only", req.ExactOnly).
		Bool("mask_identifiers", req.MaskIdentifiers).
		Msg("normalizing submissions")

	canonical, err := s.normalizeAll(ctx, norm, subs, req.Workers)
	if err != nil {
		return nil, domain.NewAnalysisError("normalization aborted", err)
	}

	store := submission.NewStore()
	duplicates := 0
	for i, sub := range subs {
		replaced := store.Put(submission.Submission{
			ID:        sub.ID,
			Name:      sub.Name,
			Email:     sub.Email,
			Raw:       sub.Source,
			Canonical: canonical[i],
		})
		if replaced {
			duplicates++
			s.logger.Warn().Str("id", sub.ID).Msg("duplicate student id, keeping the later submission")
		}
	}

	engine := cluster.NewEngine(cluster.Config{
		NoAnswer:            req.NoAnswer,
		ReuseClaimedLeaders: req.ReuseClaimedLeaders,
	})
	result := engine.Cluster(store)

	resp := s.buildResponse(req, profile, store, result)
	resp.Statistics.DuplicateIDs = duplicates
	resp.Duration = time.Since(startTime).Milliseconds()

	s.logger.Info().
		Str("run_id", resp.RunID).
		Int("submissions", resp.Statistics.SubmissionsAnalyzed).
		Int("clusters", resp.Statistics.Clusters).
		Int("students_involved", resp.Statistics.StudentsInvolved).
		Str("strategy", engine.GetName()).
		Msg("copy detection finished")

	return resp, nil
}

// normalizeAll returns canonical forms aligned with subs. With more than one
// worker the work is split into contiguous chunks; each chunk writes only its
// own indices.
func (s *CopyService) normalizeAll(ctx context.Context, norm *normalizer.Normalizer, subs []domain.RawSubmission, workers int) ([]string, error) {
	canonical := make([]string, len(subs))
	total := len(subs)
	if total == 0 {
		return canonical, nil
	}

	if s.progress != nil {
		s.progress.Initialize(total)
		s.progress.Start()
	}
	var processed atomic.Int64
	tick := func() {
		n := processed.Add(1)
		if s.progress != nil {
			s.progress.Update(int(n), total)
		}
	}

	var err error
	if workers <= 1 || total < 2 {
		for i := range subs {
			if err = ctx.Err(); err != nil {
				break
			}
			canonical[i] = norm.Normalize(subs[i].Source)
			tick()
		}
	} else {
		err = s.normalizeParallel(ctx, norm, subs, canonical, workers, tick)
	}

	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}
	return canonical, nil
}

func (s *CopyService) normalizeParallel(ctx context.Context, norm *normalizer.Normalizer, subs []domain.RawSubmission, out []string, workers int, tick func()) error {
	if workers > len(subs) {
		workers = len(subs)
	}
	chunk := (len(subs) + workers - 1) / workers

	tasks := make([]domain.ExecutableTask, 0, workers)
	for start := 0; start < len(subs); start += chunk {
		lo, hi := start, start+chunk
		if hi > len(subs) {
			hi = len(subs)
		}
		tasks = append(tasks, NewSimpleTask(fmt.Sprintf("normalize[%d:%d]", lo, hi), true,
			func(ctx context.Context) (interface{}, error) {
				for i := lo; i < hi; i++ {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					out[i] = norm.Normalize(subs[i].Source)
					tick()
				}
				return nil, nil
			}))
	}

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(workers)
	// the caller's context already carries the request timeout
	executor.SetTimeout(0)
	return executor.Execute(ctx, tasks)
}

func (s *CopyService) buildResponse(req *domain.CopyRequest, profile *lang.Profile, store *submission.Store, result cluster.Result) *domain.CopyResponse {
	student := func(id string) domain.Student {
		sub, _ := store.Get(id)
		return domain.Student{
			ID:    id,
			Name:  sub.Name,
			Email: contactEmail(sub, req.EmailDomain),
		}
	}

	stats := domain.CopyStatistics{
		SubmissionsAnalyzed: store.Len(),
		Clusters:            len(result.Clusters),
		StudentsInvolved:    len(result.Known),
	}
	for _, id := range store.IDs() {
		if c, _ := store.Canonical(id); c == req.NoAnswer {
			stats.NoAnswer++
		}
	}

	clusters := make([]domain.CopyCluster, 0, len(result.Clusters))
	for i, c := range result.Clusters {
		cc := domain.CopyCluster{
			ID:     i + 1,
			Leader: student(c.Leader),
			Size:   c.Size(),
		}
		for _, m := range c.Members {
			cc.Members = append(cc.Members, student(m))
		}
		if req.ShowCanonical {
			cc.Canonical = c.Canonical
		}
		if cc.Size > stats.LargestCluster {
			stats.LargestCluster = cc.Size
		}
		clusters = append(clusters, cc)
	}

	involved := make([]domain.Student, 0, len(result.Known))
	emails := make([]string, 0, len(result.Known))
	for _, id := range result.Known {
		st := student(id)
		involved = append(involved, st)
		if st.Email != "" {
			emails = append(emails, st.Email)
		}
	}

	return &domain.CopyResponse{
		RunID:       s.newRunID(),
		Source:      req.Source(),
		Question:    req.Question,
		Language:    profile.Name(),
		Clusters:    clusters,
		Involved:    involved,
		EmailList:   emails,
		Statistics:  stats,
		Request:     req,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Success:     true,
	}
}

// contactEmail is <id>@<domain> when a domain is configured, otherwise the
// address read from the roster
func contactEmail(sub submission.Submission, emailDomain string) string {
	emailDomain = strings.TrimPrefix(strings.TrimSpace(emailDomain), "@")
	if emailDomain != "" {
		return sub.ID + "@" + emailDomain
	}
	return sub.Email
}

// NormalizeSource returns the canonical form of one snippet
func (s *CopyService) NormalizeSource(language, source string, opts domain.NormalizeOptions) (string, error) {
	profile, err := s.registry.Lookup(language)
	if err != nil {
		return "", err
	}
	norm, err := normalizer.New(profile, normalizer.Options{
		ExactOnly:       opts.ExactOnly,
		MaskIdentifiers: opts.MaskIdentifiers,
		Placeholder:     opts.Placeholder,
	})
	if err != nil {
		return "", err
	}
	return norm.Normalize(source), nil
}

// Language describes a registered language
func (s *CopyService) Language(name string) (domain.LanguageInfo, error) {
	p, err := s.registry.Lookup(name)
	if err != nil {
		return domain.LanguageInfo{}, err
	}
	return languageInfo(p), nil
}

// Languages lists every registered language
func (s *CopyService) Languages() []domain.LanguageInfo {
	profiles := s.registry.Profiles()
	out := make([]domain.LanguageInfo, len(profiles))
	for i, p := range profiles {
		out[i] = languageInfo(p)
	}
	return out
}

func languageInfo(p *lang.Profile) domain.LanguageInfo {
	return domain.LanguageInfo{
		Name:      p.Name(),
		Extension: p.Extension(),
		Keywords:  p.Keywords(),
	}
}
