package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/nicojahn/readme-refresh/internal/activity"
	"github.com/nicojahn/readme-refresh/internal/config"
	"github.com/nicojahn/readme-refresh/internal/domain"
	"github.com/nicojahn/readme-refresh/internal/tags"
)

// dateFormat renders e.g. "Sunday, 23 August 2026, CEST".
const dateFormat = "Monday, 02 January 2006, MST"

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// RepositoryClient is the slice of the API surface the service consumes
// (Dependency Inversion Principle).
type RepositoryClient interface {
	ListRepositories(ctx context.Context, user string) ([]domain.Repository, error)
}

// ReadmeService orchestrates one refresh pass: fetch repository metadata,
// derive the activity digest, and rewrite the README's placeholder tags.
// Follows Single Responsibility Principle - only orchestrates; the tag
// grammar and the selection algorithm live in their own packages.
type ReadmeService struct {
	client   RepositoryClient
	engine   *tags.Engine
	cfg      *config.Config
	logger   Logger
	location *time.Location
	now      func() time.Time

	// mu serializes refresh passes. In daemon mode the scheduler, the
	// template watcher and the manual trigger each call Refresh from
	// their own goroutine.
	mu sync.Mutex
}

// NewReadmeService creates a new README service.
// Follows Dependency Injection - accepts dependencies via constructor.
func NewReadmeService(client RepositoryClient, cfg *config.Config, logger Logger) (*ReadmeService, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	return &ReadmeService{
		client:   client,
		engine:   tags.NewEngine(),
		cfg:      cfg,
		logger:   logger,
		location: location,
		now:      time.Now,
	}, nil
}

// SetClock overrides the time source. Used by tests for deterministic
// digests and dates.
func (s *ReadmeService) SetClock(now func() time.Time) {
	s.now = now
}

// Refresh performs one full update pass against the configured README.
// It reports whether the file changed on disk; a pass that produces
// byte-identical output skips the write entirely.
func (s *ReadmeService) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.buildStore(ctx)
	if err != nil {
		return false, err
	}

	lines, err := ReadDocument(s.cfg.ReadmePath)
	if err != nil {
		return false, err
	}

	updated := s.engine.Apply(lines, store)
	if equalLines(lines, updated) {
		s.logger.Printf("%s unchanged, skipping write", s.cfg.ReadmePath)
		return false, nil
	}

	if err := WriteDocument(s.cfg.ReadmePath, updated); err != nil {
		return false, err
	}

	s.logger.Printf("Updated %s", s.cfg.ReadmePath)
	return true, nil
}

// Render performs the same pass but writes the result to w instead of the
// file (dry-run mode).
func (s *ReadmeService) Render(ctx context.Context, w io.Writer) error {
	store, err := s.buildStore(ctx)
	if err != nil {
		return err
	}

	lines, err := ReadDocument(s.cfg.ReadmePath)
	if err != nil {
		return err
	}

	updated := s.engine.Apply(lines, store)
	if _, err := io.WriteString(w, strings.Join(updated, "")); err != nil {
		return fmt.Errorf("failed to write rendered document: %w", err)
	}

	return nil
}

// buildStore assembles the placeholder key/value mapping for one run:
// the configured static entries plus the generated projects digest, date
// and github values. The now snapshot is captured once so all day counts
// within the run agree.
func (s *ReadmeService) buildStore(ctx context.Context) (tags.Store, error) {
	now := s.now().In(s.location)

	repos, err := s.client.ListRepositories(ctx, s.cfg.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repositories: %w", err)
	}
	s.logger.Printf("Fetched %d repositories for %s", len(repos), s.cfg.Username)

	digest := activity.Digest(repos, activity.Options{
		Username:          s.cfg.Username,
		Now:               now,
		RecencyWindowDays: s.cfg.RecencyWindowDays,
		MaxListed:         s.cfg.MaxReposListed,
	})

	store := make(tags.Store, len(s.cfg.Information)+3)
	for key, value := range s.cfg.Information {
		store[key] = value
	}
	store["projects"] = digest
	store["date"] = now.Format(dateFormat)
	store["github"] = "github.com/" + s.cfg.Username

	return store, nil
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
