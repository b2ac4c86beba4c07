// Package feed owns the retained activity set and drives cursor-based
// pagination against the transport collaborator.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"droplink/internal/group"
	"droplink/internal/metrics"
	"droplink/internal/model"
	"droplink/internal/normalize"
)

// FetchResult is one page of raw messages, ordered newest to oldest by ID.
type FetchResult struct {
	Messages []model.RawMessage
	HasMore  bool
}

// Fetcher is the transport collaborator. A nil since requests the newest
// page; a non-nil since requests messages with IDs strictly below it.
type Fetcher interface {
	Fetch(ctx context.Context, limit int, since *int64) (*FetchResult, error)
}

// CredentialSource reports whether a usable credential exists. Checked
// before every fetch.
type CredentialSource interface {
	HasValidCredential(ctx context.Context) (bool, error)
}

// Presenter receives feed state after every completed operation. Errors are
// delivered separately from data so stale-but-valid data can stay on screen
// next to an error.
type Presenter interface {
	Present(groups []model.ActivityGroup, category model.Category, hasMore, loading bool)
	Notify(err error)
}

type loadKind int

const (
	loadInitial loadKind = iota
	loadRefresh
	loadMore
)

// Session holds one user's retained activity set, pagination cursor and
// selected category. All mutation goes through LoadInitial, Refresh and
// LoadMore; a single in-flight flag keeps those from overlapping, and a
// second trigger while one is outstanding is a no-op.
type Session struct {
	fetcher   Fetcher
	creds     CredentialSource
	presenter Presenter
	log       *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	activities []model.Activity
	cursor     *int64
	hasMore    bool
	inFlight   bool
	category   model.Category

	rejected int
}

// NewSession creates a session over the given collaborators. presenter may
// be nil when the caller reads state through Snapshot and Groups instead.
func NewSession(fetcher Fetcher, creds CredentialSource, presenter Presenter, log *slog.Logger) *Session {
	return &Session{
		fetcher:   fetcher,
		creds:     creds,
		presenter: presenter,
		log:       log,
		now:       time.Now,
		category:  model.CategoryAll,
	}
}

// SetClock overrides the time source (useful for testing).
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// LoadInitial fetches the newest page and replaces the retained set.
func (s *Session) LoadInitial(ctx context.Context, limit int) error {
	return s.load(ctx, limit, loadInitial)
}

// Refresh re-fetches the newest page. The previous set stays visible until
// the fetch resolves; on failure it is kept and the error is surfaced
// alongside it.
func (s *Session) Refresh(ctx context.Context, limit int) error {
	return s.load(ctx, limit, loadRefresh)
}

// LoadMore fetches the page below the current cursor and appends it. A call
// without a cursor, or when the server has no more pages, is a no-op.
func (s *Session) LoadMore(ctx context.Context, limit int) error {
	return s.load(ctx, limit, loadMore)
}

func (s *Session) load(ctx context.Context, limit int, kind loadKind) error {
	since, ok := s.begin(kind)
	if !ok {
		return nil
	}
	defer s.end()

	if err := s.checkCredential(ctx); err != nil {
		s.notify(err)
		return err
	}

	metrics.Fetches.Inc()
	res, err := s.fetcher.Fetch(ctx, limit, since)
	if err != nil {
		metrics.FetchErrors.Inc()
		err = fmt.Errorf("fetch page: %w", err)
		s.log.Error("fetch failed", "error", err)
		s.notify(err)
		return err
	}

	// Normalize the whole batch before touching retained state, so readers
	// never observe a partial batch.
	now := s.now()
	batch := make([]model.Activity, 0, len(res.Messages))
	rejected := 0
	for _, m := range res.Messages {
		a, ok := normalize.Normalize(m, now)
		if !ok {
			rejected++
			s.log.Debug("record rejected", "raw_id", m.ID)
			continue
		}
		batch = append(batch, a)
	}

	s.apply(kind, res, batch, rejected)
	s.log.Info("page merged",
		"kind", kindName(kind), "raw", len(res.Messages), "kept", len(batch), "has_more", res.HasMore)
	s.present()
	return nil
}

// begin claims the in-flight slot and returns the cursor to fetch with.
// ok is false when another load is outstanding or a LoadMore has nothing
// left to do.
func (s *Session) begin(kind loadKind) (since *int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		s.log.Debug("load ignored, already in flight")
		return nil, false
	}
	if kind == loadMore {
		if !s.hasMore || s.cursor == nil {
			s.log.Debug("load more ignored, no further pages")
			return nil, false
		}
		c := *s.cursor
		since = &c
	}
	s.inFlight = true
	return since, true
}

func (s *Session) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *Session) checkCredential(ctx context.Context) error {
	ok, err := s.creds.HasValidCredential(ctx)
	if err != nil {
		return fmt.Errorf("check credential: %w", err)
	}
	if !ok {
		return ErrNoCredential
	}
	return nil
}

// apply commits one fetched batch. The cursor always advances from the raw
// batch, so records dropped by normalization are never re-fetched forever.
func (s *Session) apply(kind loadKind, res *FetchResult, batch []model.Activity, rejected int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Committing the batch completes the operation; a follow-up trigger may
	// start as soon as the new state is visible.
	s.inFlight = false
	s.rejected += rejected
	switch kind {
	case loadInitial, loadRefresh:
		s.activities = batch
		s.cursor = nil
	case loadMore:
		s.activities = append(s.activities, batch...)
	}
	if min, ok := minRawID(res.Messages); ok {
		s.cursor = &min
	}
	s.hasMore = res.HasMore
}

func minRawID(messages []model.RawMessage) (int64, bool) {
	if len(messages) == 0 {
		return 0, false
	}
	min := messages[0].ID
	for _, m := range messages[1:] {
		if m.ID < min {
			min = m.ID
		}
	}
	return min, true
}

// SetCategory selects the category projection and re-presents.
func (s *Session) SetCategory(category model.Category) {
	s.mu.Lock()
	s.category = category
	s.mu.Unlock()
	s.present()
}

// Category returns the currently selected category.
func (s *Session) Category() model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Snapshot returns a copy of the retained activity set, newest first.
func (s *Session) Snapshot() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Activity, len(s.activities))
	copy(cp, s.activities)
	return cp
}

// Groups returns the current category projection, bucketed by date.
func (s *Session) Groups() []model.ActivityGroup {
	s.mu.Lock()
	activities := s.activities
	category := s.category
	now := s.now()
	s.mu.Unlock()
	return group.Group(group.ByCategory(activities, category), now)
}

// HasMore reports whether the server indicated further pages.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Cursor returns the current pagination cursor, if one is set.
func (s *Session) Cursor() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil {
		return 0, false
	}
	return *s.cursor, true
}

// Loading reports whether a load is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Rejected returns how many records this session dropped during
// normalization.
func (s *Session) Rejected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

func (s *Session) present() {
	if s.presenter == nil {
		return
	}
	s.mu.Lock()
	activities := s.activities
	category := s.category
	hasMore := s.hasMore
	loading := s.inFlight
	now := s.now()
	s.mu.Unlock()
	groups := group.Group(group.ByCategory(activities, category), now)
	s.presenter.Present(groups, category, hasMore, loading)
}

func (s *Session) notify(err error) {
	if s.presenter == nil {
		return
	}
	s.presenter.Notify(err)
}

func kindName(kind loadKind) string {
	switch kind {
	case loadRefresh:
		return "refresh"
	case loadMore:
		return "more"
	default:
		return "initial"
	}
}
