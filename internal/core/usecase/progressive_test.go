package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

type progressiveBackendFake struct {
	fast     func(ctx context.Context, query string) (*domain.FastSearchResponse, error)
	complete func(ctx context.Context, query string) (*domain.CompleteSearchResponse, error)

	mu        sync.Mutex
	fastCalls int
}

func (f *progressiveBackendFake) SearchFast(ctx context.Context, query string) (*domain.FastSearchResponse, error) {
	f.mu.Lock()
	f.fastCalls++
	f.mu.Unlock()
	return f.fast(ctx, query)
}

func (f *progressiveBackendFake) SearchComplete(ctx context.Context, query string) (*domain.CompleteSearchResponse, error) {
	return f.complete(ctx, query)
}

type presenterFake struct {
	mu       sync.Mutex
	sessions []domain.SearchSession
}

func (f *presenterFake) Present(session domain.SearchSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, session)
}

func (f *presenterFake) phases() []domain.Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	phases := make([]domain.Phase, 0, len(f.sessions))
	for _, session := range f.sessions {
		phases = append(phases, session.Phase)
	}
	return phases
}

func fastWithBlog(query string) *domain.FastSearchResponse {
	return &domain.FastSearchResponse{
		Answer:        "<p>Phase 1 answer</p>",
		Sources:       []domain.RemoteSource{{Title: "Phase 1", Link: "phase-1.html", Type: domain.SourceWebsite}},
		Query:         query,
		SearchingBlog: true,
		Message:       "Searching blog articles for additional information...",
		State:         domain.ViewResults,
	}
}

func newTestProgressive(backend *progressiveBackendFake, presenter ports.Presenter, ttl time.Duration) *ProgressiveSearch {
	ids := 0
	return NewProgressiveSearch(backend, NewRenderer(nil), presenter, ProgressiveOptions{
		NotificationTTL: ttl,
		NewSessionID: func() string {
			ids++
			return "session-" + strconv.Itoa(ids)
		},
	})
}

func TestProgressiveMergesPhaseTwo(t *testing.T) {
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			return fastWithBlog(query), nil
		},
		complete: func(_ context.Context, query string) (*domain.CompleteSearchResponse, error) {
			return &domain.CompleteSearchResponse{
				Answer: "<p>Merged answer</p>",
				Sources: []domain.RemoteSource{
					{Title: "Phase 1", Link: "phase-1.html", Type: domain.SourceWebsite},
					{Title: "Blog post", Link: "https://blog/post", Type: domain.SourceBlog},
				},
				Query:    query,
				Complete: true,
			}, nil
		},
	}
	presenter := &presenterFake{}
	search := newTestProgressive(backend, presenter, time.Hour)

	first := search.Submit(context.Background(), "phase 1 guarantee")
	if first.Phase != domain.PhaseTwoFetching || first.Pending == "" {
		t.Fatalf("expected phase two pending after submit, got %+v", first)
	}
	search.Wait()

	session := search.Snapshot()
	if session.Phase != domain.PhaseDone {
		t.Fatalf("expected done, got %s", session.Phase)
	}
	if session.Merged == nil || session.Merged.AnswerHTML != "<p>Merged answer</p>" {
		t.Fatalf("expected merged view, got %+v", session.Merged)
	}
	if len(session.Merged.Groups) != 2 || !session.Merged.Groups[1].Sources[0].New {
		t.Fatalf("expected blog source flagged new, got %+v", session.Merged.Groups)
	}
	if session.Notification != enhancedNotice || session.Pending != "" {
		t.Fatalf("unexpected indicators %+v", session)
	}

	want := []domain.Phase{
		domain.PhaseValidating,
		domain.PhaseOneFetching,
		domain.PhaseOneDisplayed,
		domain.PhaseTwoFetching,
		domain.PhaseTwoDisplayed,
		domain.PhaseDone,
	}
	got := presenter.phases()
	if len(got) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected phases %v, got %v", want, got)
		}
	}
}

func TestProgressivePhaseTwoFailureKeepsPhaseOne(t *testing.T) {
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			return fastWithBlog(query), nil
		},
		complete: func(context.Context, string) (*domain.CompleteSearchResponse, error) {
			return nil, errors.New("blog unreachable")
		},
	}
	presenter := &presenterFake{}
	search := newTestProgressive(backend, presenter, time.Hour)

	search.Submit(context.Background(), "phase 1 guarantee")
	search.Wait()

	session := search.Snapshot()
	if session.Phase != domain.PhaseDone {
		t.Fatalf("expected done, got %s", session.Phase)
	}
	if session.Error != "" || session.Pending != "" || session.Notification != "" {
		t.Fatalf("phase two failure must be silent, got %+v", session)
	}
	if session.Merged != nil || session.PhaseOne == nil || session.PhaseOne.AnswerHTML != "<p>Phase 1 answer</p>" {
		t.Fatalf("expected phase one output to stay on screen, got %+v", session)
	}

	phases := presenter.phases()
	if phases[len(phases)-2] != domain.PhaseOneDisplayed {
		t.Fatalf("expected return to phase one before done, got %v", phases)
	}
}

func TestProgressiveDiscardsStalePhaseTwo(t *testing.T) {
	release := make(chan struct{})
	cancelled := make(chan error, 1)
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			if query == "first query" {
				return fastWithBlog(query), nil
			}
			return &domain.FastSearchResponse{
				Answer:  "<p>Second answer</p>",
				Sources: []domain.RemoteSource{{Title: "Second", Link: "second.html", Type: domain.SourceWebsite}},
				Query:   query,
				State:   domain.ViewResults,
			}, nil
		},
		complete: func(ctx context.Context, query string) (*domain.CompleteSearchResponse, error) {
			<-release
			cancelled <- ctx.Err()
			return &domain.CompleteSearchResponse{
				Answer:   "<p>Late answer</p>",
				Sources:  []domain.RemoteSource{{Title: "Late", Link: "https://blog/late", Type: domain.SourceBlog}},
				Query:    query,
				Complete: true,
			}, nil
		},
	}
	presenter := &presenterFake{}
	search := newTestProgressive(backend, presenter, time.Hour)

	search.Submit(context.Background(), "first query")
	second := search.Submit(context.Background(), "second query")
	if second.Phase != domain.PhaseDone || second.PhaseOne.AnswerHTML != "<p>Second answer</p>" {
		t.Fatalf("unexpected second session %+v", second)
	}

	close(release)
	search.Wait()

	if err := <-cancelled; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected superseded phase two to be cancelled, got %v", err)
	}
	session := search.Snapshot()
	if session.Query != "second query" || session.Merged != nil || session.Notification != "" {
		t.Fatalf("stale phase two leaked into the active session: %+v", session)
	}
	if session.PhaseOne.AnswerHTML != "<p>Second answer</p>" {
		t.Fatalf("expected second answer on screen, got %q", session.PhaseOne.AnswerHTML)
	}
}

func TestProgressiveNewSearchClearsPreviousState(t *testing.T) {
	fail := true
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			if fail {
				return nil, errors.New("backend down")
			}
			return &domain.FastSearchResponse{Answer: "<p>ok</p>", Query: query, State: domain.ViewNoResults}, nil
		},
	}
	search := newTestProgressive(backend, &presenterFake{}, time.Hour)

	errored := search.Submit(context.Background(), "phase 1")
	if errored.Phase != domain.PhaseErrored || errored.Error != genericFailure {
		t.Fatalf("expected errored session, got %+v", errored)
	}
	if errored.View.State != domain.ViewError {
		t.Fatalf("expected error view, got %s", errored.View.State)
	}

	fail = false
	next := search.Submit(context.Background(), "phase 2")
	if next.Error != "" || next.Phase != domain.PhaseDone {
		t.Fatalf("expected previous error cleared, got %+v", next)
	}
	if next.View.State != domain.ViewNoResults || next.Seq != errored.Seq+1 {
		t.Fatalf("unexpected session %+v", next)
	}
}

func TestProgressiveBackendErrorPayload(t *testing.T) {
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			return &domain.FastSearchResponse{Query: query, Error: "Query is required"}, nil
		},
	}
	search := newTestProgressive(backend, nil, time.Hour)

	session := search.Submit(context.Background(), "phase 1")
	if session.Phase != domain.PhaseErrored || session.Error != "Query is required" {
		t.Fatalf("expected backend message to be shown, got %+v", session)
	}
}

func TestProgressiveEmptyQuery(t *testing.T) {
	backend := &progressiveBackendFake{}
	search := newTestProgressive(backend, &presenterFake{}, time.Hour)

	session := search.Submit(context.Background(), "   ")
	if session.Phase != domain.PhaseIdle || session.Notice != emptyQueryNotice {
		t.Fatalf("expected notice for empty query, got %+v", session)
	}
	if backend.fastCalls != 0 {
		t.Fatalf("empty query must not reach the backend")
	}
}

func TestProgressiveIrrelevantQuery(t *testing.T) {
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			return &domain.FastSearchResponse{Query: query, State: domain.ViewIrrelevantQuery, Sources: []domain.RemoteSource{}}, nil
		},
	}
	search := newTestProgressive(backend, nil, time.Hour)

	session := search.Submit(context.Background(), "best pizza recipe")
	if session.Phase != domain.PhaseDone || session.View.State != domain.ViewIrrelevantQuery {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.PhaseOne != nil {
		t.Fatalf("irrelevant query must not render sources")
	}
}

func TestProgressiveNotificationClears(t *testing.T) {
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			return fastWithBlog(query), nil
		},
		complete: func(_ context.Context, query string) (*domain.CompleteSearchResponse, error) {
			return &domain.CompleteSearchResponse{
				Answer:   "<p>Merged</p>",
				Sources:  []domain.RemoteSource{{Title: "Blog post", Link: "https://blog/post", Type: domain.SourceBlog}},
				Query:    query,
				Complete: true,
			}, nil
		},
	}
	search := newTestProgressive(backend, nil, 10*time.Millisecond)

	search.Submit(context.Background(), "phase 1")
	search.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if search.Snapshot().Notification == "" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("notification was not cleared")
}

func TestProgressiveWithoutPresenter(t *testing.T) {
	backend := &progressiveBackendFake{
		fast: func(_ context.Context, query string) (*domain.FastSearchResponse, error) {
			return &domain.FastSearchResponse{Query: query, Sources: []domain.RemoteSource{}, State: domain.ViewNoResults}, nil
		},
	}
	search := NewProgressiveSearch(backend, NewRenderer(nil), nil, ProgressiveOptions{})

	session := search.Submit(context.Background(), "zzzz")
	if session.Phase != domain.PhaseDone || session.View.State != domain.ViewNoResults {
		t.Fatalf("unexpected session %+v", session)
	}
}
