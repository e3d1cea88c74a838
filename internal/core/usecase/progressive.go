package usecase

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

const (
	loadingMessage      = "Searching website..."
	pendingFallback     = "Searching blog articles..."
	enhancedNotice      = "Enhanced with blog insights"
	defaultNoticeLength = 3 * time.Second
)

type ProgressiveOptions struct {
	NotificationTTL time.Duration
	NewSessionID    func() string
}

// ProgressiveSearch runs the fast phase, paints it, then merges the slower
// phase in the background. Only the most recent submission may change the
// session; responses issued for an older one are dropped on arrival.
//
// The presenter is called with the session lock held and must not call back
// into the orchestrator.
type ProgressiveSearch struct {
	backend   ports.ProgressiveBackend
	renderer  *Renderer
	presenter ports.Presenter
	opts      ProgressiveOptions

	mu          sync.Mutex
	session     domain.SearchSession
	seq         uint64
	cancelPhase context.CancelFunc
	noticeTimer *time.Timer
	inFlight    sync.WaitGroup
}

func NewProgressiveSearch(
	backend ports.ProgressiveBackend,
	renderer *Renderer,
	presenter ports.Presenter,
	opts ProgressiveOptions,
) *ProgressiveSearch {
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = defaultNoticeLength
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = uuid.NewString
	}
	if presenter == nil {
		presenter = discardPresenter{}
	}
	return &ProgressiveSearch{
		backend:   backend,
		renderer:  renderer,
		presenter: presenter,
		opts:      opts,
		session:   domain.SearchSession{Phase: domain.PhaseIdle},
	}
}

// Submit starts a new invocation and returns once phase one is on screen.
// Phase two, when the backend announces it, keeps running after Submit
// returns until ctx is done or a newer submission supersedes it.
func (p *ProgressiveSearch) Submit(ctx context.Context, query string) domain.SearchSession {
	query = strings.TrimSpace(query)

	p.mu.Lock()
	ticket := p.reset(query)
	if query == "" {
		p.session.Phase = domain.PhaseIdle
		p.session.Notice = emptyQueryNotice
		p.session.View = p.renderer.RenderEmpty()
		p.presentLocked()
		snapshot := p.session
		p.mu.Unlock()
		return snapshot
	}
	p.session.Phase = domain.PhaseOneFetching
	p.session.Loading = loadingMessage
	p.presentLocked()
	p.mu.Unlock()

	fast, err := p.backend.SearchFast(ctx, query)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq != ticket {
		slog.Debug("phase_one_discarded", "query", query)
		return p.session
	}
	p.session.Loading = ""

	if err != nil || fast == nil || fast.Error != "" {
		message := genericFailure
		if err == nil && fast != nil {
			message = fast.Error
		}
		if err != nil {
			slog.Error("phase_one_failed", "query", query, "error", err)
		}
		p.session.Phase = domain.PhaseErrored
		p.session.Error = message
		p.session.View = p.renderer.RenderError(query, message)
		p.presentLocked()
		return p.session
	}

	if fast.State == domain.ViewIrrelevantQuery {
		p.session.View = p.renderer.RenderIrrelevant(query)
		p.session.Phase = domain.PhaseDone
		p.presentLocked()
		return p.session
	}

	phaseOne := p.renderer.RenderSources(fast.Answer, fast.Sources, false)
	p.session.PhaseOne = &phaseOne
	p.session.View = domain.View{State: phaseOneState(fast, phaseOne), Query: html.EscapeString(query)}
	p.session.Phase = domain.PhaseOneDisplayed
	p.presentLocked()

	if !fast.SearchingBlog {
		p.session.Phase = domain.PhaseDone
		p.presentLocked()
		return p.session
	}

	pending := strings.TrimSpace(fast.Message)
	if pending == "" {
		pending = pendingFallback
	}
	p.session.Phase = domain.PhaseTwoFetching
	p.session.Pending = pending
	p.presentLocked()

	phaseCtx, cancel := context.WithCancel(ctx)
	p.cancelPhase = cancel
	p.inFlight.Add(1)
	go p.runPhaseTwo(phaseCtx, cancel, ticket, query)

	return p.session
}

func (p *ProgressiveSearch) runPhaseTwo(ctx context.Context, cancel context.CancelFunc, ticket uint64, query string) {
	defer p.inFlight.Done()
	defer cancel()

	complete, err := p.backend.SearchComplete(ctx, query)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq != ticket {
		slog.Info("phase_two_discarded", "query", query)
		return
	}
	p.cancelPhase = nil
	p.session.Pending = ""

	if err != nil || complete == nil || complete.Error != "" {
		attrs := []any{"query", query}
		if err != nil {
			attrs = append(attrs, "error", err)
		} else if complete != nil {
			attrs = append(attrs, "error", complete.Error)
		}
		slog.Warn("phase_two_failed", attrs...)
		p.session.Phase = domain.PhaseOneDisplayed
		p.presentLocked()
		p.session.Phase = domain.PhaseDone
		p.presentLocked()
		return
	}

	merged := p.renderer.MergeSources(p.session.PhaseOne, complete.Answer, complete.Sources)
	p.session.Merged = &merged
	if !merged.Empty {
		p.session.View.State = domain.ViewResults
	}
	p.session.Notification = enhancedNotice
	p.session.Phase = domain.PhaseTwoDisplayed
	p.presentLocked()

	p.noticeTimer = time.AfterFunc(p.opts.NotificationTTL, func() {
		p.clearNotification(ticket)
	})
	p.session.Phase = domain.PhaseDone
	p.presentLocked()
}

// reset starts a new invocation: any stale error, notice, notification or
// pending indicator is cleared and in-flight phase two work is cancelled.
func (p *ProgressiveSearch) reset(query string) uint64 {
	p.seq++
	if p.cancelPhase != nil {
		p.cancelPhase()
		p.cancelPhase = nil
	}
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
		p.noticeTimer = nil
	}
	p.session = domain.SearchSession{
		ID:    p.opts.NewSessionID(),
		Seq:   p.seq,
		Query: query,
		Phase: domain.PhaseValidating,
	}
	p.presentLocked()
	return p.seq
}

func (p *ProgressiveSearch) clearNotification(ticket uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq != ticket || p.session.Notification == "" {
		return
	}
	p.session.Notification = ""
	p.presentLocked()
}

func (p *ProgressiveSearch) presentLocked() {
	p.presenter.Present(p.session)
}

// discardPresenter serves callers that only read Snapshot.
type discardPresenter struct{}

func (discardPresenter) Present(domain.SearchSession) {}

// Snapshot returns a copy of the active session.
func (p *ProgressiveSearch) Snapshot() domain.SearchSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Wait blocks until every background phase has settled.
func (p *ProgressiveSearch) Wait() {
	p.inFlight.Wait()
}

func phaseOneState(fast *domain.FastSearchResponse, view domain.SourcesView) domain.ViewState {
	if fast.State != "" {
		return fast.State
	}
	if view.Empty {
		return domain.ViewNoResults
	}
	return domain.ViewResults
}
