package domain

// Phase is the progressive search state for one invocation.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseValidating   Phase = "validating"
	PhaseOneFetching  Phase = "phase_one_fetching"
	PhaseOneDisplayed Phase = "phase_one_displayed"
	PhaseTwoFetching  Phase = "phase_two_fetching"
	PhaseTwoDisplayed Phase = "phase_two_displayed"
	PhaseDone         Phase = "done"
	PhaseErrored      Phase = "errored"
)

// Terminal reports whether the invocation has finished.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseErrored
}

// SearchSession is the single active search state. Snapshots are copies.
type SearchSession struct {
	ID    string `json:"id"`
	Seq   uint64 `json:"seq"`
	Query string `json:"query"`
	Phase Phase  `json:"phase"`

	View         View         `json:"view"`
	PhaseOne     *SourcesView `json:"phase_one,omitempty"`
	Merged       *SourcesView `json:"merged,omitempty"`
	Notice       string       `json:"notice,omitempty"`
	Error        string       `json:"error,omitempty"`
	Loading      string       `json:"loading,omitempty"`
	Pending      string       `json:"pending,omitempty"`
	Notification string       `json:"notification,omitempty"`
}

// Current returns the sources view that is on screen.
func (s SearchSession) Current() *SourcesView {
	if s.Merged != nil {
		return s.Merged
	}
	return s.PhaseOne
}
