package pager

import (
	"time"

	"github.com/matheuskafuri/trendly/internal/newsapi"
)

// State is the controller's position in its load cycle.
type State int

const (
	Idle State = iota
	FetchingReset
	FetchingMore
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FetchingReset:
		return "fetching-reset"
	case FetchingMore:
		return "fetching-more"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

func (s State) fetching() bool {
	return s == FetchingReset || s == FetchingMore
}

// Filters select which listing the session browses.
type Filters struct {
	Query    string
	SortBy   string
	Language string
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Filters
	Articles     []newsapi.Article
	Page         int
	State        State
	TotalResults int

	// Err is the last fetch failure, kept for diagnostics only.
	Err error
}

func (s Snapshot) InFlight() bool  { return s.State.fetching() }
func (s Snapshot) Exhausted() bool { return s.State == Exhausted }

// Kind distinguishes reset loads from incremental ones.
type Kind string

const (
	KindReset Kind = "reset"
	KindMore  Kind = "more"
)

type Outcome string

const (
	OutcomeReplaced  Outcome = "replaced"
	OutcomeAppended  Outcome = "appended"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeFailed    Outcome = "failed"
	OutcomeStale     Outcome = "stale"
)

// Event describes one finished fetch.
type Event struct {
	Kind     Kind
	Outcome  Outcome
	Added    int
	Duration time.Duration
}

// Observer receives an Event after every fetch. It is called without the
// controller lock held.
type Observer interface {
	Observe(Event)
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
