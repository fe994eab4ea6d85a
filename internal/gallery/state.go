package gallery

import (
	"github.com/rshade/pokedeck/internal/catalog"
)

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 20

// PageRequest identifies one fetch issued by a Controller.
type PageRequest struct {
	Page       int
	Size       int
	Generation uint64
}

// PageResult is a settled fetch, successful or not.
type PageResult struct {
	Request PageRequest
	Records []catalog.Record
	Err     error
}

// State is a point-in-time snapshot of a Controller.
type State struct {
	// Records in arrival order; no two share an ID.
	Records []catalog.Record

	// CurrentPage is the next page index to request.
	CurrentPage int

	// Exhausted is true once no further pages will be requested until Reset.
	Exhausted bool

	// FetchInFlight is true while a request for the current generation is outstanding.
	FetchInFlight bool

	// InitialLoad is true until the first fetch of the current generation settles.
	InitialLoad bool

	// Generation increments on every Reset.
	Generation uint64
}

// HasMore reports whether further pages may still be requested.
func (s State) HasMore() bool {
	return !s.Exhausted
}

// Outcome classifies what a fetch cycle did to the controller.
type Outcome int

const (
	// OutcomeSkipped means no request was issued (in flight or exhausted).
	OutcomeSkipped Outcome = iota
	// OutcomeStale means the result belonged to a generation discarded by Reset.
	OutcomeStale
	// OutcomeMerged means records were merged and more pages may follow.
	OutcomeMerged
	// OutcomeExhausted means the backend signalled end-of-data (short, empty or malformed page).
	OutcomeExhausted
	// OutcomeFailed means the request failed; the controller is exhausted.
	OutcomeFailed
)

// String returns a lowercase outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeStale:
		return "stale"
	case OutcomeMerged:
		return "merged"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NoticeKind distinguishes user-facing failure notices.
type NoticeKind int

const (
	// NoticeConnectionFailed is raised when the backend is unreachable.
	NoticeConnectionFailed NoticeKind = iota + 1
	// NoticeRequestFailed is raised for any other failed request.
	NoticeRequestFailed
)

// Notice is a failure the user should be told about.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Report describes the effect of one Complete (or FetchNextPage) call.
type Report struct {
	Outcome    Outcome
	Page       int
	Received   int
	Added      int
	Duplicates int
	Notice     *Notice
}
