// Package gallery implements the pagination controller behind the creature browser.
//
// A Controller accumulates records from successive pages into a single deduplicated,
// arrival-ordered list. Each fetch cycle moves through
//
//	Idle -> Fetching -> {Merged&MorePossible | Merged&Exhausted | FailedExhausted} -> Idle
//
// and exhaustion is sticky until Reset. Every request carries the controller generation;
// Reset bumps the generation so that a fetch started before the reset is discarded when
// it settles instead of appending to the fresh list.
//
// The split between Begin, Fetch and Complete lets an event loop (Bubble Tea) run the
// network call asynchronously while keeping every state mutation on its own goroutine.
// FetchNextPage chains the three for synchronous callers.
package gallery
