package extract

import (
	"fmt"
	"net/http"

	"github.com/pevans/fightrecords/records"
)

// Stage identifies which extraction step handles a fetched page.
type Stage int

const (
	StageListing Stage = iota
	StagePagination
	StageEvent
	StageBout
	StageFighter
)

func (s Stage) String() string {
	switch s {
	case StageListing:
		return "listing"
	case StagePagination:
		return "pagination"
	case StageEvent:
		return "event"
	case StageBout:
		return "bout"
	case StageFighter:
		return "fighter"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Mode selects how much of the listing is followed.
type Mode string

const (
	// ModeMostRecent follows only the first event on the first listing
	// page.
	ModeMostRecent Mode = "most_recent"
	// ModeAll follows every event and every listing page.
	ModeAll Mode = "all"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMostRecent, ModeAll:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidMode, s)
}

// EventContext is the event data threaded from an event page into each of
// its bout requests.
type EventContext struct {
	records.Event
	BoutOrdinal int
}

// Request is a follow-up fetch. Event is set only for StageBout.
type Request struct {
	URL    string
	Stage  Stage
	Header http.Header
	Event  *EventContext
}

// Result is what one extraction call produces.
type Result struct {
	Records  []records.Record
	Requests []Request
}

// paginationHeader marks the next-page request as an asynchronous
// partial-page request, which makes the site answer with an html(...);
// script instead of a full page.
func paginationHeader() http.Header {
	h := http.Header{}
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("Accept", "*/*;q=0.5, text/javascript, application/javascript, application/ecmascript, application/x-ecmascript")
	return h
}
