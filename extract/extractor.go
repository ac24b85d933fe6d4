package extract

import "fmt"

// Extractor turns fetched Tapology pages into records and follow-up
// requests. Every method is a pure function of its arguments, so one
// Extractor can be shared freely.
type Extractor struct {
	mode Mode
	sel  Selectors
}

// NewExtractor creates an extractor for the given mode. A nil selectors
// value uses DefaultSelectors.
func NewExtractor(mode Mode, selectors *Selectors) (*Extractor, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if selectors == nil {
		selectors = DefaultSelectors()
	}
	return &Extractor{mode: mode, sel: *selectors}, nil
}

// Mode returns the listing mode.
func (e *Extractor) Mode() Mode {
	return e.mode
}

// StartRequest is the request that seeds a crawl at the listing URL.
func (e *Extractor) StartRequest(listingURL string) Request {
	return Request{URL: listingURL, Stage: StageListing}
}

// Extract dispatches a fetched page to the stage named by req.
func (e *Extractor) Extract(page *Page, req Request) (*Result, error) {
	switch req.Stage {
	case StageListing:
		return e.ParseListing(page)
	case StagePagination:
		return e.ParseNextPage(page)
	case StageEvent:
		return e.ParseEvent(page)
	case StageBout:
		if req.Event == nil {
			return nil, fmt.Errorf("bout request for %s has no event context", req.URL)
		}
		return e.ParseBout(page, *req.Event)
	case StageFighter:
		return e.ParseFighter(page)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStage, req.Stage)
}
