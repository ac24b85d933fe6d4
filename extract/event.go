package extract

import (
	"strings"

	"github.com/pevans/fightrecords/records"
)

const ufcStatsEventPattern = "www.ufcstats.com/event-details/"

// ParseEvent extracts event metadata and queues one bout request per bout
// on the card. The card lists the main event first, so the bout links are
// reversed before ordinals are assigned: ordinal 0 is the opening bout.
func (e *Extractor) ParseEvent(page *Page) (*Result, error) {
	sel := e.sel.Event
	event := records.Event{
		EventID:   page.ID(),
		EventName: optional(firstOwnText(page.Doc.Find(sel.Title).First())),
		Region:    optional(firstOwnText(page.Doc.Find(sel.Region).First())),
	}

	for i, info := range strippedTexts(page.Doc.Find(sel.Info)) {
		switch {
		case i == 0:
			tokens := strings.Split(info, " ")
			if len(tokens) < 2 {
				return nil, schemaError(StageEvent, page, "date", "no date token in %q", info)
			}
			date, err := ParseDate(tokens[1])
			if err != nil {
				return nil, schemaError(StageEvent, page, "date", "%v", err)
			}
			event.Date = &date
		case strings.HasPrefix(info, "Location:"):
			event.Location = optional(strings.TrimSpace(strings.ReplaceAll(info, "Location:", "")))
		case strings.HasPrefix(info, "Venue:"):
			event.Venue = optional(strings.TrimSpace(strings.ReplaceAll(info, "Venue:", "")))
		}
	}

	ufcStatsID, ok := findLinkID(hrefs(page.Doc.Find(sel.ExternalLinks)), ufcStatsEventPattern)
	if !ok {
		return nil, schemaError(StageEvent, page, "ufcstats_event_id", "no link matching %s", ufcStatsEventPattern)
	}
	event.UFCStatsEventID = ufcStatsID

	boutHrefs := hrefs(page.Doc.Find(sel.Bouts))
	result := &Result{Requests: make([]Request, 0, len(boutHrefs))}
	for i := len(boutHrefs) - 1; i >= 0; i-- {
		link, err := page.Resolve(boutHrefs[i])
		if err != nil {
			return nil, err
		}
		result.Requests = append(result.Requests, Request{
			URL:   link,
			Stage: StageBout,
			Event: &EventContext{
				Event:       event,
				BoutOrdinal: len(result.Requests),
			},
		})
	}

	return result, nil
}
