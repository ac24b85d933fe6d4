package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/fightrecords/records"
)

const (
	ufcStatsBoutPattern = "www.ufcstats.com/fight-details/"

	statRecord = "Pro Record At Fight"
	statWeight = "Weigh-In Result"
	statGym    = "Gym"

	statCells = 5
)

// ParseBout extracts one bout record, inheriting event fields from ev, and
// queues a fighter request for each side of the bout.
func (e *Extractor) ParseBout(page *Page, ev EventContext) (*Result, error) {
	sel := e.sel.Bout
	bout := &records.Bout{
		BoutID:      page.ID(),
		Event:       ev.Event,
		BoutOrdinal: ev.BoutOrdinal,
		CardType:    ClassifyCardType(firstOwnText(page.Doc.Find(sel.PreResult).First())),
	}

	ufcStatsID, ok := findLinkID(hrefs(page.Doc.Find(sel.ExternalLinks)), ufcStatsBoutPattern)
	if !ok {
		return nil, schemaError(StageBout, page, "ufcstats_bout_id", "no link matching %s", ufcStatsBoutPattern)
	}
	bout.UFCStatsBoutID = ufcStatsID

	fighter1Href, ok := page.Doc.Find(sel.Fighter1).First().Attr("href")
	if !ok {
		return nil, schemaError(StageBout, page, "fighter_1_id", "no fighter link")
	}
	fighter2Href, ok := page.Doc.Find(sel.Fighter2).First().Attr("href")
	if !ok {
		return nil, schemaError(StageBout, page, "fighter_2_id", "no fighter link")
	}
	bout.Fighter1ID = LastSegment(fighter1Href)
	bout.Fighter2ID = LastSegment(fighter2Href)

	var rowErr error
	page.Doc.Find(sel.StatsRows).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		rowErr = applyStatRow(page, bout, row)
		return rowErr == nil
	})
	if rowErr != nil {
		return nil, rowErr
	}

	result := &Result{Records: []records.Record{records.NewBoutRecord(bout)}}
	for _, href := range []string{fighter1Href, fighter2Href} {
		link, err := page.Resolve(href)
		if err != nil {
			return nil, err
		}
		result.Requests = append(result.Requests, Request{URL: link, Stage: StageFighter})
	}

	return result, nil
}

// applyStatRow copies one row of the fighter stats table onto the bout.
// Cells 0 and 4 are the two fighters' values, cell 2 is the category.
func applyStatRow(page *Page, bout *records.Bout, row *goquery.Selection) error {
	cells := strippedTexts(row.Find("td"))
	if len(cells) != statCells {
		return schemaError(StageBout, page, "stats", "row has %d cells, want %d", len(cells), statCells)
	}
	f1, category, f2 := cells[0], cells[2], cells[4]

	switch category {
	case statRecord:
		bout.Fighter1RecordAtBout = optional(f1)
		bout.Fighter2RecordAtBout = optional(f2)
	case statWeight:
		w1, err := ParseWeight(f1)
		if err != nil {
			return schemaError(StageBout, page, "fighter_1_weight_pounds", "%v", err)
		}
		w2, err := ParseWeight(f2)
		if err != nil {
			return schemaError(StageBout, page, "fighter_2_weight_pounds", "%v", err)
		}
		bout.Fighter1WeightPounds, bout.Fighter2WeightPounds = w1, w2
	case statGym:
		bout.Fighter1Gym = AttributeGym(f1)
		bout.Fighter2Gym = AttributeGym(f2)
	}

	return nil
}
