package extract

import (
	"strings"

	"github.com/pevans/fightrecords/records"
)

const (
	ufcStatsFighterPattern = "www.ufcstats.com/fighter-details/"
	sherdogFighterPattern  = "www.sherdog.com/fighter/"
)

// ParseFighter extracts a fighter profile. Both cross-site ids are
// optional.
func (e *Extractor) ParseFighter(page *Page) (*Result, error) {
	sel := e.sel.Fighter
	fighter := &records.Fighter{FighterID: page.ID()}

	if names := ownTexts(page.Doc.Find(sel.Name)); len(names) > 0 {
		fighter.FighterName = &names[len(names)-1]
	}

	if title, ok := page.Doc.Find(sel.Nationality).First().Attr("title"); ok {
		title = strings.ReplaceAll(title, "See all ", "")
		title = strings.ReplaceAll(title, " Fighters", "")
		fighter.Nationality = optional(strings.TrimSpace(title))
	}

	for _, detail := range strippedTexts(page.Doc.Find(sel.Details)) {
		var err error
		switch {
		case strings.HasPrefix(detail, "Age:"):
			err = parseBirthDate(page, fighter, detail)
		case strings.HasPrefix(detail, "Height:"):
			err = parseHeightReach(page, fighter, detail)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, link := range hrefs(page.Doc.Find(sel.ExternalLinks)) {
		switch {
		case strings.Contains(link, ufcStatsFighterPattern):
			fighter.UFCStatsFighterID = optional(LastSegment(link))
		case strings.Contains(link, sherdogFighterPattern):
			fighter.SherdogFighterID = optional(LastSegment(link))
		}
	}

	return &Result{Records: []records.Record{records.NewFighterRecord(fighter)}}, nil
}

// parseBirthDate handles "Age: 35 | Date of Birth: 1988.07.19".
func parseBirthDate(page *Page, fighter *records.Fighter, detail string) error {
	parts := strings.Split(detail, "| ")
	if len(parts) < 2 {
		return schemaError(StageFighter, page, "date_of_birth", "no date of birth in %q", detail)
	}

	dob := strings.TrimSpace(strings.ReplaceAll(parts[1], "Date of Birth:", ""))
	if dob == notAvailable {
		return nil
	}

	date, err := ParseDate(dob)
	if err != nil {
		return schemaError(StageFighter, page, "date_of_birth", "%v", err)
	}
	fighter.DateOfBirth = &date
	return nil
}

// parseHeightReach handles `Height: 5'11" (180cm) | Reach: 74.0" (188cm)`.
func parseHeightReach(page *Page, fighter *records.Fighter, detail string) error {
	parts := strings.Split(detail, "| ")
	if len(parts) != 2 {
		return schemaError(StageFighter, page, "height_inches", "want height and reach in %q", detail)
	}

	height := strings.TrimSpace(strings.Split(strings.ReplaceAll(parts[0], "Height:", ""), " (")[0])
	reach := strings.TrimSpace(strings.Split(strings.ReplaceAll(parts[1], "Reach:", ""), " (")[0])

	if height != notAvailable {
		inches, err := ConvertHeight(strings.ReplaceAll(height, "'", "' "))
		if err != nil {
			return schemaError(StageFighter, page, "height_inches", "%v", err)
		}
		fighter.HeightInches = inches
	}

	inches, err := ParseReach(reach)
	if err != nil {
		return schemaError(StageFighter, page, "reach_inches", "%v", err)
	}
	fighter.ReachInches = inches

	return nil
}
