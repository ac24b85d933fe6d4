package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pevans/fightrecords/records"
)

const notAvailable = "N/A"

// LastSegment returns everything after the final "/" of a URL or path.
func LastSegment(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}

// ConvertHeight converts feet/inches notation such as 5' 11" to total
// inches. "--" means unknown and yields nil.
func ConvertHeight(height string) (*float64, error) {
	if height == "--" {
		return nil, nil
	}

	parts := strings.Fields(height)
	if len(parts) != 2 || !strings.HasSuffix(parts[0], "'") || !strings.HasSuffix(parts[1], `"`) {
		return nil, fmt.Errorf("invalid height %q", height)
	}

	feet, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "'"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid feet in height %q: %w", height, err)
	}
	inches, err := strconv.ParseFloat(strings.TrimSuffix(parts[1], `"`), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid inches in height %q: %w", height, err)
	}

	total := 12*feet + inches
	return &total, nil
}

// ParseWeight parses a weigh-in result such as "185.5 lbs" into pounds.
// Empty and "N/A" yield nil.
func ParseWeight(s string) (*float64, error) {
	if s == "" || s == notAvailable {
		return nil, nil
	}

	token := strings.Split(s, " ")[0]
	pounds, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid weight %q: %w", s, err)
	}
	return &pounds, nil
}

// ParseReach parses a reach value such as 74.0" into inches. "N/A" yields
// nil.
func ParseReach(s string) (*float64, error) {
	if s == notAvailable {
		return nil, nil
	}

	inches, err := strconv.ParseFloat(strings.ReplaceAll(s, `"`, ""), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid reach %q: %w", s, err)
	}
	return &inches, nil
}

// Month-first layouts come before day-first ones; the site writes event
// dates as MM.DD.YYYY and birth dates as YYYY.MM.DD. The unpadded numeric
// layouts accept both 4.13.2024 and 04.13.2024.
var dateLayouts = []string{
	"2006-1-2",
	"1.2.2006",
	"2006.1.2",
	"1/2/2006",
	"2006/1/2",
	"1-2-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate parses a calendar date in any of the site's formats and returns
// it as YYYY-MM-DD.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// ClassifyCardType maps a bout pre-result headline to a card type.
func ClassifyCardType(headline string) string {
	segment := strings.TrimSpace(strings.Split(headline, " | ")[0])
	if segment == "Preliminary Card" {
		return records.CardTypePrelim
	}
	return records.CardTypeMain
}

// optional returns nil for the empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
