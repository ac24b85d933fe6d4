package records

// Card types for Bout.CardType.
const (
	CardTypeMain   = "Main"
	CardTypePrelim = "Prelim"
)

// Kind tags a Record with the type of record it carries.
type Kind string

const (
	KindBout    Kind = "bout"
	KindFighter Kind = "fighter"
)

// Event holds the event-level fields shared by every bout of one event. It
// is never emitted on its own, only embedded in Bout.
type Event struct {
	EventID         string  `json:"event_id"`
	UFCStatsEventID string  `json:"ufcstats_event_id"`
	EventName       *string `json:"event_name"`
	Date            *string `json:"date"` // YYYY-MM-DD
	Region          *string `json:"region"`
	Location        *string `json:"location"`
	Venue           *string `json:"venue"`
}

// Bout is a single scheduled fight within an event.
type Bout struct {
	BoutID         string `json:"bout_id"`
	UFCStatsBoutID string `json:"ufcstats_bout_id"`
	Event

	// BoutOrdinal is the zero-based chronological position on the card.
	BoutOrdinal int    `json:"bout_ordinal"`
	CardType    string `json:"bout_card_type"`

	Fighter1ID           string   `json:"fighter_1_id"`
	Fighter2ID           string   `json:"fighter_2_id"`
	Fighter1RecordAtBout *string  `json:"fighter_1_record_at_bout"`
	Fighter2RecordAtBout *string  `json:"fighter_2_record_at_bout"`
	Fighter1WeightPounds *float64 `json:"fighter_1_weight_pounds"`
	Fighter2WeightPounds *float64 `json:"fighter_2_weight_pounds"`
	Fighter1Gym          *string  `json:"fighter_1_gym"`
	Fighter2Gym          *string  `json:"fighter_2_gym"`
}

// Fighter is a fighter profile as seen on one bout appearance.
type Fighter struct {
	FighterID         string   `json:"fighter_id"`
	UFCStatsFighterID *string  `json:"ufcstats_fighter_id"`
	SherdogFighterID  *string  `json:"sherdog_fighter_id"`
	FighterName       *string  `json:"fighter_name"`
	Nationality       *string  `json:"nationality"`
	HeightInches      *float64 `json:"height_inches"`
	ReachInches       *float64 `json:"reach_inches"`
	DateOfBirth       *string  `json:"date_of_birth"` // YYYY-MM-DD
}

// Record is one emitted record. Exactly one of Bout and Fighter is set,
// matching Kind.
type Record struct {
	Kind    Kind     `json:"kind"`
	Bout    *Bout    `json:"bout,omitempty"`
	Fighter *Fighter `json:"fighter,omitempty"`
}

// NewBoutRecord wraps a bout in a Record.
func NewBoutRecord(b *Bout) Record {
	return Record{Kind: KindBout, Bout: b}
}

// NewFighterRecord wraps a fighter in a Record.
func NewFighterRecord(f *Fighter) Record {
	return Record{Kind: KindFighter, Fighter: f}
}

// ID returns the site-native identifier of the wrapped record.
func (r Record) ID() string {
	switch r.Kind {
	case KindBout:
		if r.Bout != nil {
			return r.Bout.BoutID
		}
	case KindFighter:
		if r.Fighter != nil {
			return r.Fighter.FighterID
		}
	}
	return ""
}
