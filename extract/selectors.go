package extract

// Selectors holds every CSS selector the extractor runs against Tapology
// pages. Defaults track the live markup; a config file may override single
// fields when the site changes.
type Selectors struct {
	Listing ListingSelectors `yaml:"listing"`
	Event   EventSelectors   `yaml:"event"`
	Bout    BoutSelectors    `yaml:"bout"`
	Fighter FighterSelectors `yaml:"fighter"`
}

// ListingSelectors locate event links on the fight center index.
type ListingSelectors struct {
	Entry    string `yaml:"entry"`
	Link     string `yaml:"link"` // relative to Entry
	NextPage string `yaml:"next_page"`
}

// EventSelectors locate event metadata and the bout list.
type EventSelectors struct {
	Title         string `yaml:"title"`
	Info          string `yaml:"info"`
	Region        string `yaml:"region"`
	ExternalLinks string `yaml:"external_links"`
	Bouts         string `yaml:"bouts"`
}

// BoutSelectors locate bout metadata, fighter links and the stats table.
type BoutSelectors struct {
	ExternalLinks string `yaml:"external_links"`
	PreResult     string `yaml:"pre_result"`
	Fighter1      string `yaml:"fighter_1"`
	Fighter2      string `yaml:"fighter_2"`
	StatsRows     string `yaml:"stats_rows"`
}

// FighterSelectors locate fighter profile fields.
type FighterSelectors struct {
	Name          string `yaml:"name"`
	Nationality   string `yaml:"nationality"`
	Details       string `yaml:"details"`
	ExternalLinks string `yaml:"external_links"`
}

const (
	eventDetails   = "div.details.details_with_poster.clearfix > div.right > ul.clearfix > li"
	fighterDetails = "div.details.details_two_columns > ul.clearfix > li"
	externalIcons  = " > div.externalIconsHolder > a"
)

// DefaultSelectors returns the selectors for the current Tapology markup.
// Tables are addressed through tbody because the HTML parser inserts it.
func DefaultSelectors() *Selectors {
	return &Selectors{
		Listing: ListingSelectors{
			Entry:    "section.fcListing > div.main > div.left",
			Link:     "div.promotion > span.name > a",
			NextPage: "span.next > a",
		},
		Event: EventSelectors{
			Title:         "div.eventPageHeaderTitles > h1",
			Info:          eventDetails,
			Region:        "div.regionFCSidebar > div.iconLead > div.textContents > div.leader > a",
			ExternalLinks: eventDetails + externalIcons,
			Bouts:         "div.fightCardMatchup > table > tbody > tr > td > span.billing > a",
		},
		Bout: BoutSelectors{
			ExternalLinks: eventDetails + externalIcons,
			PreResult:     "h4.boutPreResult",
			Fighter1:      "span.fName.left > a",
			Fighter2:      "span.fName.right > a",
			StatsRows:     "table.fighterStats.spaced > tbody > tr",
		},
		Fighter: FighterSelectors{
			Name:          "div.fighterUpcomingHeader > h1",
			Nationality:   "div.fighterUpcomingHeader > h2#flag > a",
			Details:       fighterDetails,
			ExternalLinks: fighterDetails + externalIcons,
		},
	}
}
