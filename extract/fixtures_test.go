package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	listingURL = "https://www.tapology.com/fightcenter?group=ufc&schedule=results&sport=mma"
	eventURL   = "https://www.tapology.com/fightcenter/events/104123-ufc-300"
	boutURL    = "https://www.tapology.com/fightcenter/bouts/903-pereira-hill"
	fighterURL = "https://www.tapology.com/fightcenter/fighters/58504-alex-pereira"
)

const listingHTML = `<html><body>
<section class="fcListing"><div class="main"><div class="left">
<div class="promotion"><span class="name"><a href="/fightcenter/events/104123-ufc-300">UFC 300</a></span></div>
</div></div></section>
<section class="fcListing"><div class="main"><div class="left">
<div class="promotion"><span class="name"><a href="/fightcenter/events/104001-ufc-299">UFC 299</a></span></div>
</div></div></section>
<section class="fcListing"><div class="main"><div class="left">
<div class="promotion"><span class="name"><a href="https://www.tapology.com/fightcenter/events/103900-ufc-fight-night">UFC Fight Night</a></span></div>
</div></div></section>
<span class="next"><a href="/fightcenter?group=ufc&amp;page=2">Next</a></span>
</body></html>`

const emptyListingHTML = `<html><body><div class="empty">No results</div></body></html>`

const paginationBody = `$("#fightcenterContent").html("<section class=\"fcListing\"><div class=\"main\"><div class=\"left\"><div class=\"promotion\"><span class=\"name\"><a href=\"\/fightcenter\/events\/101-ufc-250\">UFC 250<\/a><\/span><\/div><\/div><\/div><\/section>\n<span class=\"next\"><a href=\"\/fightcenter?group=ufc&amp;page=3\">Next<\/a><\/span>");`

const eventHTML = `<html><body>
<div class="eventPageHeaderTitles"><h1>UFC 300: Pereira vs. Hill</h1></div>
<div class="details details_with_poster clearfix"><div class="right"><ul class="clearfix">
<li><span class="header">Saturday 04.13.2024 at 10:00 PM ET</span></li>
<li><strong>Location:</strong> Las Vegas, Nevada</li>
<li><strong>Venue:</strong> </li>
<li><strong>Links:</strong><div class="externalIconsHolder"><a href="https://www.ufc.com/event/ufc-300"></a><a href="http://www.ufcstats.com/event-details/e1f2a3b4c5d6"></a><a href="http://www.ufcstats.com/event-details/ignored"></a></div></li>
</ul></div></div>
<div class="regionFCSidebar"><div class="iconLead"><div class="textContents"><div class="leader"><a href="/regions/1">US West Region</a></div></div></div></div>
<div class="fightCardMatchup"><table><tr><td><span class="billing"><a href="/fightcenter/bouts/903-pereira-hill">Main Event</a></span></td></tr></table></div>
<div class="fightCardMatchup"><table><tr><td><span class="billing"><a href="/fightcenter/bouts/902-zhang-yan">Co-Main</a></span></td></tr></table></div>
<div class="fightCardMatchup"><table><tr><td><span class="billing"><a href="/fightcenter/bouts/901-opener">Prelim</a></span></td></tr></table></div>
</body></html>`

const boutHTML = `<html><body>
<div class="details details_with_poster clearfix"><div class="right"><ul class="clearfix">
<li><div class="externalIconsHolder"><a href="http://www.ufcstats.com/event-details/e1f2a3b4c5d6"></a><a href="http://www.ufcstats.com/fight-details/f9e8d7c6"></a></div></li>
</ul></div></div>
<h4 class="boutPreResult">Main Card | 5 x 5 Minute Rounds | Light Heavyweight</h4>
<span class="fName left"><a href="/fightcenter/fighters/58504-alex-pereira">Alex Pereira</a></span>
<span class="fName right"><a href="/fightcenter/fighters/23521-jamahal-hill">Jamahal Hill</a></span>
<table class="fighterStats spaced">
<tr><td>9-2-0</td><td></td><td>Pro Record At Fight</td><td></td><td>12-1-0</td></tr>
<tr><td>204.5 lbs (92.8 kgs)</td><td></td><td>Weigh-In Result</td><td></td><td>N/A</td></tr>
<tr><td>Teixeira MMA &amp; Fitness (Primary)

Glover Teixeira (Other)</td><td></td><td>Gym</td><td></td><td>Gym A (Other)

Gym B

Gym C (Primary)</td></tr>
<tr><td>Brazil</td><td></td><td>Nationality</td><td></td><td>United States</td></tr>
</table>
</body></html>`

const fighterHTML = `<html><body>
<div class="fighterUpcomingHeader"><h1><span class="nickname">"Poatan"</span>
Alex Pereira
</h1><h2 id="flag"><a href="/search/nation/br" title="See all Brazil Fighters"><img src="/br.png"></a></h2></div>
<div class="details details_two_columns"><ul class="clearfix">
<li><strong>Pro MMA Record:</strong> 11-2-0</li>
<li><strong>Age:</strong> 36 <strong>| Date of Birth:</strong> 1987.07.07</li>
<li><strong>Height:</strong> 6'4" (193cm) <strong>| Reach:</strong> 79.0" (201cm)</li>
<li><strong>Links:</strong><div class="externalIconsHolder"><a href="http://www.ufcstats.com/fighter-details/e5549c82bfb5582d"></a><a href="https://www.sherdog.com/fighter/Alex-Pereira-123456"></a></div></li>
</ul></div>
</body></html>`

const fighterUnknownsHTML = `<html><body>
<div class="fighterUpcomingHeader"><h1>Unknown Prospect</h1></div>
<div class="details details_two_columns"><ul class="clearfix">
<li><strong>Age:</strong> N/A <strong>| Date of Birth:</strong> N/A</li>
<li><strong>Height:</strong> N/A <strong>| Reach:</strong> N/A</li>
</ul></div>
</body></html>`

// Test helper: parse a fixture into a page
func mustPage(t *testing.T, rawURL, body string) *Page {
	t.Helper()
	page, err := NewPage(rawURL, []byte(body))
	require.NoError(t, err)
	return page
}

// Test helper: create an extractor with default selectors
func mustExtractor(t *testing.T, mode Mode) *Extractor {
	t.Helper()
	e, err := NewExtractor(mode, nil)
	require.NoError(t, err)
	return e
}

// testEventContext is the context the event fixture produces for its
// main event, built by hand so bout tests do not depend on event parsing.
func testEventContext() EventContext {
	name, date, region, location := "UFC 300: Pereira vs. Hill", "2024-04-13", "US West Region", "Las Vegas, Nevada"
	ctx := EventContext{BoutOrdinal: 2}
	ctx.EventID = "104123-ufc-300"
	ctx.UFCStatsEventID = "e1f2a3b4c5d6"
	ctx.EventName = &name
	ctx.Date = &date
	ctx.Region = &region
	ctx.Location = &location
	return ctx
}
