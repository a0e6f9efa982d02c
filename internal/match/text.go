package match

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/david/grant-matcher/internal/models"
)

// normalizeSpace collapses multiple spaces into one and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// htmlToText converts HTML to plain text, collapsing whitespace.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html // Fallback to original if parsing fails
	}
	return normalizeSpace(doc.Text())
}

// programText flattens the opportunity's title, summary and description into
// one lowercase string for keyword heuristics. Descriptions are HTML and are
// stripped to text first.
func programText(opp models.Opportunity) string {
	return strings.ToLower(strings.Join([]string{
		opp.Title,
		opp.Summary,
		htmlToText(opp.Description),
	}, " \n "))
}

// containsAny reports whether text contains at least one of the hints.
func containsAny(text string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}

// containsFold reports whether list contains v, case-insensitively.
func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// smallBusinessProgramHints mark set-aside programs that carry a size
// standard even when the small_business_only flag is not set.
var smallBusinessProgramHints = []string{
	"sbir",
	"sttr",
	"sba",
	"small business",
	"hubzone",
	"disadvantaged business",
	"8(a)",
}

// contractProgramHints mark procurement-style opportunities where a
// commercial entity (CAGE) code is expected.
var contractProgramHints = []string{
	"contract",
	"procurement",
	"solicitation",
	"defense",
	"department of defense",
}

func detectSmallBusinessProgram(opp models.Opportunity) bool {
	if opp.SmallBusinessOnly {
		return true
	}
	return containsAny(programText(opp), smallBusinessProgramHints)
}

func detectContractProgram(opp models.Opportunity) bool {
	return containsAny(programText(opp), contractProgramHints)
}

func detectHUBZoneProgram(opp models.Opportunity) bool {
	return strings.Contains(programText(opp), "hubzone")
}
