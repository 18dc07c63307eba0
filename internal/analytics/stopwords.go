package analytics

// stopwordSet holds common English function words excluded from
// word_frequencies — they dominate any frequency table without saying
// anything about a page's subject matter.
var stopwordSet = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "his": true,
	"has": true, "have": true, "with": true, "this": true, "that": true,
	"from": true, "they": true, "will": true, "would": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"make": true, "like": true, "time": true, "just": true, "him": true,
	"know": true, "take": true, "into": true, "your": true, "some": true,
	"could": true, "them": true, "than": true, "then": true, "now": true,
	"only": true, "come": true, "its": true, "over": true, "also": true,
	"back": true, "after": true, "use": true, "two": true, "how": true,
	"work": true, "first": true, "well": true, "way": true,
	"even": true, "new": true, "want": true, "because": true, "any": true,
	"these": true, "give": true, "day": true, "most": true, "page": true,
	"site": true, "click": true, "here": true, "more": true, "information": true,
	"may": true, "should": true, "been": true, "were": true, "being": true,
	"does": true, "did": true, "such": true, "each": true, "other": true,
	"per": true, "via": true, "within": true, "while": true, "between": true,
}

func isStopword(tok string) bool {
	return stopwordSet[tok]
}
