package rules

// Built-in junk signatures. Patterns run against the normalized line key
// (entities decoded, NFKC, whitespace collapsed, trimmed) and are compiled
// case-insensitively, so they are written in lowercase.
//
// Adding a signature here needs no change anywhere else.
var defaultSpecs = []struct {
	category Category
	id       string
	pattern  string
	note     string
}{
	// Promotional calls to action.
	{CategoryDrop, "subscribe-cta", `^(?:subscribe|sign up|signup|join|register)(?: now| today| here| for free)?[.!:]*$`, "bare subscribe/sign-up buttons"},
	{CategoryDrop, "newsletter-signup", `\b(?:subscribe|sign up|signup|register) (?:to|for) (?:our|the|my)(?: free)?(?: \w+)? (?:newsletters?|bulletins?|digest|mailing list)\b`, "newsletter prompts embedded in the body"},
	{CategoryDrop, "subscriber-wall", `\b(?:already a subscriber|subscribe to (?:continue|keep) reading|subscribe to unlock|this (?:article|story|content) is (?:only )?(?:available|reserved) (?:to|for) subscribers)\b`, "paywall teasers"},
	{CategoryDrop, "app-cta", `^(?:click here|tap here|download (?:our|the) app|get the app|try it (?:free|now)|start (?:your )?free trial)\b`, "app and trial promotions"},
	{CategoryDrop, "ad-marker", `^(?:advertisement|advertising|ad|sponsored|promoted|paid content|story continues below(?: advertisement)?)[.:]?$`, "ad slot labels left behind by the extractor"},

	// Social-follow prompts.
	{CategoryDrop, "social-follow", `^(?:follow|like|join|find) (?:us|me|[\w.@]+) on (?:twitter|x|facebook|instagram|linkedin|tiktok|youtube|threads|telegram|whatsapp|bluesky|mastodon)\b`, "follow-us lines"},
	{CategoryDrop, "share-prompt", `^(?:share (?:this|on)\b[^.!?]{0,40}|share|tweet|email|print|copy link)$`, "share toolbars"},

	// Wire-service and photo credits.
	{CategoryDrop, "wire-credit", `^\(?(?:reporting|writing|editing|additional reporting|compiled) by\b`, "agency byline credits"},
	{CategoryDrop, "wire-tag", `^[(\[]?(?:reuters|ap|afp|associated press|bloomberg|dpa|ani|pti|xinhua)[)\]]?$`, "bare agency tags"},
	{CategoryDrop, "photo-credit", `^(?:photo|image|picture|video|file photo)s?(?: credit)?\s*[:/|]`, "media credits and captions"},

	// Copyright footers.
	{CategoryDrop, "copyright-footer", `^(?:©|\(c\)|copyright)\s*(?:©\s*)?(?:\d{4}|the\b)`, "copyright notices"},
	{CategoryDrop, "rights-reserved", `\ball rights reserved\b`, "rights reserved boilerplate"},
	{CategoryDrop, "no-redistribution", `\bmay not be (?:published|broadcast|rewritten|redistributed)\b`, "wire redistribution notices"},

	// Lead-ins that introduce a single link.
	{CategoryDrop, "more-from-leadin", `^(?:more from|best of)\b[^.!?]{0,60}$`, "more from / best of lead-ins"},
	{CategoryDrop, "see-also-leadin", `^(?:also read|read also|see also|also see|read:|watch:|listen:)`, "inline cross-links"},

	// Event promotion.
	{CategoryDrop, "event-tickets", `\b(?:get|buy|book|grab|secure) (?:your )?(?:tickets|seat|pass)(?:es)?\b`, "event ticket promotions"},
	{CategoryDrop, "event-early-bird", `\bearly[- ]bird\b.*\b(?:tickets|pricing|registration|rates?)\b`, "early-bird pricing"},
	{CategoryDrop, "event-register", `\bregister (?:now|today|here)\b`, "event registration"},

	// Legal footer links, alone or pipe-separated.
	{CategoryDrop, "legal-links", `^(?:(?:privacy(?: policy| notice)?|terms(?: of (?:use|service))?|terms and conditions|cookies?(?: policy| settings| preferences)?|do not sell my (?:personal )?info(?:rmation)?|contact(?: us)?|about(?: us)?|advertise(?: with us)?|sitemap|accessibility|careers)\s*[|·•/,]?\s*)+$`, "footer link rows"},
	{CategoryDrop, "comments-prompt", `^(?:leave a comment|comments?(?: \(\d+\))?|show comments|join the conversation|\d+ comments?)$`, "comment widgets"},

	// Section boundaries: everything from here to the end is discarded.
	{CategoryCutoff, "related-stories", `^(?:related|more related) (?:stories|articles|coverage|news|content|reading|posts|links|topics)\s*[:\-–—]?$`, "related stories header"},
	{CategoryCutoff, "read-next", `^(?:read next|read more|up next|more stories|more news|top stories|more on this story|more on this topic)\s*[:\-–—]?$`, "read next header"},
	{CategoryCutoff, "recommended", `^(?:recommended(?: for you| stories| reading| articles)?|you (?:may|might) also (?:like|be interested in)|we recommend)\s*[:\-–—]?$`, "recommendation widgets"},
	{CategoryCutoff, "trending", `^(?:trending(?: now| stories| news)?|most (?:read|popular|viewed|shared)|popular (?:stories|now|articles))\s*[:\-–—]?$`, "trending lists"},
	{CategoryCutoff, "sponsored-section", `^(?:sponsored (?:content|stories|links)|from around the web|promoted stories|partner content)\s*[:\-–—]?$`, "content recommendation ads"},
	{CategoryCutoff, "author-bio", `^(?:about the (?:author|writer|reporter)s?)\s*[:\-–—]?$`, "author bio section"},
	{CategoryCutoff, "more-from-section", `^more (?:from|in|on)\b[^.!?]{0,40}:$`, "more from <section>: header ending a body"},
}

var defaultTables = compileDefaults()

func compileDefaults() Tables {
	tables := Tables{
		Drop:   Table{Category: CategoryDrop},
		Cutoff: Table{Category: CategoryCutoff},
	}
	for _, spec := range defaultSpecs {
		p := Pattern{
			ID:       spec.id,
			Category: spec.category,
			Type:     MatchRegex,
			Note:     spec.note,
			Matcher:  mustRegex(spec.pattern),
		}
		switch spec.category {
		case CategoryDrop:
			tables.Drop.Patterns = append(tables.Drop.Patterns, p)
		case CategoryCutoff:
			tables.Cutoff.Patterns = append(tables.Cutoff.Patterns, p)
		}
	}
	return tables
}

// DefaultTables returns the built-in tables. The returned slices are fresh
// copies; the matchers inside are shared and safe for concurrent use.
func DefaultTables() Tables {
	return Merge(Tables{}, defaultTables)
}
