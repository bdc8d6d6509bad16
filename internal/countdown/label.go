package countdown

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the languages labels are translated into. The first entry is
// the fallback.
var Supported = []language.Tag{language.English, language.Malay}

var (
	labels  = newCatalog()
	matcher = language.NewMatcher(Supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	b.Set(language.English, "%d days", plural.Selectf(1, "%d",
		plural.One, "%d day",
		plural.Other, "%d days"))
	b.Set(language.English, "%d hours", plural.Selectf(1, "%d",
		plural.One, "%d hour",
		plural.Other, "%d hours"))

	b.SetString(language.Malay, "%d days", "%d hari")
	b.SetString(language.Malay, "%d hours", "%d jam")
	b.SetString(language.Malay, "%s %s left (%s)", "%s %s lagi (%s)")

	for tier, text := range map[Tier][2]string{
		TierSafe:     {"On track", "Masih awal"},
		TierWarning:  {"Getting close", "Semakin hampir"},
		TierUrgent:   {"Urgent", "Segera"},
		TierCritical: {"Final day", "Hari terakhir"},
		TierPast:     {"Exam date has passed", "Tarikh peperiksaan telah berlalu"},
	} {
		b.SetString(language.English, string(tier), text[0])
		b.SetString(language.Malay, string(tier), text[1])
	}
	return b
}

// Match picks the supported language for an Accept-Language header value,
// returning fallback when nothing matches.
func Match(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// Label renders a short human-readable description of a countdown.
func Label(tag language.Tag, s Status) string {
	p := message.NewPrinter(tag, message.Catalog(labels))
	tier := p.Sprintf(string(s.Tier))
	if s.Tier == TierPast {
		return tier
	}
	return p.Sprintf("%s %s left (%s)",
		p.Sprintf("%d days", s.Days),
		p.Sprintf("%d hours", s.Hours),
		tier,
	)
}
