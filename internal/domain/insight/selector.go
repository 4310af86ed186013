package insight

import (
	"hash/fnv"
	"strings"
)

// NormalizeLanguage maps lang onto a supported code, defaulting to English.
func NormalizeLanguage(lang string) string {
	lowered := strings.ToLower(strings.TrimSpace(lang))
	for _, supported := range SupportedLanguages {
		if lowered == supported {
			return supported
		}
	}
	return DefaultLanguage
}

// PickDailyFacts returns the facts of the day. Output depends only on (day, lang).
func PickDailyFacts(day, lang string) DailyFacts {
	safeLang := NormalizeLanguage(lang)
	pool := factBank[safeLang]
	return DailyFacts{
		Lang:     safeLang,
		Common:   pickOne(pool.common, seedFor(day, safeLang, "a")),
		Mindelo:  pickOne(pool.mindelo, seedFor(day, safeLang, "b")),
		Lausanne: pickOne(pool.lausanne, seedFor(day, safeLang, "c")),
	}
}

// seedFor hashes "{day}:{lang}:{slot}" with 32-bit FNV-1a.
func seedFor(day, lang, slot string) uint32 {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(day + ":" + lang + ":" + slot))
	return hash.Sum32()
}

func pickOne(list []string, seed uint32) string {
	if len(list) == 0 {
		return ""
	}
	return list[seed%uint32(len(list))]
}
