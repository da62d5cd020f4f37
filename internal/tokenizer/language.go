package tokenizer

import "strings"

// Language is the closed Snowball algorithm set named in spec.md §6, plus
// Unknown for scripts or hints that don't resolve to any of them.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageArabic
	LanguageDanish
	LanguageDutch
	LanguageEnglish
	LanguageFinnish
	LanguageFrench
	LanguageGerman
	LanguageGreek
	LanguageHungarian
	LanguageItalian
	LanguageNorwegian
	LanguagePortuguese
	LanguageRomanian
	LanguageRussian
	LanguageSpanish
	LanguageSwedish
	LanguageTamil
	LanguageTurkish
)

var languageNames = map[Language]string{
	LanguageUnknown:    "unknown",
	LanguageArabic:     "arabic",
	LanguageDanish:     "danish",
	LanguageDutch:      "dutch",
	LanguageEnglish:    "english",
	LanguageFinnish:    "finnish",
	LanguageFrench:     "french",
	LanguageGerman:     "german",
	LanguageGreek:      "greek",
	LanguageHungarian:  "hungarian",
	LanguageItalian:    "italian",
	LanguageNorwegian:  "norwegian",
	LanguagePortuguese: "portuguese",
	LanguageRomanian:   "romanian",
	LanguageRussian:    "russian",
	LanguageSpanish:    "spanish",
	LanguageSwedish:    "swedish",
	LanguageTamil:      "tamil",
	LanguageTurkish:    "turkish",
}

func (l Language) String() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return "unknown"
}

var languageByName = func() map[string]Language {
	m := make(map[string]Language, len(languageNames))
	for l, n := range languageNames {
		m[n] = l
	}
	return m
}()

// ParseLanguageHint maps a free-form language tag to the closed Language
// set, matching case-insensitively on the Snowball algorithm name.
func ParseLanguageHint(hint string) (Language, bool) {
	l, ok := languageByName[strings.ToLower(strings.TrimSpace(hint))]
	return l, ok && l != LanguageUnknown
}

// scriptLanguages lists, per script and in a fixed deterministic order,
// the Language candidates considered during detection - the default
// allow_list a TokenizerBuilder.AllowList override replaces per script.
var scriptLanguages = map[Script][]Language{
	ScriptLatin: {
		LanguageEnglish, LanguageFrench, LanguageGerman, LanguageItalian,
		LanguageSpanish, LanguagePortuguese, LanguageDutch, LanguageDanish,
		LanguageSwedish, LanguageNorwegian, LanguageFinnish, LanguageHungarian,
		LanguageRomanian, LanguageTurkish,
	},
	ScriptCyrillic: {LanguageRussian},
	ScriptGreek:    {LanguageGreek},
	ScriptArabic:   {LanguageArabic},
	ScriptTamil:    {LanguageTamil},
}
