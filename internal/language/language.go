package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1, empty for sign languages
	code3   string // ISO 639-2/3 primary
	alt3    string // ISO 639-2 bibliographic alternate
	display string
	words   []string
	signed  bool
}

var languages = []entry{
	{code2: "en", code3: "eng", display: "English", words: []string{"english"}},
	{code2: "fr", code3: "fra", alt3: "fre", display: "French", words: []string{"french", "francais"}},
	{code2: "es", code3: "spa", display: "Spanish", words: []string{"spanish", "espanol"}},
	{code2: "de", code3: "deu", alt3: "ger", display: "German", words: []string{"german"}},
	{code2: "it", code3: "ita", display: "Italian", words: []string{"italian"}},
	{code2: "pt", code3: "por", display: "Portuguese", words: []string{"portuguese"}},
	{code2: "nl", code3: "nld", alt3: "dut", display: "Dutch", words: []string{"dutch"}},
	{code3: "ase", display: "American Sign Language", words: []string{"asl"}, signed: true},
	{code3: "bfi", display: "British Sign Language", words: []string{"bsl"}, signed: true},
	{code3: "fsl", display: "French Sign Language", words: []string{"lsf"}, signed: true},
	{code3: "gsg", display: "German Sign Language", words: []string{"dgs"}, signed: true},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		if e.code2 != "" {
			byCode2[e.code2] = e
		}
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	if base := baseOf(code); base != "" && base != code {
		return lookup(base)
	}
	return nil
}

// Normalize canonicalizes a BCP 47 tag ("EN_us" becomes "en-US").
// Unparseable input reports false.
func Normalize(tag string) (string, bool) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", false
	}
	parsed, err := xlanguage.Parse(trimmed)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func baseOf(tag string) string {
	parsed, err := xlanguage.Parse(tag)
	if err != nil {
		return ""
	}
	base, confidence := parsed.Base()
	if confidence == xlanguage.No {
		return ""
	}
	return base.String()
}

// ToISO2 reduces a tag, code, or language word to its ISO 639-1 code.
// Region subtags are dropped. Unknown 2-letter codes pass through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if base := baseOf(code); len(base) == 2 {
		return base
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsSignLanguage reports whether code names a known sign language.
func IsSignLanguage(code string) bool {
	e := lookup(code)
	return e != nil && e.signed
}
