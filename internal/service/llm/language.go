package llm

import (
	"strings"
	"unicode"
)

// Replies shorter than this many words are too short to judge a Latin-script language
const minJudgedWords = 4

// scriptShare is the fraction of letters a script must reach to count as dominant
const scriptShare = 0.3

var germanStopwords = toSet(
	"der", "die", "das", "und", "ist", "nicht", "ich", "sie", "es", "ein", "eine",
	"mit", "für", "auf", "zu", "den", "dem", "wir", "ihr", "ihnen", "gerne", "bitte",
	"haben", "sind", "kann", "können", "auch", "wie", "was", "noch", "oder",
)

var turkishStopwords = toSet(
	"ve", "bir", "bu", "için", "ile", "değil", "çok", "daha", "olarak", "gibi",
	"var", "yok", "ben", "sen", "size", "nasıl", "yardımcı", "olabilirim", "mi", "mı",
	"evet", "hayır", "teşekkürler", "lütfen", "merhaba", "ama", "da", "de",
)

type scriptCounts struct {
	letters  int
	latin    int
	cyrillic int
	han      int
	kana     int
	hangul   int
}

func countScripts(text string) scriptCounts {
	var c scriptCounts
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		c.letters++
		switch {
		case unicode.Is(unicode.Latin, r):
			c.latin++
		case unicode.Is(unicode.Cyrillic, r):
			c.cyrillic++
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			c.kana++
		case unicode.Is(unicode.Hangul, r):
			c.hangul++
		case unicode.Is(unicode.Han, r):
			c.han++
		}
	}
	return c
}

func (c scriptCounts) share(n int) float64 {
	if c.letters == 0 {
		return 0
	}
	return float64(n) / float64(c.letters)
}

// nonLatinDominant reports whether a non-Latin script dominates the text
func (c scriptCounts) nonLatinDominant() bool {
	return c.share(c.cyrillic+c.han+c.kana+c.hangul) >= scriptShare
}

// MatchesLanguage is a best-effort check that text is written in the language
// identified by code. confident is false when the heuristic cannot tell, in
// which case matches is true and no translation should be attempted.
func MatchesLanguage(text, code string) (matches, confident bool) {
	c := countScripts(text)
	if c.letters == 0 {
		return true, false
	}

	switch code {
	case "ru":
		return c.share(c.cyrillic) >= scriptShare, true
	case "ko":
		return c.share(c.hangul) >= scriptShare, true
	case "ja":
		// Kana is what separates Japanese from Chinese
		return c.kana > 0 && c.share(c.kana+c.han) >= scriptShare, true
	case "zh":
		return c.kana == 0 && c.share(c.han) >= scriptShare, true
	case "de":
		return matchesLatin(text, c, germanStopwords, "äöüßÄÖÜ")
	case "tr":
		return matchesLatin(text, c, turkishStopwords, "ğĞışŞİ")
	}

	// Other Latin-script languages: only a non-Latin reply is a confident mismatch
	if c.nonLatinDominant() {
		return false, true
	}
	return true, false
}

func matchesLatin(text string, c scriptCounts, stopwords map[string]struct{}, marks string) (bool, bool) {
	if c.nonLatinDominant() {
		return false, true
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) < minJudgedWords {
		return true, false
	}

	hits := 0
	for _, w := range words {
		if _, ok := stopwords[w]; ok {
			hits++
		}
	}
	hasMarks := strings.ContainsAny(text, marks)

	return hits >= 2 || (hasMarks && hits >= 1), true
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
