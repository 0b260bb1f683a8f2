package moviefilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sequelNumeral matches II-IX after a space. A leading numeral and lone
// "I" or "X" are left alone ("VII Days", "American History X").
var sequelNumeral = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var numeralValue = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

var punctuation = strings.NewReplacer("&", " and ", "-", " ", "'", "", ".", " ")

// Normalize folds a title or query for comparison: lower case, no
// accents or punctuation, sequel numerals as digits and leading articles
// dropped from each colon-separated part.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = sequelNumeral.ReplaceAllStringFunc(s, func(m string) string {
		return " " + numeralValue[strings.TrimSpace(m)]
	})
	s = foldAccents(s)
	s = punctuation.Replace(s)

	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = dropArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func dropArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if rest, ok := strings.CutPrefix(s, art); ok {
			return rest
		}
	}
	return s
}
