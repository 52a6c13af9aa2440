package intent

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name is a customer's first and last name, title-cased.
type Name struct {
	First string
	Last  string
}

// String joins the name with a single space.
func (n Name) String() string {
	return n.First + " " + n.Last
}

type nameMatcher struct {
	label   string
	pattern *regexp.Regexp
}

// nameCascade is evaluated top to bottom and the first match wins. Later
// entries are looser and would shadow the precise phrasings if moved up.
var nameCascade = []nameMatcher{
	{"show_orders", regexp.MustCompile(`show\s+(?:me\s+)?(?:the\s+)?(?:orders?\s+(?:for|of)\s+)?([a-zA-Z]+)\s+([a-zA-Z]+)`)},
	{"what_are_orders", regexp.MustCompile(`(?:what\s+(?:are|were)\s+)?([a-zA-Z]+)\s+([a-zA-Z]+)(?:'s)?\s+orders?`)},
	{"find_orders_for", regexp.MustCompile(`find\s+(?:the\s+)?orders?\s+(?:for|of)\s+([a-zA-Z]+)\s+([a-zA-Z]+)`)},
	{"fetch_orders", regexp.MustCompile(`(?:get|fetch|pull|retrieve)\s+([a-zA-Z]+)\s+([a-zA-Z]+)(?:'s)?\s+orders?`)},
	{"name_purchases", regexp.MustCompile(`([a-zA-Z]+)\s+([a-zA-Z]+)(?:'s)?\s+(?:order|purchase|transaction)s?`)},
	{"orders_for", regexp.MustCompile(`orders?\s+(?:for|by|from)\s+([a-zA-Z]+)\s+([a-zA-Z]+)`)},
	{"near_keyword", regexp.MustCompile(`.*?(?:order|purchase|history).*?([a-zA-Z]+)\s+([a-zA-Z]+)`)},
}

// ExtractName looks for an order-history request naming a customer.
// Matching is case-insensitive and only the first two captured tokens of
// the winning pattern are used.
func ExtractName(utterance string) (Name, bool) {
	name, _, ok := matchName(utterance)
	return name, ok
}

func matchName(utterance string) (Name, string, bool) {
	lowered := strings.ToLower(utterance)
	for _, m := range nameCascade {
		groups := m.pattern.FindStringSubmatch(lowered)
		if len(groups) < 3 {
			continue
		}
		title := cases.Title(language.Und)
		return Name{First: title.String(groups[1]), Last: title.String(groups[2])}, m.label, true
	}
	return Name{}, "", false
}

// ExtractPhone normalizes a strictly formatted phone number. Ten digits get
// a +1 prefix, eleven digits starting with 1 get a + prefix and anything
// else is rejected. Area codes are not validated.
func ExtractPhone(utterance string) (string, bool) {
	digits := onlyDigits(utterance)
	switch {
	case len(digits) == 10:
		return "+1" + digits, true
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits, true
	default:
		return "", false
	}
}

// CallbackDigits treats any utterance carrying at least ten digits as a
// call-back number and returns +1 followed by the last ten of them.
func CallbackDigits(utterance string) (string, bool) {
	digits := onlyDigits(utterance)
	if len(digits) < 10 {
		return "", false
	}
	return "+1" + digits[len(digits)-10:], true
}

// DisplayPhone renders +1XXXXXXXXXX as XXX-XXX-XXXX.
func DisplayPhone(e164 string) string {
	digits := onlyDigits(e164)
	if len(digits) < 10 {
		return e164
	}
	d := digits[len(digits)-10:]
	return d[:3] + "-" + d[3:6] + "-" + d[6:]
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
