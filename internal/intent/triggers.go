package intent

import "strings"

// customerServicePhrases are matched as plain substrings of the lower-cased
// utterance.
var customerServicePhrases = []string{
	"speak to someone",
	"talk to a person",
	"customer service",
	"representative",
	"speak to a human",
	"talk to a human",
	"talk to someone",
	"call me",
	"contact me",
}

// IsCustomerServiceRequest returns true if the utterance asks for a person.
func IsCustomerServiceRequest(utterance string) bool {
	lowered := strings.ToLower(strings.TrimSpace(utterance))
	if lowered == "" {
		return false
	}
	for _, phrase := range customerServicePhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
