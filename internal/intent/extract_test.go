package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		utterance string
		want      Name
	}{
		{"show me john smith's orders", Name{"John", "Smith"}},
		{"SHOW ME JOHN SMITH'S ORDERS", Name{"John", "Smith"}},
		{"What are Jane Doe's orders?", Name{"Jane", "Doe"}},
		{"find orders for john smith", Name{"John", "Smith"}},
		{"pull jane doe's orders", Name{"Jane", "Doe"}},
		{"orders for mary jones", Name{"Mary", "Jones"}},
		{"order history: bob stone", Name{"Bob", "Stone"}},
		{"show me john jacob smith orders", Name{"John", "Jacob"}},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			got, ok := ExtractName(tt.utterance)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractName_NoMatch(t *testing.T) {
	for _, utterance := range []string{"", "tell me a joke", "hello there", "(719) 555-0199", "I'd like to speak to someone"} {
		_, ok := ExtractName(utterance)
		assert.False(t, ok, "unexpected name in %q", utterance)
	}
}

func TestNameCascade_PriorityOrder(t *testing.T) {
	labels := make([]string, 0, len(nameCascade))
	for _, m := range nameCascade {
		labels = append(labels, m.label)
	}
	assert.Equal(t, []string{
		"show_orders",
		"what_are_orders",
		"find_orders_for",
		"fetch_orders",
		"name_purchases",
		"orders_for",
		"near_keyword",
	}, labels)
	assert.Equal(t, "near_keyword", nameCascade[len(nameCascade)-1].label, "catch-all must stay last")
}

func TestMatchName_ReportsWinningRule(t *testing.T) {
	tests := map[string]string{
		"show me john smith":         "show_orders",
		"what are jane doe's orders": "what_are_orders",
		"find orders for john smith": "find_orders_for",
		"orders for mary jones":      "orders_for",
		"order history: bob stone":   "near_keyword",
	}
	for utterance, want := range tests {
		_, rule, ok := matchName(utterance)
		assert.True(t, ok, utterance)
		assert.Equal(t, want, rule, utterance)
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"7195551234", "+17195551234", true},
		{"17195551234", "+17195551234", true},
		{"(719) 555-1234", "+17195551234", true},
		{"+1 719.555.1234", "+17195551234", true},
		{"27195551234", "", false},
		{"5551234", "", false},
		{"", "", false},
		{"719555123456", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractPhone(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCallbackDigits(t *testing.T) {
	got, ok := CallbackDigits("my number is 1 (719) 555-0199 thanks")
	assert.True(t, ok)
	assert.Equal(t, "+17195550199", got)

	got, ok = CallbackDigits("123456789012")
	assert.True(t, ok)
	assert.Equal(t, "+13456789012", got)

	_, ok = CallbackDigits("555-0199")
	assert.False(t, ok)
}

func TestDigitsAreASCIIOnly(t *testing.T) {
	_, ok := CallbackDigits("１２３４５６７８９０")
	assert.False(t, ok, "fullwidth digits are not a call-back number")
	_, ok = ExtractPhone("１２３４５６７８９０")
	assert.False(t, ok)
}

func TestDisplayPhone(t *testing.T) {
	assert.Equal(t, "719-555-0199", DisplayPhone("+17195550199"))
	assert.Equal(t, "719-555-0199", DisplayPhone("7195550199"))
	assert.Equal(t, "+1555", DisplayPhone("+1555"))
}
