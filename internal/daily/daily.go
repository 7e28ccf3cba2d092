// Package daily holds the prompt logic of the quote-of-the-day and business
// advice jobs.
package daily

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`(?i)C-Level Word:[\s*]*([^*\n]+)`)

// ExtractWord returns the advanced word announced after "C-Level Word:", in
// either the inline or the bold heading format. ok is false when absent.
func ExtractWord(message string) (word string, ok bool) {
	m := wordPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	word = strings.Trim(strings.TrimSpace(m[1]), "*_[]\"'.")
	return word, word != ""
}

// Pick returns a random element of options.
func Pick(options []string, rng *rand.Rand) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to pick from")
	}
	return options[rng.Intn(len(options))], nil
}

// QuotePrompt asks for a quote on topic.
func QuotePrompt(topic string) string {
	return fmt.Sprintf("Quote of the day about %s, please.", topic)
}

// BusinessPrompt frames a scenario with a context twist and a fallback twist
// the model may switch to when the pair does not fit together.
func BusinessPrompt(scenario, twist, alternative string) string {
	return fmt.Sprintf(
		"Provide psychological advice for the following situation in a business context.\n"+
			"SCENARIO: %s\nCONTEXT_TWIST: %s\nALTERNATIVE_CONTEXT_TWIST: %s",
		scenario, twist, alternative)
}

// PickTwists returns a twist and a different alternative when possible.
func PickTwists(twists []string, rng *rand.Rand) (twist, alternative string, err error) {
	if len(twists) == 0 {
		return "", "", fmt.Errorf("no context twists configured")
	}
	i := rng.Intn(len(twists))
	if len(twists) == 1 {
		return twists[i], twists[i], nil
	}
	j := rng.Intn(len(twists) - 1)
	if j >= i {
		j++
	}
	return twists[i], twists[j], nil
}
