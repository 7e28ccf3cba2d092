// Package quiz builds the vocabulary quiz and grades replies to it.
package quiz

import (
	"fmt"
	"math/rand"
	"strings"
)

// CleanWords trims and lowercases every word. Inner spaces are kept.
func CleanWords(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return out
}

// SelectWords returns the last n words of the log.
func SelectWords(words []string, n int) []string {
	if n <= 0 || n >= len(words) {
		return append([]string(nil), words...)
	}
	return append([]string(nil), words[len(words)-n:]...)
}

// Shuffle returns a shuffled copy of words.
func Shuffle(words []string, rng *rand.Rand) []string {
	out := append([]string(nil), words...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Prompt asks for one gap-fill sentence per word, in order.
func Prompt(words []string) string {
	return "Create sentences for the following words: " + strings.Join(words, ", ")
}

// ParseReply splits a "word1, word2" reply into its words. Empty fields are
// kept so a skipped answer still occupies its position.
func ParseReply(reply string) []string {
	if strings.TrimSpace(reply) == "" {
		return nil
	}
	parts := strings.Split(reply, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// EvaluateAnswers compares answers position by position, ignoring case and
// surrounding whitespace. A length difference adds a final mismatch line.
func EvaluateAnswers(correct, answers []string) string {
	correct = CleanWords(correct)
	answers = CleanWords(answers)

	n := min(len(correct), len(answers))
	lines := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		if correct[i] == answers[i] {
			lines = append(lines, fmt.Sprintf("%d. %s == %s ✅ correct", i+1, correct[i], answers[i]))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s != %s ❌ incorrect", i+1, correct[i], answers[i]))
		}
	}
	if len(correct) != len(answers) {
		lines = append(lines, fmt.Sprintf("⚠️ List size mismatch: %d correct words vs %d user words", len(correct), len(answers)))
	}
	return strings.Join(lines, "\n")
}
