package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"CryptoSentinel/internal/model"
)

// NoReplyMessage is sent when the quiz deadline passes without an answer.
const NoReplyMessage = "⏱️ No reply received. We’ll try again next time."

// TradingReport is everything the crypto report message shows.
type TradingReport struct {
	Advice        string
	CurrentPrice  float64
	Purchase      int64
	RangeDays     int
	RangeHigh     float64
	RangeLow      float64
	RangePosition float64
	Summary       string
	Dominance     float64
	Model         string
	Usage         *model.TokenUsage
}

// FormatTradingReport formats the daily crypto report.
func FormatTradingReport(r TradingReport) string {
	var b strings.Builder
	b.WriteString(r.Advice)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Current Price: %s\n", FormatUSD(decimal.NewFromFloat(r.CurrentPrice)))
	fmt.Fprintf(&b, "Suggested Purchase: %s\n", FormatUSD(decimal.NewFromInt(r.Purchase)))
	if r.RangeDays > 0 && r.RangeHigh > 0 {
		fmt.Fprintf(&b, "%dd Range: %s - %s (position %.0f%%)\n", r.RangeDays,
			FormatUSD(decimal.NewFromFloat(r.RangeLow)), FormatUSD(decimal.NewFromFloat(r.RangeHigh)),
			r.RangePosition*100)
	}
	b.WriteString("\nTechnical Analysis Summary: \n")
	b.WriteString(r.Summary)
	b.WriteString("\n")
	fmt.Fprintf(&b, "BTC Dominance: %.2f%%\n", r.Dominance)
	fmt.Fprintf(&b, "LLM: %s\n", r.Model)
	if r.Usage != nil {
		fmt.Fprintf(&b, "Tokens: %d in / %d out / %d total\n",
			r.Usage.InputTokens, r.Usage.OutputTokens, r.Usage.TotalTokens)
	}
	return b.String()
}

// FormatQuote formats the quote of the day.
func FormatQuote(response, topic, modelID string) string {
	return fmt.Sprintf("%s\n\nTopic: %s\nLLM: %s\n", response, topic, modelID)
}

// FormatBusinessAdvice formats a business psychology tip.
func FormatBusinessAdvice(response, scenario, twist, modelID string) string {
	return fmt.Sprintf("%s\n\nScenario: %s\nContext: %s\nLLM: %s\n", response, scenario, twist, modelID)
}

// FormatQuiz formats the word quiz. words are listed in log order, the
// sentences follow the shuffled order the answer is checked against.
func FormatQuiz(words []string, sentences, modelID string) string {
	var b strings.Builder
	b.WriteString("📝 Word quiz:\n\n")
	b.WriteString("👉 Use the following words in sentences:\n")
	fmt.Fprintf(&b, "🔹 %s\n\n", strings.Join(words, ", "))
	b.WriteString(sentences)
	b.WriteString("\n\n")
	placeholders := make([]string, len(words))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("word%d", i+1)
	}
	fmt.Fprintf(&b, "📌 Response should be in this format: \n%s\n\n", strings.Join(placeholders, ", "))
	fmt.Fprintf(&b, "LLM: %s", modelID)
	return b.String()
}

// FormatFailure formats the notice sent when a job aborts.
func FormatFailure(job string, err error) string {
	return fmt.Sprintf("⚠️ %s job failed: %v", job, err)
}

// FormatUSD renders d as $1,234.56.
func FormatUSD(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}
	return fmt.Sprintf("%s$%s.%s", sign, grouped.String(), frac)
}
