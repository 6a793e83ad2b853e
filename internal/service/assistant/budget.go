package assistant

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter returns the number of model tokens in text.
type TokenCounter func(text string) int

var (
	encoder     *tiktoken.Tiktoken
	encoderOnce sync.Once
)

// CountTokens counts cl100k_base tokens. When the encoding cannot be
// loaded it estimates four bytes per token.
func CountTokens(text string) int {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoder = enc
		}
	})
	if text == "" {
		return 0
	}
	if encoder == nil {
		return (len(text) + 3) / 4
	}
	return len(encoder.Encode(text, nil, nil))
}

// fitLines keeps the newest lines whose combined size, plus overhead,
// stays within budget. Line order is preserved.
func fitLines(lines []string, overhead, budget int, count TokenCounter) ([]string, int) {
	if budget <= 0 {
		return lines, 0
	}
	used := overhead
	start := len(lines)
	for start > 0 {
		n := count(lines[start-1]) + 1
		if used+n > budget {
			break
		}
		used += n
		start--
	}
	return lines[start:], start
}
