package analysis

import (
	"fmt"
	"strings"

	"github.com/sandevgo/chatlens/internal/core"
)

type SentimentLabel string

const (
	SentimentConcerned SentimentLabel = "Mixed to Concerned"
	SentimentPositive  SentimentLabel = "Positive"
	SentimentNeutral   SentimentLabel = "Neutral"
)

// SentimentBreakdown is the per-bucket split of a day's messages.
type SentimentBreakdown struct {
	Label   SentimentLabel
	Buckets [][]core.Message // indexed like sentimentBuckets, general last
}

func (b SentimentBreakdown) count(i int) int {
	return len(b.Buckets[i])
}

// BreakDown buckets messages and derives the overall label.
func BreakDown(msgs []core.Message) SentimentBreakdown {
	b := SentimentBreakdown{Buckets: make([][]core.Message, len(sentimentBuckets)+1)}

	for _, m := range msgs {
		lower := strings.ToLower(strings.TrimSpace(m.Text))
		idx := sentimentGeneral
		for i, s := range sentimentBuckets {
			if s.Match(lower) {
				idx = i
				break
			}
		}
		b.Buckets[idx] = append(b.Buckets[idx], m)
	}

	technical := b.count(sentimentTechnical)
	questions := b.count(sentimentQuestion)
	positive := b.count(sentimentPositive)

	switch {
	case technical > 0 || questions > positive:
		b.Label = SentimentConcerned
	case positive > 0:
		b.Label = SentimentPositive
	default:
		b.Label = SentimentNeutral
	}
	return b
}

// Sentiment renders the sentiment report for one day of messages.
func Sentiment(msgs []core.Message, cc *core.ConversationContext) string {
	if len(msgs) == 0 {
		return "No messages found to analyze sentiment."
	}

	b := BreakDown(msgs)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Chat: %s\n\n", titleOf(cc))
	sb.WriteString("Sentiment Analysis of Today's Conversation:\n\n")
	fmt.Fprintf(&sb, "**Overall Sentiment:** %s\n\n", b.Label)

	for i, bucket := range b.Buckets {
		if len(bucket) == 0 {
			continue
		}
		header := generalSectionHeader
		if i < len(sentimentBuckets) {
			header = sentimentBuckets[i].Header
		}
		sb.WriteString(header + "\n")
		for _, m := range bucket {
			fmt.Fprintf(&sb, "* [%s] %s\n", m.Sender, summarize(m.Text))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
