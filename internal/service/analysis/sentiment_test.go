package analysis

import (
	"testing"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
)

func texts(ss ...string) []core.Message {
	out := make([]core.Message, len(ss))
	for i, s := range ss {
		out[i] = m("", "Ann", s)
	}
	return out
}

func TestBreakDown_Label(t *testing.T) {
	tests := []struct {
		name string
		msgs []core.Message
		want SentimentLabel
	}{
		{"technical wins", texts("thanks, it works", "build failed"), SentimentConcerned},
		{"questions outnumber positives", texts("is it due?", "anyone around?", "thanks"), SentimentConcerned},
		{"tie goes positive", texts("is it due?", "solved it"), SentimentPositive},
		{"only positive", texts("thanks, it works"), SentimentPositive},
		{"general only", texts("good morning everyone"), SentimentNeutral},
		{"empty", nil, SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BreakDown(tt.msgs).Label)
		})
	}
}

func TestBreakDown_FirstBucketWins(t *testing.T) {
	b := BreakDown(texts("assignment error?", "homework help", "need help", "thank you"))

	assert.Len(t, b.Buckets[sentimentTechnical], 1)
	assert.Len(t, b.Buckets[sentimentAssignment], 1)
	assert.Len(t, b.Buckets[sentimentQuestion], 1)
	assert.Len(t, b.Buckets[sentimentPositive], 1)
	assert.Empty(t, b.Buckets[sentimentGeneral])
}

func TestSentiment_Report(t *testing.T) {
	got := Sentiment([]core.Message{
		m("1", "Ann", "Getting an error in paint"),
		m("2", "Bob", "bug in pydantic model"),
	}, cohort)

	want := "Chat: Cohort 7\n\n" +
		"Sentiment Analysis of Today's Conversation:\n\n" +
		"**Overall Sentiment:** Mixed to Concerned\n\n" +
		"**Technical Concerns:**\n" +
		"* [Ann] Getting an error in paint\n" +
		"* [Bob] bug in pydantic model"
	assert.Equal(t, want, got)
}

func TestSentiment_GeneralSection(t *testing.T) {
	got := Sentiment([]core.Message{
		m("1", "Ann", "Hey, thanks for the notes"),
		m("2", "Bob", "good morning everyone"),
	}, nil)

	want := "Chat: Unknown Chat\n\n" +
		"Sentiment Analysis of Today's Conversation:\n\n" +
		"**Overall Sentiment:** Positive\n\n" +
		"**Positive Responses/Solutions:**\n" +
		"* [Ann] thanks for the notes\n\n" +
		"**General Discussion:**\n" +
		"* [Bob] good morning everyone"
	assert.Equal(t, want, got)
}

func TestSentiment_Empty(t *testing.T) {
	assert.Equal(t, "No messages found to analyze sentiment.", Sentiment(nil, cohort))
}
