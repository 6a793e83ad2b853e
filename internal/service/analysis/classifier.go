package analysis

import (
	"regexp"
	"strings"

	"github.com/sandevgo/chatlens/internal/core"
)

var assignmentNumberRe = regexp.MustCompile(`(?i)assignment\s*(\d+)`)

type Classifier struct {
	vocab *Vocabulary
}

func NewClassifier(vocab *Vocabulary) *Classifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Classifier{vocab: vocab}
}

func (c *Classifier) Vocabulary() *Vocabulary {
	return c.vocab
}

// Classify turns one message into a key point. prior holds the messages
// seen earlier in the same bucket, oldest first.
func (c *Classifier) Classify(msg core.Message, prior []core.Message, cc *core.ConversationContext) core.KeyPoint {
	text := strings.TrimSpace(msg.Text)
	lower := strings.ToLower(text)
	replyTo := ReplyTarget(lower, prior)

	kp := core.KeyPoint{
		Type:         core.PointOther,
		Text:         text,
		Sender:       msg.Sender,
		ReplyTo:      replyTo,
		Conversation: cc,
	}

	for _, rule := range classificationRules {
		if rule.NeedsReply && replyTo == "" {
			continue
		}
		if !rule.Match(lower) {
			continue
		}
		kp.Type = rule.Type
		break
	}

	switch kp.Type {
	case core.PointAssignment:
		kp.Attributes.Assignment = assignmentNumber(text)
	case core.PointTechnicalIssue:
		kp.Attributes.Tool = c.vocab.First(lower)
	case core.PointResponse:
		kp.IsResponse = true
	}
	return kp
}

// Extract classifies a bucket in order. Messages whose trimmed text was
// already seen in this pass are skipped; the first occurrence wins.
func (c *Classifier) Extract(msgs []core.Message, cc *core.ConversationContext) []core.KeyPoint {
	points := make([]core.KeyPoint, 0, len(msgs))
	seen := make(map[string]bool, len(msgs))

	for i, msg := range msgs {
		text := strings.TrimSpace(msg.Text)
		if seen[text] {
			continue
		}
		seen[text] = true
		points = append(points, c.Classify(msg, msgs[:i], cc))
	}
	return points
}

// ReplyTarget scans prior messages, newest first, for a sender that
// lowerText mentions as @sender. It returns "" when nobody is mentioned.
func ReplyTarget(lowerText string, prior []core.Message) string {
	if !strings.Contains(lowerText, "@") {
		return ""
	}
	for i := len(prior) - 1; i >= 0; i-- {
		sender := prior[i].Sender
		if sender == "" {
			continue
		}
		if strings.Contains(lowerText, "@"+strings.ToLower(sender)) {
			return sender
		}
	}
	return ""
}

func assignmentNumber(text string) string {
	m := assignmentNumberRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
