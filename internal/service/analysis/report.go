package analysis

import (
	"fmt"
	"strings"

	"github.com/sandevgo/chatlens/internal/core"
)

const unknownChatTitle = "Unknown Chat"

type Formatter struct {
	grouper *Grouper
}

func NewFormatter(grouper *Grouper) *Formatter {
	return &Formatter{grouper: grouper}
}

// Summary renders the categorized key-point report. label names the
// period, e.g. "today" or a DD/MM/YYYY key.
func (f *Formatter) Summary(points []core.KeyPoint, label string) string {
	if len(points) == 0 {
		return fmt.Sprintf("No key points found in the conversation for %s.", label)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Chat: %s\n", titleOf(points[0].Conversation))
	fmt.Fprintf(&sb, "Here's a breakdown of the key action items from %s:\n\n", label)

	buckets := make([][]string, len(displayCategories)+1)
	for _, group := range f.grouper.Group(points) {
		idx := categoryIndex(strings.ToLower(group.Main.Text))
		buckets[idx] = append(buckets[idx], groupText(group))
	}

	var lines []string
	for i, items := range buckets {
		if len(items) == 0 {
			continue
		}
		header := otherCategoryHeader
		if i < len(displayCategories) {
			header = displayCategories[i].Header
		}
		lines = append(lines, header)
		for _, item := range items {
			lines = append(lines, "* "+item)
		}
		lines = append(lines, "")
	}

	sb.WriteString(strings.TrimSpace(strings.Join(lines, "\n")))
	return sb.String()
}

// categoryIndex returns the display bucket for a main point; the last
// index is "other".
func categoryIndex(lower string) int {
	for i, c := range displayCategories {
		if c.Match(lower) {
			return i
		}
	}
	return len(displayCategories)
}

func groupText(g core.Group) string {
	main := g.Main
	mention := "[" + main.Sender + "]"

	var text string
	switch main.Type {
	case core.PointTechnicalIssue:
		var details []string
		for _, p := range g.Points {
			if !p.IsResponse {
				details = append(details, p.Text)
			}
		}
		text = fmt.Sprintf("%s is reporting an issue with %s. %s",
			mention, issueTopic(strings.ToLower(main.Text)), summarize(strings.Join(details, " ")))
	case core.PointAssignment:
		text = mention + " " + summarize(main.Text)
	case core.PointQuestion:
		text = mention + " is asking " + summarize(main.Text)
	default:
		text = mention + " " + strings.TrimSpace(strings.Replace(main.Text, mention, "", 1))
	}

	var responses []string
	for _, p := range g.Responses() {
		responses = append(responses, p.Sender+" "+summarize(p.Text))
	}
	if len(responses) > 0 {
		text += "\n  → " + strings.Join(responses, ", and ")
	}
	return text
}

func titleOf(cc *core.ConversationContext) string {
	if cc == nil || cc.Title == "" {
		return unknownChatTitle
	}
	return cc.Title
}
