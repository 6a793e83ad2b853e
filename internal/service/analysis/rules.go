package analysis

import (
	"strings"

	"github.com/sandevgo/chatlens/internal/core"
)

// matcher tests lowercased, trimmed message text.
type matcher func(lower string) bool

func containsAny(terms ...string) matcher {
	return func(lower string) bool {
		for _, t := range terms {
			if strings.Contains(lower, t) {
				return true
			}
		}
		return false
	}
}

func containsAll(terms ...string) matcher {
	return func(lower string) bool {
		for _, t := range terms {
			if !strings.Contains(lower, t) {
				return false
			}
		}
		return true
	}
}

func endsWith(suffix string) matcher {
	return func(lower string) bool {
		return strings.HasSuffix(lower, suffix)
	}
}

func anyOf(ms ...matcher) matcher {
	return func(lower string) bool {
		for _, m := range ms {
			if m(lower) {
				return true
			}
		}
		return false
	}
}

// classRule is one row of the classification table. Rows are tried in
// order and the first match wins.
type classRule struct {
	Type core.PointType
	// NeedsReply limits the rule to messages with a resolved reply target.
	NeedsReply bool
	Match      matcher
}

var classificationRules = []classRule{
	{
		Type: core.PointAssignment,
		Match: anyOf(
			containsAny("assignment", "demo file"),
			containsAll("submit", "email"),
		),
	},
	{
		Type: core.PointTechnicalIssue,
		Match: anyOf(
			containsAny("error", "issue", "bug", "not working"),
			containsAll("getting", "value error"),
		),
	},
	{
		Type:       core.PointResponse,
		NeedsReply: true,
		Match:      containsAny("you can", "try", "solution", "answer"),
	},
	{
		Type: core.PointQuestion,
		Match: anyOf(
			endsWith("?"),
			containsAny("can someone", "please confirm", "any suggestion"),
		),
	},
}

var (
	jobKeywords        = containsAny("hiring", "job", "position", "vacancy", "career", "opportunity", "resume", "cv", "recruitment")
	assignmentKeywords = containsAny("assignment", "homework", "submission", "due date", "deadline")
	technicalKeywords  = containsAny("error", "bug", "issue", "problem", "not working", "failed")
	announceKeywords   = containsAny("announcement", "attention", "notice", "update", "important")
)

// section is a titled bucket of a rendered report.
type section struct {
	Header string
	Match  matcher
}

// displayCategories bucket groups by their main point text, in priority order.
var displayCategories = []section{
	{Header: "**Job Postings & Career Updates:**", Match: jobKeywords},
	{Header: "**Assignment Updates:**", Match: assignmentKeywords},
	{Header: "**Technical Issues:**", Match: technicalKeywords},
	{Header: "**Announcements:**", Match: announceKeywords},
}

const otherCategoryHeader = "**Other Updates:**"

const (
	sentimentTechnical = iota
	sentimentAssignment
	sentimentQuestion
	sentimentPositive
	sentimentGeneral
)

// sentimentBuckets bucket raw messages for the sentiment report, in
// priority order. Anything unmatched is general discussion.
var sentimentBuckets = []section{
	sentimentTechnical:  {Header: "**Technical Concerns:**", Match: technicalKeywords},
	sentimentAssignment: {Header: "**Assignment-Related:**", Match: assignmentKeywords},
	sentimentQuestion:   {Header: "**Questions/Help Seeking:**", Match: anyOf(endsWith("?"), containsAny("anyone", "help"))},
	sentimentPositive:   {Header: "**Positive Responses/Solutions:**", Match: containsAny("thank", "solved", "works")},
}

const generalSectionHeader = "**General Discussion:**"

// issueTopics name the subject of a technical issue, first match wins.
var issueTopics = []struct {
	Term   string
	Phrase string
}{
	{"paint", "the Paint tool functionality"},
	{"pydantic", "the Pydantic implementation"},
	{"error", "error handling"},
	{"file", "file operations"},
}

const defaultIssueTopic = "the implementation"

func issueTopic(lower string) string {
	for _, t := range issueTopics {
		if strings.Contains(lower, t.Term) {
			return t.Phrase
		}
	}
	return defaultIssueTopic
}
