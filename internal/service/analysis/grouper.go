package analysis

import (
	"strings"

	"github.com/sandevgo/chatlens/internal/core"
)

// Grouper clusters key points around a main point in a single pass.
//
// Relation is checked against the group's main point only and is not
// transitive: if A relates to B and B to C, C still starts its own group
// unless it relates to A directly.
type Grouper struct {
	vocab *Vocabulary
}

func NewGrouper(vocab *Vocabulary) *Grouper {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Grouper{vocab: vocab}
}

func (g *Grouper) Group(points []core.KeyPoint) []core.Group {
	placed := make([]bool, len(points))
	var groups []core.Group

	for i, main := range points {
		if placed[i] {
			continue
		}
		placed[i] = true
		group := core.Group{Main: main, Points: []core.KeyPoint{main}}

		for j := i + 1; j < len(points); j++ {
			if placed[j] || !g.Related(main, points[j]) {
				continue
			}
			group.Points = append(group.Points, points[j])
			placed[j] = true
		}
		groups = append(groups, group)
	}
	return groups
}

// Related reports whether other belongs in the group led by main.
func (g *Grouper) Related(main, other core.KeyPoint) bool {
	if main.Type == core.PointAssignment && other.Type == core.PointAssignment &&
		main.Attributes.Assignment != "" && main.Attributes.Assignment == other.Attributes.Assignment {
		return true
	}
	if other.ReplyTo != "" && other.ReplyTo == main.Sender {
		return true
	}
	return g.vocab.Shared(strings.ToLower(main.Text), strings.ToLower(other.Text))
}
