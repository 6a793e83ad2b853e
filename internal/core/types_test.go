package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_Responses(t *testing.T) {
	point := func(sender string, response bool) KeyPoint {
		return KeyPoint{Sender: sender, IsResponse: response}
	}
	senders := func(points []KeyPoint) []string {
		var out []string
		for _, p := range points {
			out = append(out, p.Sender)
		}
		return out
	}

	tests := []struct {
		name   string
		points []KeyPoint
		want   []string
	}{
		{"empty group", nil, nil},
		{"main only", []KeyPoint{point("Ann", false)}, nil},
		{"main that is itself a reply", []KeyPoint{point("Ann", true)}, nil},
		{
			name:   "main reply with attached responses",
			points: []KeyPoint{point("Ann", true), point("Bob", true), point("Cid", false), point("Dee", true)},
			want:   []string{"Bob", "Dee"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Group{Points: tt.points}
			if len(tt.points) > 0 {
				g.Main = tt.points[0]
			}
			assert.Equal(t, tt.want, senders(g.Responses()))
		})
	}
}
