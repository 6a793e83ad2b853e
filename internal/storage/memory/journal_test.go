package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	appended []string
	trims    map[string]int
	cutoffs  []int64
	load     map[string][]core.Message
}

func (f *fakeJournal) Append(_ context.Context, chatID string, msg core.Message) error {
	f.appended = append(f.appended, chatID+"/"+msg.ID)
	return nil
}

func (f *fakeJournal) Trim(_ context.Context, chatID string, keep int) error {
	if f.trims == nil {
		f.trims = make(map[string]int)
	}
	f.trims[chatID] = keep
	return nil
}

func (f *fakeJournal) PurgeBefore(_ context.Context, cutoff int64) error {
	f.cutoffs = append(f.cutoffs, cutoff)
	return nil
}

func (f *fakeJournal) Load(_ context.Context, _ int) (map[string][]core.Message, error) {
	return f.load, nil
}

func (f *fakeJournal) SaveContext(context.Context, core.ConversationContext) error { return nil }

func (f *fakeJournal) LoadContexts(context.Context) ([]core.ConversationContext, error) {
	return nil, nil
}

func TestStore_JournalMirrorsMutations(t *testing.T) {
	j := &fakeJournal{}
	s := newTestStore(WithCapacity(2), WithJournal(j))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.AddMessage(ctx, "c1", msgAt(fmt.Sprint(i), noon)))
	}
	_ = s.AddMessage(ctx, "c1", msgAt("3", noon)) // duplicate, not journaled
	s.PurgeOlderThan(ctx, time.Hour)

	assert.Equal(t, []string{"c1/1", "c1/2", "c1/3"}, j.appended)
	assert.Equal(t, map[string]int{"c1": 2}, j.trims)
	assert.Equal(t, []int64{noon.Add(-time.Hour).UnixMilli()}, j.cutoffs)
}

func TestStore_Restore(t *testing.T) {
	j := &fakeJournal{load: map[string][]core.Message{
		"c1": {
			msgAt("1", noon.Add(-48*time.Hour)),
			msgAt("2", noon),
			msgAt("3", noon),
			msgAt("3", noon),
		},
	}}
	s := newTestStore(WithCapacity(2), WithJournal(j))

	n, err := s.Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"2", "3"}, idsOf(s.GetMessages("c1", "")))
	assert.Empty(t, j.appended, "restore must not write back")
}
