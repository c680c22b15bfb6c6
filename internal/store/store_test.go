package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxhoundv/wingmix/internal/automation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSeq() *automation.Sequence {
	return &automation.Sequence{
		InitialState: automation.InitialState{"ch_1_fader": -10},
		Events: []automation.Event{
			{Timestamp: 0.5, ChannelType: automation.ChannelTypeChannel, ChannelNum: 1, ParamType: automation.ParamTypeFader, Value: -5},
			{Timestamp: 1, ChannelType: automation.ChannelTypeChannel, ChannelNum: 1, ParamType: automation.ParamTypeMute, Value: 1},
		},
		Duration: 1,
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSaveGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entry, err := s.Save(ctx, "soundcheck", testSeq())
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "soundcheck", entry.Name)
	assert.Equal(t, 1.0, entry.Duration)
	assert.Equal(t, 2, entry.EventCount)
	assert.False(t, entry.CreatedAt.IsZero())

	got, seq, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, testSeq(), seq, "stored sequence survives the round trip unchanged")

	_, seq2, err := s.GetByName(ctx, "soundcheck")
	require.NoError(t, err)
	assert.Equal(t, seq, seq2)
}

func TestSave_ReplaceKeepsID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "soundcheck", testSeq())
	require.NoError(t, err)

	replacement := &automation.Sequence{Duration: 2.5}
	second, err := s.Save(ctx, "soundcheck", replacement)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-saving a name replaces the body, not the entry")
	assert.Equal(t, 2.5, second.Duration)
	assert.Equal(t, 0, second.EventCount)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_Rejects(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "", testSeq())
	assert.ErrorContains(t, err, "empty name")

	bad := testSeq()
	bad.Duration = 0.1 // shorter than the last event
	_, err = s.Save(ctx, "bad", bad)
	assert.Error(t, err)
}

func TestList_Ordered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "alpha", "mid"} {
		_, err := s.Save(ctx, name, testSeq())
		require.NoError(t, err)
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zebra", entries[2].Name)
}

func TestList_EmptyLibrary(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Get(ctx, "no-such-id")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = s.GetByName(ctx, "no-such-name")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "soundcheck", testSeq())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "soundcheck"))
	_, _, err = s.GetByName(ctx, "soundcheck")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.Delete(ctx, "soundcheck")
	assert.True(t, errors.Is(err, ErrNotFound))
}
