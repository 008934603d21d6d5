package leaderboard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestAddStampsUTC(t *testing.T) {
	s := newTestStore()
	rec, err := s.Add(Submission{Username: "ace", Score: 120})
	require.NoError(t, err)

	assert.Equal(t, t0, rec.Timestamp)
	assert.Equal(t, 1, s.Len())
}

func TestAddRejectsInvalid(t *testing.T) {
	s := newTestStore()
	_, err := s.Add(Submission{Username: "", Score: 1})
	assert.ErrorIs(t, err, ErrInvalidUsername)
	assert.Zero(t, s.Len())
}

func TestSnapshotRestoresRecords(t *testing.T) {
	s := newTestStore()
	for _, sub := range []Submission{{"a", 1}, {"b", 2}} {
		_, err := s.Add(sub)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	restored := NewStore()
	require.NoError(t, restored.Load(&buf))

	want, _ := s.Page(1, DateAsc)
	got, _ := restored.Page(1, DateAsc)
	assert.Equal(t, want, got)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	data, err := msgpack.Marshal(snapshot{Version: 99})
	require.NoError(t, err)

	assert.Error(t, NewStore().Load(bytes.NewReader(data)))
}

func TestOpenStorePersistsEveryRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.msgpack")

	s, err := OpenStore(path)
	require.NoError(t, err)
	_, err = s.Add(Submission{Username: "ace", Score: 300})
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	records, err := reopened.Page(1, ScoreDesc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ace", records[0].Username)
	assert.Equal(t, 300, records[0].Score)
}
