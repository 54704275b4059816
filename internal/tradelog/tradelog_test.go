package tradelog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesDailyJSONLines(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, time.UTC)
	j.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }

	require.NoError(t, j.Append(context.Background(), Entry{RequestID: "a", Question: "AAPL?", Score: 72, Rating: "Buy"}))
	require.NoError(t, j.Append(context.Background(), Entry{RequestID: "b", Question: "MSFT?"}))

	f, err := os.Open(filepath.Join(dir, "decisions", "2026-03-02.txt"))
	require.NoError(t, err)
	defer f.Close()

	var got []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		got = append(got, e)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-02 09:30:00", got[0].Time)
	assert.Equal(t, 72, got[0].Score)
	assert.Equal(t, "b", got[1].RequestID)
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, time.UTC)
	require.NoError(t, j.Append(context.Background(), Entry{RequestID: "old"}))

	p := j.path(time.Now())
	old := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(p, old, old))

	require.NoError(t, j.CompressOlder(7))
	_, err := os.Stat(p)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(p + ".gz")
	assert.NoError(t, err)

	assert.NoError(t, j.CompressOlder(0))
}
