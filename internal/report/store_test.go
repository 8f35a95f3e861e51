package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/raster"
)

func renderedBitmap() *raster.Bitmap {
	bm := raster.New(8, 8)
	bm.Set(4, 4)
	return bm
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := openStore(t)
	run := fixedRun()
	require.NoError(t, s.Save(run, "fern.png"))

	rep, err := s.Get(run.ID)
	require.NoError(t, err)

	want := FromRun(run, "fern.png")
	assert.Equal(t, want.RunID, rep.RunID)
	assert.Equal(t, want.Source, rep.Source)
	assert.Equal(t, want.Verdict, rep.Verdict)
	assert.Equal(t, want.Original, rep.Original)
	assert.Equal(t, want.Cycles, rep.Cycles)
	assert.Equal(t, want.Attempts, rep.Attempts)
	require.NotNil(t, rep.Selected)
	assert.Equal(t, *want.Selected, *rep.Selected)
	assert.True(t, rep.StartedAt.Equal(want.StartedAt))
	assert.True(t, rep.FinishedAt.Equal(want.FinishedAt))
}

func TestGetMissingRun(t *testing.T) {
	s := openStore(t)
	_, err := s.Get("no-such-run")
	assert.Error(t, err)
}

func TestSaveRunWithoutSelection(t *testing.T) {
	s := openStore(t)
	run := fixedRun()
	run.ID = "run-0002"
	run.Selected = -1
	run.Verdict = engine.VerdictExhausted
	require.NoError(t, s.Save(run, ""))

	rep, err := s.Get(run.ID)
	require.NoError(t, err)
	assert.Nil(t, rep.Selected)
	assert.Equal(t, engine.VerdictExhausted, rep.Verdict)
}

func TestLatestPicksNewestRun(t *testing.T) {
	s := openStore(t)

	older := fixedRun()
	older.ID = "run-old"
	newer := fixedRun()
	newer.ID = "run-new"
	newer.StartedAt = older.StartedAt.Add(time.Minute)
	newer.FinishedAt = older.FinishedAt.Add(time.Minute)

	require.NoError(t, s.Save(older, "a.png"))
	require.NoError(t, s.Save(newer, "b.png"))

	rep, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "run-new", rep.RunID)
	assert.NotEmpty(t, rep.Attempts, "Latest loads attempts")
}

func TestListOrdersAndLimits(t *testing.T) {
	s := openStore(t)
	base := fixedRun()
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		run := base
		run.ID = id
		run.FinishedAt = base.FinishedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Save(run, ""))
	}

	reports, err := s.List(2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "run-3", reports[0].RunID)
	assert.Equal(t, "run-2", reports[1].RunID)
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()

	run := fixedRun()
	run.Attempts[1].Rendered = renderedBitmap()
	path, err := WriteArtifact(run, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, run.ID+".png"), path)
	assert.FileExists(t, path)
}

func TestWriteArtifactNoSelection(t *testing.T) {
	run := fixedRun()
	run.Selected = -1
	path, err := WriteArtifact(run, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}
