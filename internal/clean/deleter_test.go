package clean

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockclean "github.com/lakshaymaurya-felt/cachemole/internal/clean/mocks"
	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

func makeCandidate(t *testing.T, parent, name string, size int) *scan.Candidate {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob"), make([]byte, size), 0o644))
	return &scan.Candidate{Path: dir, Size: int64(size), Category: config.CategoryDev}
}

func assertNoTombstones(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), tombstoneTag)
	}
}

func TestDelete_RemovesDirectory(t *testing.T) {
	root := t.TempDir()
	c := makeCandidate(t, root, "cache", 64)

	res := NewDeleter(safety.New(nil, root)).Delete(context.Background(), c)

	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, int64(64), res.Freed)
	assert.NoDirExists(t, c.Path)
	assertNoTombstones(t, root)
	assert.Equal(t, scan.StatePending, c.State, "deleter leaves the lifecycle to callers")
}

func TestDelete_FailureReasons(t *testing.T) {
	root := t.TempDir()
	guarded := makeCandidate(t, root, "guarded", 1)

	tests := []struct {
		name   string
		c      *scan.Candidate
		reason string
	}{
		{
			name:   "already removed",
			c:      &scan.Candidate{Path: filepath.Join(root, "gone"), Size: 1},
			reason: core.ReasonNotFound,
		},
		{
			name:   "protected since scan",
			c:      guarded,
			reason: core.ReasonSafetyRevoked,
		},
	}

	d := NewDeleter(safety.New([]string{guarded.Path}, root))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Delete(context.Background(), tt.c)
			assert.False(t, res.OK())
			assert.Equal(t, tt.reason, res.Reason())
			assert.Zero(t, res.Freed)
		})
	}
	assert.DirExists(t, guarded.Path)
}

func TestDelete_ProjectAgeRechecked(t *testing.T) {
	root := t.TempDir()
	c := makeCandidate(t, root, "node_modules", 10)
	c.Category = config.CategoryProject

	now := time.Now()
	d := NewDeleter(safety.New(nil, root), WithMinAge(24*time.Hour), WithClock(func() time.Time { return now }))

	// touched after the scan
	res := d.Delete(context.Background(), c)
	assert.Equal(t, core.ReasonSafetyRevoked, res.Reason())
	assert.DirExists(t, c.Path)

	old := now.Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(c.Path, "blob"), old, old))
	require.NoError(t, os.Chtimes(c.Path, old, old))

	res = d.Delete(context.Background(), c)
	require.True(t, res.OK(), "%v", res.Err)
	assert.NoDirExists(t, c.Path)
}

func TestDelete_DryRun(t *testing.T) {
	root := t.TempDir()
	c := makeCandidate(t, root, "cache", 32)

	ctrl := gomock.NewController(t)
	rm := mockclean.NewMockRemover(ctrl)

	d := NewDeleter(safety.New(nil, root), WithDryRun(true), WithRemover(rm))
	res := d.Delete(context.Background(), c)

	require.True(t, res.OK())
	assert.True(t, res.DryRun)
	assert.Equal(t, int64(32), res.Freed)
	assert.DirExists(t, c.Path)
	assert.True(t, d.DryRun())
}

func TestDelete_CancelledNeverTouchesDisk(t *testing.T) {
	root := t.TempDir()
	c := makeCandidate(t, root, "cache", 1)

	ctrl := gomock.NewController(t)
	rm := mockclean.NewMockRemover(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewDeleter(safety.New(nil, root), WithRemover(rm)).Delete(ctx, c)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.DirExists(t, c.Path)
}

func TestDelete_PurgeFailureRestoresDirectory(t *testing.T) {
	root := t.TempDir()
	c := makeCandidate(t, root, "cache", 8)

	ctrl := gomock.NewController(t)
	rm := mockclean.NewMockRemover(ctrl)

	var tomb string
	gomock.InOrder(
		rm.EXPECT().Rename(c.Path, gomock.Any()).DoAndReturn(func(oldpath, newpath string) error {
			tomb = newpath
			return os.Rename(oldpath, newpath)
		}),
		rm.EXPECT().RemoveAll(gomock.Any()).Return(&fs.PathError{Op: "unlinkat", Path: "blob", Err: errors.New("device busy")}),
		rm.EXPECT().Rename(gomock.Any(), c.Path).DoAndReturn(os.Rename),
	)

	res := NewDeleter(safety.New(nil, root), WithRemover(rm)).Delete(context.Background(), c)

	assert.Equal(t, core.ReasonIOError, res.Reason())
	assert.DirExists(t, c.Path)
	assert.True(t, strings.HasPrefix(filepath.Base(tomb), ".cache"+tombstoneTag), tomb)
	assert.Equal(t, root, filepath.Dir(tomb))
	assertNoTombstones(t, root)
}

func TestDeleteBatch_PartialFailure(t *testing.T) {
	root := t.TempDir()
	cs := []*scan.Candidate{
		makeCandidate(t, root, "one", 100),
		makeCandidate(t, root, "two", 200),
		makeCandidate(t, root, "three", 300),
	}

	ctrl := gomock.NewController(t)
	rm := mockclean.NewMockRemover(ctrl)

	gomock.InOrder(
		rm.EXPECT().Rename(cs[0].Path, gomock.Any()).DoAndReturn(os.Rename),
		rm.EXPECT().RemoveAll(gomock.Any()).DoAndReturn(os.RemoveAll),
		rm.EXPECT().Rename(cs[1].Path, gomock.Any()).Return(&fs.PathError{Op: "rename", Path: cs[1].Path, Err: fs.ErrPermission}),
		rm.EXPECT().Rename(cs[2].Path, gomock.Any()).DoAndReturn(os.Rename),
		rm.EXPECT().RemoveAll(gomock.Any()).DoAndReturn(os.RemoveAll),
	)

	sum := NewDeleter(safety.New(nil, root), WithRemover(rm)).DeleteBatch(context.Background(), cs)

	assert.Equal(t, []*scan.Candidate{cs[0], cs[2]}, sum.Deleted)
	require.Len(t, sum.Failed, 1)
	assert.Equal(t, cs[1], sum.Failed[0].Candidate)
	assert.Equal(t, core.ReasonPermissionDenied, sum.Failed[0].Reason())
	assert.ErrorIs(t, sum.Failed[0].Err, core.ErrPermissionDenied)
	assert.Equal(t, int64(400), sum.Freed)

	assert.NoDirExists(t, cs[0].Path)
	assert.DirExists(t, cs[1].Path)
	assert.NoDirExists(t, cs[2].Path)
	assertNoTombstones(t, root)
}

func TestTombstonePath(t *testing.T) {
	at := time.Unix(0, 1234)
	tomb := tombstonePath("/a/b/node_modules/", at)
	assert.Equal(t, "/a/b/.node_modules.cmole-1234", tomb)
	assert.True(t, isTombstone(filepath.Base(tomb)))
	assert.False(t, isTombstone("node_modules.cmole-1234"))
	assert.False(t, isTombstone(".cache.cmole-"))
	assert.False(t, isTombstone(".cache.cmole-12x"))
}

func TestDelete_SweepsInterruptedRemovals(t *testing.T) {
	root := t.TempDir()
	c := makeCandidate(t, root, "node_modules", 16)

	// left by a removal that was cut short
	stale := filepath.Join(root, ".node_modules"+tombstoneTag+"99")
	require.NoError(t, os.MkdirAll(filepath.Join(stale, "half"), 0o755))
	guarded := filepath.Join(root, ".keep"+tombstoneTag+"7")
	require.NoError(t, os.MkdirAll(guarded, 0o755))
	lookalike := filepath.Join(root, ".notes.cmole-draft")
	require.NoError(t, os.MkdirAll(lookalike, 0o755))

	res := NewDeleter(safety.New([]string{guarded}, root)).Delete(context.Background(), c)

	require.True(t, res.OK(), "%v", res.Err)
	assert.NoDirExists(t, c.Path)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, guarded)
	assert.DirExists(t, lookalike)
}

func TestDelete_LogsOutcomeAtDebugOnly(t *testing.T) {
	var buf bytes.Buffer
	logger.SetTestOutput(&buf)
	defer logger.UnsetTestOutput()
	logger.InitLogger("info", logger.FormatText)

	root := t.TempDir()
	c := makeCandidate(t, root, "cache", 4)
	res := NewDeleter(safety.New(nil, root)).Delete(context.Background(), c)

	require.True(t, res.OK(), "%v", res.Err)
	assert.Empty(t, buf.String(), "the UI reports each outcome itself")
}
