package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "100MB", want: 100 * 1000 * 1000},
		{in: "100MiB", want: 100 * 1024 * 1024},
		{in: "4096", want: 4096},
		{in: " 1 GiB ", want: 1 << 30},
		{in: "", wantErr: true},
		{in: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(-5))
	assert.Equal(t, "1.0 KiB", FormatSize(1024))
	assert.Equal(t, "100 MiB", FormatSize(100*1024*1024))
	assert.Equal(t, "1,048,576", FormatCount(1<<20))
}

func TestFromOS(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, statErr := os.Stat(missing)

	tests := []struct {
		name   string
		err    error
		kind   error
		reason string
	}{
		{name: "not exist", err: statErr, kind: ErrNotFound, reason: ReasonNotFound},
		{name: "permission", err: &fs.PathError{Op: "unlinkat", Path: "/x", Err: fs.ErrPermission}, kind: ErrPermissionDenied, reason: ReasonPermissionDenied},
		{name: "other", err: errors.New("disk on fire"), kind: ErrIO, reason: ReasonIOError},
		{name: "already classified", err: fmt.Errorf("%w: moved", ErrSafetyRevoked), kind: ErrSafetyRevoked, reason: ReasonSafetyRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromOS("/some/path", tt.err)
			assert.ErrorIs(t, got, tt.kind)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.reason, ReasonOf(got))
		})
	}

	assert.NoError(t, FromOS("/x", nil))
	assert.Empty(t, ReasonOf(nil))
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")
	assert.Nil(t, Wrap(nil, "ctx"))
	assert.EqualError(t, Wrap(base, "ctx"), "ctx: boom")
	assert.EqualError(t, Wrapf(base, "item %d", 3), "item 3: boom")
	assert.ErrorIs(t, Wrapf(base, "item %d", 3), base)
}

func TestGetDiskSpace(t *testing.T) {
	space, err := GetDiskSpace(t.TempDir())
	require.NoError(t, err)
	assert.NotZero(t, space.Total)
	assert.LessOrEqual(t, space.Free, space.Total)
	assert.NotEmpty(t, PlatformString())
}
