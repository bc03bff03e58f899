package classic

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/selection"
)

type allowAll struct{}

func (allowAll) Classify(string) safety.Verdict { return safety.Verdict{Decision: safety.Allow} }

type stubDeleter struct {
	fail  map[string]bool
	calls []string
}

func (d *stubDeleter) Delete(_ context.Context, c *scan.Candidate) clean.Result {
	d.calls = append(d.calls, c.Path)
	if d.fail[c.Path] {
		return clean.Result{Candidate: c, Err: fmt.Errorf("%w: %s", core.ErrPermissionDenied, c.Path)}
	}
	return clean.Result{Candidate: c, Freed: c.Size}
}

func fixture() *scan.Set {
	set := scan.NewSet()
	set.Add(&scan.Candidate{Path: "/home/ada/Library/Caches", Size: 3 << 30, Category: "system"})
	set.Add(&scan.Candidate{Path: "/home/ada/.npm/_cacache", Size: 2 << 30, Category: "dev"})
	set.Add(&scan.Candidate{Path: "/srv/build/target", Size: 1 << 30, Category: "project", Partial: true})
	return set
}

func run(t *testing.T, input string, d *stubDeleter) (clean.Summary, string, *selection.Classic) {
	t.Helper()
	var out bytes.Buffer
	ctl := selection.NewClassic(fixture(), allowAll{})
	sum, err := New(strings.NewReader(input), &out, Options{Home: "/home/ada"}).Run(context.Background(), ctl, d)
	require.NoError(t, err)
	return sum, out.String(), ctl
}

func TestRun_ListingShowsTotals(t *testing.T) {
	_, out, _ := run(t, "q\n", &stubDeleter{})

	assert.Contains(t, out, "Reclaimable space: 6.0 GiB in 3 location(s)")
	assert.Contains(t, out, "1.    3.0 GiB  system    ~/Library/Caches")
	assert.Contains(t, out, "3.    1.0 GiB  project   /srv/build/target  (partial)")
	assert.Contains(t, out, "Total: 6.0 GiB")
	assert.Contains(t, out, "Cancelled. Nothing was deleted.")
}

func TestRun_DeletesConfirmedSelection(t *testing.T) {
	d := &stubDeleter{fail: map[string]bool{"/home/ada/.npm/_cacache": true}}
	sum, out, ctl := run(t, "1 2\nDELETE\n", d)

	assert.Equal(t, []string{"/home/ada/Library/Caches", "/home/ada/.npm/_cacache"}, d.calls)
	assert.Len(t, sum.Deleted, 1)
	require.Len(t, sum.Failed, 1)
	assert.Equal(t, core.ReasonPermissionDenied, sum.Failed[0].Reason())
	assert.Equal(t, selection.StageDone, ctl.Stage())

	assert.Contains(t, out, "About to delete 2 item(s), 5.0 GiB.")
	assert.Contains(t, out, "✓ ~/Library/Caches (3.0 GiB)")
	assert.Contains(t, out, "✗ ~/.npm/_cacache: permission_denied")
	assert.Contains(t, out, "Freed 3.0 GiB: 1 deleted, 1 failed")
}

// interruptingDeleter cancels the session after its first removal and
// refuses to touch anything once the context is done.
type interruptingDeleter struct {
	cancel  context.CancelFunc
	removed []string
}

func (d *interruptingDeleter) Delete(ctx context.Context, c *scan.Candidate) clean.Result {
	if err := ctx.Err(); err != nil {
		return clean.Result{Candidate: c, Err: fmt.Errorf("%w: %s: %w", core.ErrIO, c.Path, err)}
	}
	d.removed = append(d.removed, c.Path)
	d.cancel()
	return clean.Result{Candidate: c, Freed: c.Size}
}

func TestRun_InterruptStopsBatchBetweenItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := &interruptingDeleter{cancel: cancel}

	var out bytes.Buffer
	ctl := selection.NewClassic(fixture(), allowAll{})
	sum, err := New(strings.NewReader("all\nDELETE\n"), &out, Options{Home: "/home/ada"}).Run(ctx, ctl, d)
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/ada/Library/Caches"}, d.removed)
	assert.Len(t, sum.Deleted, 1)
	require.Len(t, sum.Failed, 2)
	assert.Equal(t, core.ReasonIOError, sum.Failed[0].Reason())
	assert.Contains(t, out.String(), "1 deleted, 2 failed")
}

func TestRun_InvalidSelectionReprompts(t *testing.T) {
	d := &stubDeleter{}
	sum, out, _ := run(t, "1 9\n\n3\nDELETE\n", d)

	assert.Contains(t, out, `invalid selection: "9"`)
	assert.Contains(t, out, "invalid selection: empty selection")
	assert.Equal(t, []string{"/srv/build/target"}, d.calls)
	assert.Len(t, sum.Deleted, 1)
}

func TestRun_WrongConfirmationCancels(t *testing.T) {
	d := &stubDeleter{}
	sum, out, ctl := run(t, "all\n\ndelete\n", d)

	assert.Empty(t, d.calls)
	assert.Empty(t, sum.Deleted)
	assert.True(t, ctl.Cancelled())
	assert.Contains(t, out, "About to delete 3 item(s), 6.0 GiB.")
	assert.Contains(t, out, "Cancelled. Nothing was deleted.")
	for _, c := range ctl.Items() {
		assert.Equal(t, scan.StatePending, c.State)
	}
}

func TestRun_EndOfInputCancels(t *testing.T) {
	for _, input := range []string{"", "2\n"} {
		d := &stubDeleter{}
		_, out, _ := run(t, input, d)
		assert.Empty(t, d.calls, "input %q", input)
		assert.Contains(t, out, "Cancelled.")
	}
}

func TestRun_FinalLineWithoutNewline(t *testing.T) {
	d := &stubDeleter{}
	_, _, _ = run(t, "3\nDELETE", d)
	assert.Equal(t, []string{"/srv/build/target"}, d.calls)
}

func TestRun_EmptySet(t *testing.T) {
	var out bytes.Buffer
	ctl := selection.NewClassic(scan.NewSet(), allowAll{})
	_, err := New(strings.NewReader(""), &out, Options{}).Run(context.Background(), ctl, &stubDeleter{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Nothing to clean.")
}

func TestPrintSummary_DryRun(t *testing.T) {
	var out bytes.Buffer
	New(strings.NewReader(""), &out, Options{}).PrintSummary(clean.Summary{Freed: 1 << 20, DryRun: true})
	assert.Contains(t, out.String(), "Would free 1.0 MiB: 0 deleted, 0 failed")
}
