package safety

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
)

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(p, 0o755))
	return p
}

func TestClassify_ProtectedRelations(t *testing.T) {
	home := t.TempDir()
	keychains := mkdir(t, home, "Library", "Keychains", "login")
	caches := mkdir(t, home, "Library", "Caches", "com.example.app")
	appleSupport := mkdir(t, home, "Library", "Application Support", "com.apple.TextEdit")
	otherSupport := mkdir(t, home, "Library", "Application Support", "Slack", "Cache")

	g := New([]string{
		"~/Library/Keychains",
		"~/Library/Application Support/com.apple.*",
	}, home)

	tests := []struct {
		name    string
		path    string
		allowed bool
	}{
		{name: "equal", path: filepath.Join(home, "Library", "Keychains"), allowed: false},
		{name: "descendant", path: keychains, allowed: false},
		{name: "ancestor", path: filepath.Join(home, "Library"), allowed: false},
		{name: "home itself", path: home, allowed: false},
		{name: "glob component", path: appleSupport, allowed: false},
		{name: "unrelated sibling", path: caches, allowed: true},
		{name: "glob does not overmatch", path: otherSupport, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Classify(tt.path)
			assert.Equal(t, tt.allowed, v.Allowed(), v.Reason)
			if !tt.allowed {
				assert.NotEmpty(t, v.Reason)
			}
		})
	}
}

func TestClassify_Reasons(t *testing.T) {
	home := t.TempDir()
	mkdir(t, home, "secret", "inner")
	g := New([]string{"~/secret"}, home)

	assert.Contains(t, g.Classify(home).Reason, "contains protected")
	assert.Contains(t, g.Classify(filepath.Join(home, "secret", "inner")).Reason, "inside protected")
	assert.Contains(t, g.Classify(filepath.Join(home, "secret")).Reason, "protected path")
}

func TestClassify_Filesystem(t *testing.T) {
	root := t.TempDir()
	dir := mkdir(t, root, "cache")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(dir, link))

	g := New(nil, root)

	assert.True(t, g.Classify(dir).Allowed())
	assert.False(t, g.Classify(filepath.Join(root, "missing")).Allowed())
	assert.False(t, g.Classify("relative/path").Allowed())

	v := g.Classify(link)
	assert.False(t, v.Allowed())
	assert.Equal(t, "is a symlink", v.Reason)
}

func TestClassify_NotWritable(t *testing.T) {
	dir := t.TempDir()
	g := New(nil, dir)
	g.writable = func(string) bool { return false }

	v := g.Classify(dir)
	assert.Equal(t, Deny, v.Decision)
	assert.Equal(t, "not writable by current user", v.Reason)
}

func TestClassify_IsRepeatable(t *testing.T) {
	dir := mkdir(t, t.TempDir(), "x")
	g := New(nil, dir)

	require.True(t, g.Classify(dir).Allowed())
	require.NoError(t, os.RemoveAll(dir))
	assert.False(t, g.Classify(dir).Allowed(), "verdicts must not be cached")
}

func TestFromCatalog(t *testing.T) {
	home := t.TempDir()
	g := FromCatalog(config.DefaultCatalog(), home)

	for _, p := range []string{"/System", "/usr/bin", "/etc", filepath.Join(home, ".ssh")} {
		assert.False(t, g.Classify(p).Allowed(), p)
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "ALLOW", Allow.String())
	assert.Equal(t, "DENY", Deny.String())
}
