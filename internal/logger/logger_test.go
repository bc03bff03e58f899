package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger(level, format)
	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("scan started") },
			contains: []string{"scan started", "level=INFO"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			logFn:    func() { Debug("measuring") },
			contains: []string{"measuring", "level=DEBUG"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			logFn:    func() { Debug("measuring") },
			excludes: []string{"measuring"},
		},
		{
			name:     "warn log with fields",
			level:    "warn",
			logFn:    func() { Warn("partial size", Fields{"path": "/tmp/x", "entries": 3}) },
			contains: []string{"partial size", "level=WARN", "path=/tmp/x", "entries=3"},
		},
		{
			name:     "info suppressed at error level",
			level:    "error",
			logFn:    func() { Infof("found %d", 2) },
			excludes: []string{"found 2"},
		},
		{
			name:     "formatted debug with fields",
			level:    "debug",
			logFn:    func() { DebugfWithFields(Fields{"pattern": "chrome"}, "expanded %d paths", 4) },
			contains: []string{"expanded 4 paths", "pattern=chrome"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, FormatText, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, out, notWant)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	out := captureOutput(t, "info", FormatJSON, func() {
		Info("deleted", Fields{"path": "/tmp/cache", "freed": 42, "dry_run": true})
	})

	assert.Contains(t, out, `"msg":"deleted"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"path":"/tmp/cache"`)
	assert.Contains(t, out, `"freed":42`)
	assert.Contains(t, out, `"dry_run":true`)
}

func TestHoldDefersOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger("info", FormatJSON)
	release := Hold()
	Info("while held")
	Debug("below level")
	assert.Empty(t, buf.String())

	release()
	assert.Contains(t, buf.String(), `"msg":"while held"`)
	assert.NotContains(t, buf.String(), "below level")

	Warn("after release")
	assert.Contains(t, buf.String(), `"msg":"after release"`)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestGetLogger_InitializesIfNil(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		lg := GetLogger()
		assert.NotNil(t, lg)
	})
}

func TestMergeFields(t *testing.T) {
	attrs := mergeFields(Fields{"a": 1}, Fields{"a": 2, "b": "x"})
	result := make(map[string]interface{})
	for i := 0; i < len(attrs); i += 2 {
		result[attrs[i].(string)] = attrs[i+1]
	}
	assert.Equal(t, map[string]interface{}{"a": 2, "b": "x"}, result)
}
