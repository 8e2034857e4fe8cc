package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelInfo, IsJSON: true})

	log.WithFields(port.Fields{"use_case": "SearchProperties"}).
		Error("CMS request failed", errors.New("timeout"), port.Fields{"area": "tokyo"})
	log.Debug("dropped", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "CMS request failed", rec["msg"])
	assert.Equal(t, "SearchProperties", rec["use_case"])
	assert.Equal(t, "tokyo", rec["area"])
	assert.Equal(t, "timeout", rec["error"])
}

func TestSlogAdapter_TextFallback(t *testing.T) {
	var buf bytes.Buffer
	NewSlogAdapter(SlogConfig{Writer: &buf}).Info("started", port.Fields{"port": 8080})
	assert.Contains(t, buf.String(), "msg=started")
	assert.Contains(t, buf.String(), "port=8080")
}

type recordedPost struct {
	tag  string
	data map[string]interface{}
}

type fakePoster struct {
	posts []recordedPost
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.posts = append(f.posts, recordedPost{tag: tag, data: message.(map[string]interface{})})
	return nil
}

func TestFluentAdapter(t *testing.T) {
	poster := &fakePoster{}
	log := newFluentAdapter(poster, slog.LevelInfo)
	log.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 0, 0, time.FixedZone("JST", 9*3600)) }

	child := log.WithFields(port.Fields{"component": "rest"})
	child.Debug("hidden", nil)
	child.Warn("slow CMS", port.Fields{"ms": 900})
	child.Error("boom", errors.New("bad"), nil)

	require.Len(t, poster.posts, 2)
	warn := poster.posts[0]
	assert.Equal(t, "warn", warn.tag)
	assert.Equal(t, "rest", warn.data["component"])
	assert.Equal(t, 900, warn.data["ms"])
	assert.Equal(t, "slow CMS", warn.data["message"])
	assert.Equal(t, "2024-05-31T18:00:00Z", warn.data["timestamp"])

	assert.Equal(t, "error", poster.posts[1].tag)
	assert.Equal(t, "bad", poster.posts[1].data["error"])
	assert.NotContains(t, log.fields, "component", "parent fields stay untouched")
}

func TestNewFluentLoggerAdapter_NilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, slog.LevelInfo)
	assert.Error(t, err)
}

type countingLogger struct {
	calls  *[]string
	fields port.Fields
}

func (c countingLogger) Info(msg string, _ port.Fields) { *c.calls = append(*c.calls, "info:"+msg) }

func (c countingLogger) Warn(msg string, _ port.Fields) { *c.calls = append(*c.calls, "warn:"+msg) }

func (c countingLogger) Error(msg string, _ error, _ port.Fields) {
	*c.calls = append(*c.calls, "error:"+msg)
}

func (c countingLogger) Debug(msg string, _ port.Fields) { *c.calls = append(*c.calls, "debug:"+msg) }

func (c countingLogger) WithFields(f port.Fields) port.LoggerPort {
	return countingLogger{calls: c.calls, fields: f}
}

func TestMultiLogger(t *testing.T) {
	var a, b []string
	multi, err := NewMultiloggerAdapter(countingLogger{calls: &a}, nil, countingLogger{calls: &b})
	require.NoError(t, err)

	child := multi.WithFields(port.Fields{"k": "v"})
	child.Info("one", nil)
	child.Error("two", nil, nil)

	assert.Equal(t, []string{"info:one", "error:two"}, a)
	assert.Equal(t, a, b)

	_, err = NewMultiloggerAdapter()
	assert.Error(t, err)
}
