package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agi-console/internal/console"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"CONFIG_FILE", "ASSISTANT_ENDPOINT", "ASSISTANT_MAX_TOKENS",
		"ASSISTANT_TAG", "ASSISTANT_TIMEOUT", "WEB_PORT", "LOG_LEVEL", "MAX_LOGS"} {
		t.Setenv(key, "")
	}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAsk_PrintsReply(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"hello\nworld"}`))
	}))
	defer upstream.Close()

	out, err := runCLI(t, "", "ask", "--endpoint", upstream.URL, "say", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", out)
}

func TestAsk_FallbackMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	out, err := runCLI(t, "", "ask", "--endpoint", upstream.URL, "hi")
	require.NoError(t, err)
	assert.Equal(t, console.MsgNoReply+"\n", out)
}

func TestAsk_Stdin(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"from stdin"}`))
	}))
	defer upstream.Close()

	out, err := runCLI(t, "multi\nline prompt", "ask", "--endpoint", upstream.URL, "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", out)
}

func TestAsk_BlankPrompt(t *testing.T) {
	_, err := runCLI(t, "   ", "ask", "-")
	assert.EqualError(t, err, "prompt is empty")
}

func TestAsk_InvalidFlagConfig(t *testing.T) {
	_, err := runCLI(t, "", "ask", "--endpoint", "not-a-url", "hi")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}
