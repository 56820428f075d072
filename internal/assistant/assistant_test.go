package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return New(Options{
		Endpoint:  url,
		MaxTokens: 150,
		Tag:       "console-test",
		Timeout:   2 * time.Second,
	})
}

func TestAsk_SendsContract(t *testing.T) {
	var got Request
	var contentType, method string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Write([]byte(`{"response":"hello"}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Ask(context.Background(), "  what is\nlife? ")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, Request{Prompt: "  what is\nlife? ", MaxTokens: 150, Tag: "console-test"}, got)
}

func TestAsk_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"reply", http.StatusOK, `{"response":"hello"}`, "hello", nil},
		{"reply keeps whitespace", http.StatusOK, `{"response":"a\n  b\t"}`, "a\n  b\t", nil},
		{"empty object", http.StatusOK, `{}`, "", ErrNoReply},
		{"null reply", http.StatusOK, `{"response":null}`, "", ErrNoReply},
		{"empty reply", http.StatusOK, `{"response":""}`, "", ErrNoReply},
		{"non-string reply", http.StatusOK, `{"response":42}`, "", ErrNoReply},
		{"array body", http.StatusOK, `["hello"]`, "", ErrNoReply},
		{"not json", http.StatusOK, `<html>oops</html>`, "", ErrInvalidFormat},
		{"empty body", http.StatusOK, ``, "", ErrInvalidFormat},
		{"error status with reply", http.StatusInternalServerError, `{"response":"degraded"}`, "degraded", nil},
		{"error status plain text", http.StatusBadGateway, `bad gateway`, "", ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			reply, err := newTestClient(srv.URL).Ask(context.Background(), "hi")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestAsk_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestAsk_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{Endpoint: srv.URL, MaxTokens: 1, Tag: "t", Timeout: 50 * time.Millisecond})
	_, err := c.Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestParseReply(t *testing.T) {
	text, err := ParseReply([]byte(`{"response":"hi","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	_, err = ParseReply([]byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrNoReply)
}
