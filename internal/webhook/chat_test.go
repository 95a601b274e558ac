package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "lumina/pkg/errors"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) *ChatClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewChatClient(NewClient(srv.URL, 2*time.Second), "bot/chat", testLogger())
}

func TestSend_ForwardsMessageAndSession(t *testing.T) {
	var got chatRequest
	c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webhook/bot/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"output":"안녕하세요"}`))
	})

	reply, err := c.Send(context.Background(), "  자리 있나요?  ")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if reply != "안녕하세요" {
		t.Errorf("unexpected reply %q", reply)
	}

	if got.ChatInput != "자리 있나요?" {
		t.Errorf("expected trimmed message, got %q", got.ChatInput)
	}
	if got.SessionID != c.SessionID() {
		t.Errorf("expected session id %q, got %q", c.SessionID(), got.SessionID)
	}
	if !strings.HasPrefix(got.SessionID, "session-") {
		t.Errorf("unexpected session id shape %q", got.SessionID)
	}
}

func TestSend_ReplyFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"output field", `{"output":"from output"}`, "from output"},
		{"text field", `{"text":"from text"}`, "from text"},
		{"neither field", `{"other":"x"}`, `{"other":"x"}`},
		{"not json", `plain reply`, `plain reply`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			reply, err := c.Send(context.Background(), "hello")
			if err != nil {
				t.Fatalf("send failed: %v", err)
			}
			if reply != tt.want {
				t.Errorf("expected %q, got %q", tt.want, reply)
			}
		})
	}
}

func TestSend_EmptyMessage(t *testing.T) {
	c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty messages must not reach the webhook")
	})

	_, err := c.Send(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

func TestSend_UpstreamError(t *testing.T) {
	c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeUnavailable {
		t.Errorf("expected %s, got %s", apperrors.CodeUnavailable, code)
	}
}

func TestSessionID_StablePerClient(t *testing.T) {
	c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {})

	if c.SessionID() != c.SessionID() {
		t.Error("session id must not change between calls")
	}
}
