package webhook

import (
	"context"
	"strings"

	apperrors "lumina/pkg/errors"
	"lumina/pkg/logger"

	"github.com/google/uuid"
)

// ChatClient relays chat messages to the workflow webhook. Each client
// carries a session id so the upstream workflow keeps conversational
// context across messages.
type ChatClient struct {
	client    *Client
	webhookID string
	sessionID string
	log       *logger.Logger
}

func NewChatClient(client *Client, webhookID string, log *logger.Logger) *ChatClient {
	return &ChatClient{
		client:    client,
		webhookID: webhookID,
		sessionID: "session-" + uuid.NewString(),
		log:       log,
	}
}

// SessionID returns the relay's stable conversation key.
func (c *ChatClient) SessionID() string {
	return c.sessionID
}

type chatRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

type chatReply struct {
	Output string `json:"output"`
	Text   string `json:"text"`
}

// Send forwards the message and returns the bot's reply. The upstream
// answers with {output} or {text}; anything else falls back to the raw
// body so the user still sees something.
func (c *ChatClient) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.InvalidInput("Message cannot be empty")
	}

	resp, err := c.client.Post(ctx, "/webhook/"+c.webhookID, chatRequest{
		ChatInput: message,
		SessionID: c.sessionID,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to reach chat webhook", 503)
	}
	if resp.StatusCode >= 400 {
		c.log.Warn("Chat webhook returned error status", "status", resp.StatusCode, "session_id", c.sessionID)
		return "", apperrors.Unavailable("Chat webhook")
	}

	var reply chatReply
	if err := resp.DecodeJSON(&reply); err != nil {
		return string(resp.Body), nil
	}
	if reply.Output != "" {
		return reply.Output, nil
	}
	if reply.Text != "" {
		return reply.Text, nil
	}
	return string(resp.Body), nil
}
