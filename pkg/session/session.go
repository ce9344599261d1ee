// Package session persists chat sessions, including the canvas workspace
// portion, as JSON files under the user's home directory.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/soyrochus/brownie/pkg/workspace"
)

// SchemaVersion is the current session file schema. Version 1 files predate
// the canvas workspace and load with an empty one.
const SchemaVersion = 2

// Session is the persisted state of one conversation.
type Session struct {
	SchemaVersion   int                      `json:"schema_version"`
	SessionID       string                   `json:"session_id"`
	Workspace       string                   `json:"workspace"`
	Title           string                   `json:"title,omitempty"`
	CreatedAt       string                   `json:"created_at"`
	Messages        []Message                `json:"messages"`
	CanvasWorkspace workspace.WorkspaceState `json:"canvas_workspace"`
}

// Message is one chat turn.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewSession constructs a fresh session for the given workspace directory.
// Timestamps are RFC 3339 UTC so lexicographic order matches time order.
func NewSession(workspaceDir, title string) *Session {
	return &Session{
		SchemaVersion: SchemaVersion,
		SessionID:     uuid.NewString(),
		Workspace:     workspaceDir,
		Title:         title,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Messages:      []Message{},
	}
}

// AppendMessage adds one chat turn stamped with the current time.
func (s *Session) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
