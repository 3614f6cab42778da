// Package session keeps the per-browser admin state: whether the visitor
// passed the password prompt, and the one-shot notices shown on the panel.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores for unknown or expired ids.
var ErrNotFound = errors.New("session not found")

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message shown once on the next rendered page.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Session is a value: handlers receive one and return the updated copy.
type Session struct {
	ID            string   `json:"id"`
	Authenticated bool     `json:"authenticated"`
	Notices       []Notice `json:"notices,omitempty"`
}

// WithNotice returns s with msg appended to its notice queue.
func (s Session) WithNotice(kind NoticeKind, msg string) Session {
	s.Notices = append(append([]Notice(nil), s.Notices...), Notice{Kind: kind, Message: msg})
	return s
}

// TakeNotices returns the queued notices and s with an empty queue.
func (s Session) TakeNotices() ([]Notice, Session) {
	notices := s.Notices
	s.Notices = nil
	return notices, s
}

// Store persists sessions by id.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
