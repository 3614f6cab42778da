package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contextKey = "session"

// Manager binds sessions to browsers through an HttpOnly cookie holding
// an opaque id.
type Manager struct {
	store  Store
	cookie string
	secure bool
	ttl    time.Duration
}

func NewManager(store Store, cookieName string, secure bool, ttl time.Duration) *Manager {
	return &Manager{store: store, cookie: cookieName, secure: secure, ttl: ttl}
}

// Middleware loads the caller's session into the gin context. Unknown or
// missing cookies yield a fresh unauthenticated session.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, m.load(c))
		c.Next()
	}
}

func (m *Manager) load(c *gin.Context) Session {
	id, err := c.Cookie(m.cookie)
	if err != nil || id == "" {
		return Session{ID: uuid.NewString()}
	}
	s, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			zap.L().Error("Failed to load session", zap.Error(err))
		}
		return Session{ID: uuid.NewString()}
	}
	return s
}

// Current returns the session loaded by Middleware.
func Current(c *gin.Context) Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{ID: uuid.NewString()}
}

// Save persists s and points the browser at it.
func (m *Manager) Save(c *gin.Context, s Session) error {
	if err := m.store.Save(c.Request.Context(), s); err != nil {
		return err
	}
	c.Set(contextKey, s)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie, s.ID, int(m.ttl/time.Second), "/", "", m.secure, true)
	return nil
}

// Rotate moves s to a new id and drops the old one.
func (m *Manager) Rotate(c *gin.Context, s Session) Session {
	old := s.ID
	s.ID = uuid.NewString()
	if err := m.store.Delete(c.Request.Context(), old); err != nil {
		zap.L().Warn("Failed to drop rotated session", zap.Error(err))
	}
	return s
}
