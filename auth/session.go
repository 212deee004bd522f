package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "userId"

// IdentityHeader carries the authenticated user's id, asserted by the
// trusted gateway in front of this service.
const IdentityHeader = "X-User-Id"

type Session struct {
	sessions.Session
	c *gin.Context
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
		c:       c,
	}
}

// UserID returns the requesting user's id, or uuid.Nil when the request is
// not authenticated. A gateway-asserted identity header is pinned to the
// session on first sight.
func (s *Session) UserID() uuid.UUID {
	if v := s.Get(userIDKey); v != nil {
		if id, err := uuid.Parse(v.(string)); err == nil {
			return id
		}
	}
	h := s.c.GetHeader(IdentityHeader)
	if h == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(h)
	if err != nil {
		return uuid.Nil
	}
	s.Set(userIDKey, id.String())
	_ = s.Save()
	return id
}

func (s *Session) Logout() {
	s.Delete(userIDKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}
