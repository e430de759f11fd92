// Package flash carries one-shot notices across a redirect in a signed cookie.
package flash

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const sessionName = "grove-flash"

// Store reads and writes flash messages.
type Store struct {
	sessions sessions.Store
	log      *slog.Logger
}

// NewStore creates a flash store signed with key. An empty key generates a
// random one, so messages do not survive a restart.
func NewStore(key string, log *slog.Logger) *Store {
	secret := []byte(key)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	cs := sessions.NewCookieStore(secret)
	cs.Options.HttpOnly = true
	cs.Options.Path = "/"
	cs.Options.SameSite = http.SameSiteLaxMode
	return &Store{sessions: cs, log: log}
}

// Add queues message for the next page the client loads.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, message string) {
	// A cookie signed with an old key fails to decode; Get still returns a
	// fresh session in that case.
	session, err := s.sessions.Get(r, sessionName)
	if err != nil {
		s.log.Debug("discarding unreadable flash cookie", "err", err)
	}
	session.AddFlash(message)
	session.Options.Secure = r.URL.Scheme == "https" || r.Header.Get("X-Forwarded-Proto") == "https"
	if err := session.Save(r, w); err != nil {
		s.log.Warn("saving flash message", "err", err)
	}
}

// Pop returns and clears the queued messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []string {
	session, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		s.log.Warn("clearing flash messages", "err", err)
	}
	messages := make([]string, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(string); ok {
			messages = append(messages, m)
		}
	}
	return messages
}
