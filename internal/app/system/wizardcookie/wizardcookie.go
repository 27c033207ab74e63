// Package wizardcookie binds wizard session IDs to the browser that opened
// them, using a signed cookie. Authentication is not its concern: it only
// stops one browser from driving another browser's wizard.
package wizardcookie

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	idsKey = "wizard_ids"

	// maxIDs bounds the cookie size; the oldest IDs fall off first.
	maxIDs = 16
)

// Ownership reads and writes the ownership cookie.
type Ownership struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// New returns an Ownership signing cookies with key. secure marks cookies
// Secure with SameSite=None; otherwise SameSite=Lax for local http.
func New(key, name, domain string, secure bool, logger *zap.Logger) (*Ownership, error) {
	if key == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	return &Ownership{store: store, name: name, log: logger}, nil
}

func (o *Ownership) session(r *http.Request) *sessions.Session {
	sess, err := o.store.Get(r, o.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			o.log.Debug("wizard cookie invalid, using fresh one", zap.Error(err))
		} else {
			o.log.Warn("wizard cookie read failed", zap.Error(err))
		}
	}
	return sess
}

func ids(sess *sessions.Session) []string {
	v, _ := sess.Values[idsKey].(string)
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// Owns reports whether the request's cookie lists id.
func (o *Ownership) Owns(r *http.Request, id string) bool {
	for _, have := range ids(o.session(r)) {
		if have == id {
			return true
		}
	}
	return false
}

// Grant adds id to the cookie.
func (o *Ownership) Grant(w http.ResponseWriter, r *http.Request, id string) error {
	sess := o.session(r)
	list := append(ids(sess), id)
	if len(list) > maxIDs {
		list = list[len(list)-maxIDs:]
	}
	sess.Values[idsKey] = strings.Join(list, ",")
	return sess.Save(r, w)
}

// Revoke removes id from the cookie.
func (o *Ownership) Revoke(w http.ResponseWriter, r *http.Request, id string) error {
	sess := o.session(r)
	var keep []string
	for _, have := range ids(sess) {
		if have != id {
			keep = append(keep, have)
		}
	}
	sess.Values[idsKey] = strings.Join(keep, ",")
	return sess.Save(r, w)
}
