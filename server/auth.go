package main

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"pongsync/admission"
)

const (
	authRateWindow    = 60 * time.Second
	maxFailedAttempts = 10
)

var ErrTooManyAttempts = eris.New("too many failed attempts")

// Auth admits websocket peers that present a valid bearer token. A nil
// *Auth admits everyone.
type Auth struct {
	secret []byte

	// failed attempts per IP
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth returns nil when secret is empty
func NewAuth(secret string) *Auth {
	if secret == "" {
		return nil
	}
	return &Auth{
		secret:  []byte(secret),
		rateMap: make(map[string]*rateEntry),
	}
}

// Admit checks the request's token and returns its subject
func (a *Auth) Admit(r *http.Request, ip string) (string, error) {
	if a == nil {
		return "", nil
	}
	if a.blocked(ip) {
		return "", ErrTooManyAttempts
	}
	subject, err := admission.Verify(a.secret, bearerToken(r))
	if err != nil {
		a.fail(ip)
		return "", err
	}
	return subject, nil
}

func (a *Auth) blocked(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()
	entry, ok := a.rateMap[ip]
	return ok && time.Now().Before(entry.ResetAt) && entry.Count >= maxFailedAttempts
}

func (a *Auth) fail(ip string) {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(authRateWindow)}
		return
	}
	entry.Count++
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter for browsers that cannot set headers on websockets.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
