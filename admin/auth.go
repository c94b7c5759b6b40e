package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	sessionCookieName = "reiatsu_admin"
	sessionSubject    = "admin"
	sessionIssuer     = "reiatsu-admin"
)

var errInvalidSession = errors.New("invalid admin session")

// authenticator issues and checks signed session cookies
type authenticator struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// newAuthenticator falls back to a random signing key, which logs everyone
// out on restart
func newAuthenticator(password, secret string, ttl time.Duration, now func() time.Time) (*authenticator, error) {
	if password == "" {
		return nil, errors.New("admin password is required")
	}

	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		log.Warn("ADMIN_JWT_SECRET is not set, admin sessions will not survive a restart")
	}

	return &authenticator{password: []byte(password), secret: key, ttl: ttl, now: now}, nil
}

func (a *authenticator) checkPassword(candidate string) bool {
	return subtle.ConstantTimeCompare(a.password, []byte(candidate)) == 1
}

// issue returns a signed token valid for the session TTL
func (a *authenticator) issue() (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expires, nil
}

// verify checks signature, issuer and expiry
func (a *authenticator) verify(token string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(sessionSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidSession, err)
	}
	return nil
}

// requireAuth redirects to the login page without a valid session cookie
func (a *authenticator) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if err := a.verify(cookie.Value); err != nil {
			log.WithError(err).Debug("Rejected admin session")
			clearSessionCookie(w, r)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// requireSameOrigin rejects cross-site form posts
func requireSameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		source := strings.TrimSpace(r.Header.Get("Origin"))
		if source == "" {
			source = strings.TrimSpace(r.Referer())
		}
		if !sameOrigin(source, r) {
			http.Error(w, "Cross-origin request rejected", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	return strings.EqualFold(parsed.Host, r.Host)
}
