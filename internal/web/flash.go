package web

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const flashCookie = "paysplit_flash"

// flashClaims carries one-time status messages between a submission and the
// page it redirects to.
type flashClaims struct {
	Messages []string `json:"messages"`
	jwt.RegisteredClaims
}

// Messenger stores status messages in a signed cookie until they are shown.
type Messenger struct {
	secret []byte
	secure bool
}

// NewMessenger signs flash cookies with secret.
func NewMessenger(secret string, secure bool) *Messenger {
	return &Messenger{secret: []byte(secret), secure: secure}
}

// Add appends msgs to the messages already pending on r and writes the cookie.
func (m *Messenger) Add(w http.ResponseWriter, r *http.Request, msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	pending := append(m.peek(r), msgs...)

	claims := flashClaims{
		Messages: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending messages and clears the cookie.
func (m *Messenger) Pop(w http.ResponseWriter, r *http.Request) []string {
	msgs := m.peek(r)
	if _, err := r.Cookie(flashCookie); err == nil {
		http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	}
	return msgs
}

func (m *Messenger) peek(r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	claims := &flashClaims{}
	_, err = jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil
	}
	return claims.Messages
}
