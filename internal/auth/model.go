package auth

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the request-scoped view of a verified user, derived from
// access token claims on every request and never cached beyond it.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Session is the result of a successful registration or login. The refresh
// token travels back to the client only as an HTTP-only cookie, never in
// the response body.
type Session struct {
	User         Identity
	AccessToken  string
	RefreshToken string
}
