package access

import "time"

// Session is the resolved identity of one request. It is built once by the
// session middleware and never mutated afterwards.
type Session struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsAdmin         bool      `json:"isAdmin"`
	IsLoading       bool      `json:"isLoading"`
	UserID          uint      `json:"userId,omitempty"`
	Email           string    `json:"email,omitempty"`
	TokenID         string    `json:"-"`
	ExpiresAt       time.Time `json:"-"`
}

func Anonymous() Session {
	return Session{}
}

// Pending is the snapshot before resolution finished.
func Pending() Session {
	return Session{IsLoading: true}
}
