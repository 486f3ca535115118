package languages

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("language not found")
	ErrDuplicate = errors.New("language already exists")
)

// Language is a global lookup entry. Artists reference languages by Name,
// not by ID, so renaming one leaves already tagged artists on the old name.
type Language struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedBy *uint     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeName trims and collapses inner whitespace.
func NormalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Canonical finds the registered spelling of name, ignoring case.
func Canonical(list []Language, name string) (string, bool) {
	name = NormalizeName(name)
	for _, l := range list {
		if strings.EqualFold(l.Name, name) {
			return l.Name, true
		}
	}
	return name, false
}

func Names(list []Language) []string {
	out := make([]string, 0, len(list))
	for _, l := range list {
		out = append(out, l.Name)
	}
	return out
}
