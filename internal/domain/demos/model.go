package demos

import (
	"errors"
	"sort"
	"time"
)

// MaxPerArtist caps how many demos one artist can hold.
const MaxPerArtist = 4

var (
	ErrNotFound = errors.New("demo not found")
	ErrLimit    = errors.New("an artist can have at most 4 demos")
)

type Demo struct {
	ID              string    `json:"id"`
	ArtistID        string    `json:"artist_id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	StorageKey      string    `json:"-"`
	ContentType     string    `json:"content_type,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	IsMain          bool      `json:"is_main"`
	CreatedAt       time.Time `json:"created_at"`
}

// Plan decides whether a new demo may be added to an artist that already
// holds `existing` demos and whether it becomes the main one.
// Every demo insert goes through here.
func Plan(existing int) (isMain bool, err error) {
	if existing >= MaxPerArtist {
		return false, ErrLimit
	}
	return existing == 0, nil
}

// NextMain picks the demo to promote after the main one was removed: the
// oldest remaining. Returns nil for an empty list.
func NextMain(remaining []Demo) *Demo {
	if len(remaining) == 0 {
		return nil
	}
	sorted := make([]Demo, len(remaining))
	copy(sorted, remaining)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return &sorted[0]
}

// SortForDisplay puts the main demo first, then oldest to newest.
func SortForDisplay(list []Demo) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsMain != list[j].IsMain {
			return list[i].IsMain
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
