// Package workflow implements every write the application performs: artist
// submissions and edits, demo management, approval and the language
// registry. Multi-step writes run as a saga so a failed step never leaves
// orphaned objects or rows behind.
package workflow

import (
	"context"
	"time"

	"vo-directory/internal/gateway"
)

// Invalidator drops cached reads after a successful write.
type Invalidator interface {
	InvalidateArtists(ctx context.Context)
	InvalidateLanguages(ctx context.Context)
}

type Deps struct {
	Artists   gateway.ArtistStore
	Demos     gateway.DemoStore
	Languages gateway.LanguageStore
	Files     gateway.FileStorage
	Notifier  gateway.Notifier
	Cache     Invalidator
	// Now defaults to time.Now.
	Now func() time.Time
}

type Workflow struct {
	artists   gateway.ArtistStore
	demos     gateway.DemoStore
	languages gateway.LanguageStore
	files     gateway.FileStorage
	notifier  gateway.Notifier
	cache     Invalidator
	now       func() time.Time
}

func New(d Deps) *Workflow {
	w := &Workflow{
		artists:   d.Artists,
		demos:     d.Demos,
		languages: d.Languages,
		files:     d.Files,
		notifier:  d.Notifier,
		cache:     d.Cache,
		now:       d.Now,
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.cache == nil {
		w.cache = noCache{}
	}
	return w
}

type noCache struct{}

func (noCache) InvalidateArtists(context.Context)   {}
func (noCache) InvalidateLanguages(context.Context) {}
