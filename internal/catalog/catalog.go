// Package catalog serves the public read side: approved artists and the
// language list, cached by logical query name.
package catalog

import (
	"context"
	"errors"
	"time"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/gateway"
	"vo-directory/internal/infra/cache"

	"github.com/rs/zerolog/log"
)

const (
	KeyApprovedArtists = "artists:approved"
	KeyLanguages       = "languages:all"

	artistPattern = "artists:*"

	DefaultTTL = 10 * time.Minute
)

type Catalog struct {
	artists   gateway.ArtistStore
	languages gateway.LanguageStore
	cache     cache.Cache
	ttl       time.Duration
}

func New(a gateway.ArtistStore, l gateway.LanguageStore, c cache.Cache) *Catalog {
	return &Catalog{artists: a, languages: l, cache: c, ttl: DefaultTTL}
}

// cached is cache-aside: a cache failure is logged and the store is used.
func cached[T any](ctx context.Context, c *Catalog, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	found, err := c.cache.Get(ctx, key, &out)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if found {
		return out, nil
	}

	out, err = load(ctx)
	if err != nil {
		return out, err
	}
	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return out, nil
}

func (c *Catalog) ApprovedArtists(ctx context.Context) ([]artists.Artist, error) {
	return cached(ctx, c, KeyApprovedArtists, c.artists.ListApproved)
}

func (c *Catalog) Languages(ctx context.Context) ([]languages.Language, error) {
	return cached(ctx, c, KeyLanguages, c.languages.List)
}

// Listing returns the approved artists matching the selectors.
func (c *Catalog) Listing(ctx context.Context, language string, gender *string) ([]artists.Artist, error) {
	all, err := c.ApprovedArtists(ctx)
	if err != nil {
		return nil, err
	}
	return artists.Filter(all, language, gender), nil
}

func artistKey(username string) string { return "artists:vo:" + username }

// PublicProfile looks an approved artist up by username. Unapproved artists
// read as not found unless includeHidden is set.
func (c *Catalog) PublicProfile(ctx context.Context, username string, includeHidden bool) (artists.Artist, error) {
	username = artists.NormalizeUsername(username)
	if username == "" {
		return artists.Artist{}, artists.ErrNotFound
	}
	var a artists.Artist
	var err error
	if includeHidden {
		a, err = c.artists.GetByUsername(ctx, username)
	} else {
		a, err = cached(ctx, c, artistKey(username), func(ctx context.Context) (artists.Artist, error) {
			return c.artists.GetByUsername(ctx, username)
		})
	}
	if err != nil {
		return artists.Artist{}, err
	}
	if !a.Approved && !includeHidden {
		return artists.Artist{}, artists.ErrNotFound
	}
	return a, nil
}

// ArtistByID is uncached; the id route is mostly used from the admin console.
func (c *Catalog) ArtistByID(ctx context.Context, id string, includeHidden bool) (artists.Artist, error) {
	a, err := c.artists.Get(ctx, id)
	if err != nil {
		return artists.Artist{}, err
	}
	if !a.Approved && !includeHidden {
		return artists.Artist{}, artists.ErrNotFound
	}
	return a, nil
}

func (c *Catalog) InvalidateArtists(ctx context.Context) {
	c.invalidate(ctx, artistPattern)
}

// InvalidateLanguages drops the single language list key.
func (c *Catalog) InvalidateLanguages(ctx context.Context) {
	if err := c.cache.Delete(ctx, KeyLanguages); err != nil {
		log.Error().Err(err).Str("key", KeyLanguages).Msg("cache invalidation failed")
	}
}

func (c *Catalog) invalidate(ctx context.Context, pattern string) {
	if err := c.cache.DeletePattern(ctx, pattern); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
	}
}

// IsNotFound reports the lookup errors the pages render as 404.
func IsNotFound(err error) bool {
	return errors.Is(err, artists.ErrNotFound)
}
