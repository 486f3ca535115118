// Package gatewaytest provides in-memory implementations of the gateway
// interfaces for tests. Every operation is counted and can be made to fail.
package gatewaytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/domain/users"
	"vo-directory/internal/gateway"
)

// Operation names accepted by FailOn and Calls.
const (
	OpArtistList    = "artists.List"
	OpArtistGet     = "artists.Get"
	OpArtistCreate  = "artists.Create"
	OpArtistUpdate  = "artists.Update"
	OpArtistDelete  = "artists.Delete"
	OpArtistApprove = "artists.SetApproved"
	OpDemoList      = "demos.List"
	OpDemoCreate    = "demos.Create"
	OpDemoDelete    = "demos.Delete"
	OpDemoSetMain   = "demos.SetMain"
	OpLanguageList  = "languages.List"
	OpLanguageWrite = "languages.Write"
	OpProfileGet    = "profiles.Get"
	OpUserGet       = "users.Get"
	OpUserWrite     = "users.Write"
)

const epochForTestClocks = 1700000000

type Backend struct {
	mu sync.Mutex

	artists   map[string]artists.Artist
	demos     map[string]demos.Demo
	languages map[uint]languages.Language
	users     map[uint]users.User
	profiles  map[uint]users.Profile

	seq   int
	calls map[string]int
	fail  map[string]error
}

func New() *Backend {
	return &Backend{
		artists:   map[string]artists.Artist{},
		demos:     map[string]demos.Demo{},
		languages: map[uint]languages.Language{},
		users:     map[uint]users.User{},
		profiles:  map[uint]users.Profile{},
		calls:     map[string]int{},
		fail:      map[string]error{},
	}
}

// FailOn makes every following call of op return err. A nil err clears it.
func (b *Backend) FailOn(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fail, op)
		return
	}
	b.fail[op] = err
}

func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *Backend) hit(op string) error {
	b.calls[op]++
	return b.fail[op]
}

// tick hands out increasing ids and timestamps.
func (b *Backend) tick() (int, time.Time) {
	b.seq++
	return b.seq, time.Unix(int64(epochForTestClocks+b.seq), 0).UTC()
}

func (b *Backend) Artists() *Artists     { return &Artists{b} }
func (b *Backend) Demos() *Demos         { return &Demos{b} }
func (b *Backend) Languages() *Languages { return &Languages{b} }
func (b *Backend) Users() *Users         { return &Users{b} }

// ---------- artists

type Artists struct{ b *Backend }

var _ gateway.ArtistStore = (*Artists)(nil)

func (s *Artists) sorted(onlyApproved bool) []artists.Artist {
	out := make([]artists.Artist, 0, len(s.b.artists))
	for _, a := range s.b.artists {
		if onlyApproved && !a.Approved {
			continue
		}
		out = append(out, s.withDemos(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// withDemos mirrors the preload of the real store.
func (s *Artists) withDemos(a artists.Artist) artists.Artist {
	list := (&Demos{s.b}).byArtist(a.ID)
	if len(list) == 0 {
		a.Demos = nil
		return a
	}
	demos.SortForDisplay(list)
	a.Demos = list
	return a
}

func (s *Artists) ListApproved(ctx context.Context) ([]artists.Artist, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistList); err != nil {
		return nil, err
	}
	return s.sorted(true), nil
}

func (s *Artists) ListAll(ctx context.Context) ([]artists.Artist, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistList); err != nil {
		return nil, err
	}
	return s.sorted(false), nil
}

func (s *Artists) Get(ctx context.Context, id string) (artists.Artist, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistGet); err != nil {
		return artists.Artist{}, err
	}
	a, ok := s.b.artists[id]
	if !ok {
		return artists.Artist{}, artists.ErrNotFound
	}
	return s.withDemos(a), nil
}

func (s *Artists) GetByUsername(ctx context.Context, username string) (artists.Artist, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistGet); err != nil {
		return artists.Artist{}, err
	}
	for _, a := range s.b.artists {
		if strings.EqualFold(a.Username, username) {
			return s.withDemos(a), nil
		}
	}
	return artists.Artist{}, artists.ErrNotFound
}

func (s *Artists) Create(ctx context.Context, a *artists.Artist) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistCreate); err != nil {
		return err
	}
	for _, existing := range s.b.artists {
		if strings.EqualFold(existing.Username, a.Username) {
			return artists.ErrUsernameTaken
		}
	}
	n, now := s.b.tick()
	a.ID = fmt.Sprintf("artist-%d", n)
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Demos = nil
	s.b.artists[a.ID] = *a
	return nil
}

func (s *Artists) Update(ctx context.Context, a *artists.Artist) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistUpdate); err != nil {
		return err
	}
	existing, ok := s.b.artists[a.ID]
	if !ok {
		return artists.ErrNotFound
	}
	for id, other := range s.b.artists {
		if id != a.ID && strings.EqualFold(other.Username, a.Username) {
			return artists.ErrUsernameTaken
		}
	}
	_, now := s.b.tick()
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = now
	a.Demos = nil
	s.b.artists[a.ID] = *a
	return nil
}

func (s *Artists) Delete(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistDelete); err != nil {
		return err
	}
	if _, ok := s.b.artists[id]; !ok {
		return artists.ErrNotFound
	}
	for demoID, d := range s.b.demos {
		if d.ArtistID == id {
			delete(s.b.demos, demoID)
		}
	}
	delete(s.b.artists, id)
	return nil
}

func (s *Artists) SetApproved(ctx context.Context, id string, approved bool) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpArtistApprove); err != nil {
		return err
	}
	a, ok := s.b.artists[id]
	if !ok {
		return artists.ErrNotFound
	}
	a.Approved = approved
	s.b.artists[id] = a
	return nil
}

// ---------- demos

type Demos struct{ b *Backend }

var _ gateway.DemoStore = (*Demos)(nil)

func (s *Demos) byArtist(artistID string) []demos.Demo {
	out := []demos.Demo{}
	for _, d := range s.b.demos {
		if d.ArtistID == artistID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Demos) ListByArtist(ctx context.Context, artistID string) ([]demos.Demo, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpDemoList); err != nil {
		return nil, err
	}
	return s.byArtist(artistID), nil
}

func (s *Demos) Get(ctx context.Context, id string) (demos.Demo, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	d, ok := s.b.demos[id]
	if !ok {
		return demos.Demo{}, demos.ErrNotFound
	}
	return d, nil
}

func (s *Demos) Create(ctx context.Context, d *demos.Demo) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpDemoCreate); err != nil {
		return err
	}
	if _, ok := s.b.artists[d.ArtistID]; !ok {
		return artists.ErrNotFound
	}
	isMain, err := demos.Plan(len(s.byArtist(d.ArtistID)))
	if err != nil {
		return err
	}
	n, now := s.b.tick()
	d.ID = fmt.Sprintf("demo-%d", n)
	d.IsMain = isMain
	d.CreatedAt = now
	s.b.demos[d.ID] = *d
	return nil
}

func (s *Demos) Delete(ctx context.Context, id string) (demos.Demo, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpDemoDelete); err != nil {
		return demos.Demo{}, err
	}
	d, ok := s.b.demos[id]
	if !ok {
		return demos.Demo{}, demos.ErrNotFound
	}
	delete(s.b.demos, id)
	if d.IsMain {
		if next := demos.NextMain(s.byArtist(d.ArtistID)); next != nil {
			promoted := s.b.demos[next.ID]
			promoted.IsMain = true
			s.b.demos[next.ID] = promoted
		}
	}
	return d, nil
}

func (s *Demos) SetMain(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpDemoSetMain); err != nil {
		return err
	}
	target, ok := s.b.demos[id]
	if !ok {
		return demos.ErrNotFound
	}
	for _, d := range s.byArtist(target.ArtistID) {
		d.IsMain = d.ID == id
		s.b.demos[d.ID] = d
	}
	return nil
}

// ---------- languages

type Languages struct{ b *Backend }

var _ gateway.LanguageStore = (*Languages)(nil)

func (s *Languages) List(ctx context.Context) ([]languages.Language, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpLanguageList); err != nil {
		return nil, err
	}
	out := make([]languages.Language, 0, len(s.b.languages))
	for _, l := range s.b.languages {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Languages) taken(name string, except uint) bool {
	for id, l := range s.b.languages {
		if id != except && strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return false
}

func (s *Languages) Create(ctx context.Context, l *languages.Language) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpLanguageWrite); err != nil {
		return err
	}
	if s.taken(l.Name, 0) {
		return languages.ErrDuplicate
	}
	n, now := s.b.tick()
	l.ID = uint(n)
	l.CreatedAt = now
	s.b.languages[l.ID] = *l
	return nil
}

func (s *Languages) Rename(ctx context.Context, id uint, name string) (languages.Language, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpLanguageWrite); err != nil {
		return languages.Language{}, err
	}
	l, ok := s.b.languages[id]
	if !ok {
		return languages.Language{}, languages.ErrNotFound
	}
	if s.taken(name, id) {
		return languages.Language{}, languages.ErrDuplicate
	}
	l.Name = name
	s.b.languages[id] = l
	return l, nil
}

func (s *Languages) Delete(ctx context.Context, id uint) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpLanguageWrite); err != nil {
		return err
	}
	if _, ok := s.b.languages[id]; !ok {
		return languages.ErrNotFound
	}
	delete(s.b.languages, id)
	return nil
}

// ---------- users and profiles

type Users struct{ b *Backend }

var (
	_ gateway.UserStore    = (*Users)(nil)
	_ gateway.ProfileStore = (*Users)(nil)
)

func (s *Users) GetProfile(ctx context.Context, userID uint) (users.Profile, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpProfileGet); err != nil {
		return users.Profile{}, err
	}
	p, ok := s.b.profiles[userID]
	if !ok {
		return users.Profile{}, users.ErrNotFound
	}
	return p, nil
}

func (s *Users) FindByID(ctx context.Context, id uint) (users.User, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserGet); err != nil {
		return users.User{}, err
	}
	u, ok := s.b.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (users.User, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserGet); err != nil {
		return users.User{}, err
	}
	for _, u := range s.b.users {
		if u.Email == users.NormalizeEmail(email) {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (s *Users) FindByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserGet); err != nil {
		return users.User{}, err
	}
	for _, u := range s.b.users {
		if u.GoogleSub != nil && *u.GoogleSub == sub {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (s *Users) Create(ctx context.Context, u *users.User, isAdmin bool) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserWrite); err != nil {
		return err
	}
	u.Email = users.NormalizeEmail(u.Email)
	for _, existing := range s.b.users {
		if existing.Email == u.Email {
			return users.ErrEmailTaken
		}
	}
	n, now := s.b.tick()
	u.ID = uint(n)
	u.CreatedAt = now
	u.UpdatedAt = now
	s.b.users[u.ID] = *u
	s.b.profiles[u.ID] = users.Profile{UserID: u.ID, IsAdmin: isAdmin}
	return nil
}

func (s *Users) LinkGoogle(ctx context.Context, id uint, sub string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserWrite); err != nil {
		return err
	}
	u, ok := s.b.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.GoogleSub = &sub
	s.b.users[id] = u
	return nil
}

func (s *Users) UpdatePassword(ctx context.Context, id uint, hash string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserWrite); err != nil {
		return err
	}
	u, ok := s.b.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.PasswordHash = &hash
	s.b.users[id] = u
	return nil
}

func (s *Users) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if err := s.b.hit(OpUserWrite); err != nil {
		return err
	}
	if _, ok := s.b.users[id]; !ok {
		return users.ErrNotFound
	}
	s.b.profiles[id] = users.Profile{UserID: id, IsAdmin: isAdmin}
	return nil
}

// DropProfile removes a profile row while keeping the user, for tests of
// identities without a profile.
func (b *Backend) DropProfile(userID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.profiles, userID)
}
