// Package memstore is an in-process Record Store Client. It mirrors the
// Firestore adapter's observable behaviour (server timestamps, not-found
// errors, full-result-set subscriptions) and backs tests and local runs with
// STORE_BACKEND=memory.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

const (
	kindUser         = "users"
	kindListing      = "listings"
	kindDeal         = "deals"
	kindConversation = "conversations"
	kindMessage      = "messages"
	kindReview       = "reviews"
	kindReport       = "reports"
)

type Store struct {
	mu sync.RWMutex

	users         map[string]*entity.User
	listings      map[string]*entity.Listing
	deals         map[string]*entity.Deal
	conversations map[string]*entity.Conversation
	messages      map[string]map[string]*entity.Message
	reviews       map[string]*entity.Review
	reports       map[string]*entity.Report

	lastTime time.Time
	clock    func() time.Time

	watchMu  sync.Mutex
	watchers map[string]map[int]func()
	nextID   int
}

func New() *Store {
	return &Store{
		users:         make(map[string]*entity.User),
		listings:      make(map[string]*entity.Listing),
		deals:         make(map[string]*entity.Deal),
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string]map[string]*entity.Message),
		reviews:       make(map[string]*entity.Review),
		reports:       make(map[string]*entity.Report),
		clock:         time.Now,
		watchers:      make(map[string]map[int]func()),
	}
}

// now plays the server timestamp: strictly increasing so ordering is stable.
// Callers hold s.mu.
func (s *Store) now() time.Time {
	t := s.clock()
	if !t.After(s.lastTime) {
		t = s.lastTime.Add(time.Microsecond)
	}
	s.lastTime = t
	return t
}

func newID() string {
	return uuid.New().String()
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) Listings() *ListingRepository           { return &ListingRepository{s: s} }
func (s *Store) Deals() *DealRepository                 { return &DealRepository{s: s} }
func (s *Store) Conversations() *ConversationRepository { return &ConversationRepository{s: s} }
func (s *Store) Reviews() *ReviewRepository             { return &ReviewRepository{s: s} }
func (s *Store) Reports() *ReportRepository             { return &ReportRepository{s: s} }

type subscription struct {
	once  sync.Once
	close func()
}

func (sub *subscription) Close() {
	sub.once.Do(sub.close)
}

// watch registers fn to run after every write to kind and runs it once now.
// Runs of one watcher never overlap, so the last delivery it makes always
// reads the store after the last write.
func (s *Store) watch(kind string, fn func()) *subscription {
	var deliver sync.Mutex
	run := func() {
		deliver.Lock()
		defer deliver.Unlock()
		fn()
	}

	s.watchMu.Lock()
	id := s.nextID
	s.nextID++
	if s.watchers[kind] == nil {
		s.watchers[kind] = make(map[int]func())
	}
	s.watchers[kind][id] = run
	s.watchMu.Unlock()

	run()

	return &subscription{close: func() {
		s.watchMu.Lock()
		delete(s.watchers[kind], id)
		s.watchMu.Unlock()
	}}
}

// notify must be called without s.mu held; watchers read the store.
func (s *Store) notify(kind string) {
	s.watchMu.Lock()
	fns := make([]func(), 0, len(s.watchers[kind]))
	for _, fn := range s.watchers[kind] {
		fns = append(fns, fn)
	}
	s.watchMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// WatcherCount reports live subscriptions on kind.
func (s *Store) WatcherCount(kind string) int {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	return len(s.watchers[kind])
}
