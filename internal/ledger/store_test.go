package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
)

// fakeStore is an in-memory db.Store covering the queries the ledger and
// controller touch. Unimplemented Store methods panic via the embedded nil
// interface, which is what we want in tests.
type fakeStore struct {
	db.Store

	mu            sync.Mutex
	listings      map[int64]db.Listing
	users         map[int64]db.User
	bids          []db.Bid
	failCreateBid bool
	closeTxCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: make(map[int64]db.Listing),
		users:    make(map[int64]db.User),
	}
}

func (s *fakeStore) GetListingByID(_ context.Context, id int64) (db.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return db.Listing{}, db.ErrRecordNotFound
	}
	return listing, nil
}

func (s *fakeStore) GetUserByID(_ context.Context, id int64) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return db.User{}, db.ErrRecordNotFound
	}
	return user, nil
}

func (s *fakeStore) GetHighestBid(_ context.Context, listingID int64) (db.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.highestBidLocked(listingID)
}

func (s *fakeStore) highestBidLocked(listingID int64) (db.Bid, error) {
	var highest db.Bid
	found := false
	for _, bid := range s.bids {
		if bid.ListingID != listingID {
			continue
		}
		if !found || bid.Value > highest.Value {
			highest = bid
			found = true
		}
	}
	if !found {
		return db.Bid{}, db.ErrRecordNotFound
	}
	return highest, nil
}

func (s *fakeStore) CreateBid(_ context.Context, arg db.CreateBidParams) (db.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreateBid {
		return db.Bid{}, errors.New("store unavailable")
	}

	bid := db.Bid{
		ID:        arg.ID,
		ListingID: arg.ListingID,
		BidderID:  arg.BidderID,
		Value:     arg.Value,
		CreatedAt: time.Now(),
	}
	s.bids = append(s.bids, bid)
	return bid, nil
}

func (s *fakeStore) CloseListingTx(_ context.Context, arg db.CloseListingTxParams) (db.CloseListingTxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[arg.ListingID]
	if !ok {
		return db.CloseListingTxResult{}, db.ErrRecordNotFound
	}

	if listing.Status == db.ListingStatusClosed {
		return db.CloseListingTxResult{Listing: listing, AlreadyClosed: true}, nil
	}

	s.closeTxCalls++
	listing.Status = db.ListingStatusClosed
	s.listings[arg.ListingID] = listing

	result := db.CloseListingTxResult{
		Listing:    listing,
		FinalValue: listing.StartBid,
	}

	winningBid, err := s.highestBidLocked(arg.ListingID)
	if err != nil {
		return result, nil
	}

	winner, ok := s.users[winningBid.BidderID]
	if !ok {
		return db.CloseListingTxResult{}, db.ErrRecordNotFound
	}

	result.HasWinner = true
	result.Winner = &winner
	result.WinningBid = &winningBid
	result.FinalValue = winningBid.Value
	return result, nil
}

func (s *fakeStore) bidCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bids)
}

func (s *fakeStore) addListing(listing db.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listing.ID] = listing
}

func (s *fakeStore) addUser(user db.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *fakeStore) addBid(listingID, bidderID int64, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids = append(s.bids, db.Bid{
		ID:        uuid.New(),
		ListingID: listingID,
		BidderID:  bidderID,
		Value:     value,
		CreatedAt: time.Now(),
	})
}

// recordingSender captures broadcasts synchronously so tests can assert on
// exact event ordering.
type recordingSender struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingSender) Register(string, chan event.Event)   {}
func (r *recordingSender) Unregister(string, chan event.Event) {}
func (r *recordingSender) Run()                                {}
func (r *recordingSender) Shutdown()                           {}

func (r *recordingSender) Broadcast(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSender) all() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func (r *recordingSender) ofType(eventType string) []event.Event {
	var matched []event.Event
	for _, ev := range r.all() {
		if ev.Type == eventType {
			matched = append(matched, ev)
		}
	}
	return matched
}
