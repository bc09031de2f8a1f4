package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// These error strings travel to the browser inside error-socket frames, so
// they keep the exact text clients have always displayed.
var (
	ErrListingNotFound = errors.New("Can't find the asked listing object")
	ErrNotOwner        = errors.New("Only listing's owner can end the listing")
)

// RejectReason classifies why a bid was not accepted.
type RejectReason string

const (
	RejectTooLow        RejectReason = "too_low"
	RejectTooHigh       RejectReason = "too_high"
	RejectListingClosed RejectReason = "listing_closed"
	RejectStaleOrTooLow RejectReason = "stale_or_too_low"
	RejectOwnListing    RejectReason = "own_listing"
)

// Message returns the client-facing text for a rejection, matching what the
// web client has always displayed.
func (r RejectReason) Message() string {
	switch r {
	case RejectTooLow:
		return "Wrong new-bid value."
	case RejectTooHigh:
		return "Wrong new-bid value."
	case RejectListingClosed:
		return "Listing is not active. You can't do anything."
	case RejectStaleOrTooLow:
		return "Bid amount too low, someone may have placed a higher bid."
	case RejectOwnListing:
		return "You can't do bids on own listing."
	default:
		return "Wrong new-bid value."
	}
}

type SubmitBidParams struct {
	ListingID int64
	BidderID  int64
	Value     float64
	Observed  float64 // highest value the submitter had seen when bidding
	Origin    string  // session id carried as the event origin marker
}

type Outcome struct {
	Accepted bool
	Value    float64
	Bid      db.Bid
	Reason   RejectReason
}

func rejected(reason RejectReason) Outcome {
	return Outcome{Reason: reason}
}

// Snapshot is an advisory copy of a listing's ledger state. Sessions use it
// for optimistic UI only; the ledger's broadcasts remain the ground truth.
type Snapshot struct {
	ListingID int64
	OwnerID   int64
	Name      string
	Open      bool
	EndsAt    time.Time
	Highest   float64 // start bid when no bid has been accepted yet
	HasBid    bool
	BidderID  int64
}

// Ledger owns the authoritative current-highest-bid state per listing.
// All acceptance decisions happen under a per-listing lock, so two
// concurrent submissions can never both win against the same base value.
type Ledger struct {
	store   db.Store
	events  event.EventSender
	ceiling float64
	now     func() time.Time

	// scheduleEnd is invoked once per listing when the ledger first loads it
	// while still open, so the deadline task gets (re)scheduled.
	scheduleEnd func(listing db.Listing)
	// onDeadline is invoked when a lazily detected expiry needs a close.
	onDeadline func(listingID int64)

	mu      sync.Mutex
	entries map[int64]*listingEntry
}

type listingEntry struct {
	mu       sync.Mutex
	loaded   bool
	listing  db.Listing
	highest  float64
	hasBid   bool
	bidderID int64
	closed   bool
}

func NewLedger(store db.Store, events event.EventSender, ceiling float64) *Ledger {
	return &Ledger{
		store:   store,
		events:  events,
		ceiling: ceiling,
		now:     time.Now,
		entries: make(map[int64]*listingEntry),
	}
}

// SetScheduleEndHook installs the callback that schedules the deadline task
// for a freshly loaded open listing.
func (l *Ledger) SetScheduleEndHook(fn func(listing db.Listing)) {
	l.scheduleEnd = fn
}

func (l *Ledger) entry(listingID int64) *listingEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[listingID]
	if !ok {
		e = &listingEntry{}
		l.entries[listingID] = e
	}
	return e
}

// load refreshes the entry from the durable store. Caller holds e.mu.
func (l *Ledger) load(ctx context.Context, e *listingEntry, listingID int64) error {
	listing, err := l.store.GetListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to get listing %d: %w", listingID, err)
	}

	e.listing = listing
	e.closed = listing.Status == db.ListingStatusClosed
	e.hasBid = false
	e.highest = 0
	e.bidderID = 0

	highestBid, err := l.store.GetHighestBid(ctx, listingID)
	if err != nil && !errors.Is(err, db.ErrRecordNotFound) {
		return fmt.Errorf("failed to get highest bid for listing %d: %w", listingID, err)
	}
	if err == nil {
		e.hasBid = true
		e.highest = highestBid.Value
		e.bidderID = highestBid.BidderID
	}

	e.loaded = true

	if !e.closed && l.scheduleEnd != nil {
		l.scheduleEnd(listing)
	}
	return nil
}

// current returns the value a new bid has to beat. Caller holds e.mu.
func (e *listingEntry) current() float64 {
	if e.hasBid {
		return e.highest
	}
	return e.listing.StartBid
}

// SubmitBid runs the atomic compare-and-update for one bid. Every submitter
// receives an explicit outcome; a persistence failure is returned as an error
// and nothing is broadcast in that case.
func (l *Ledger) SubmitBid(ctx context.Context, arg SubmitBidParams) (Outcome, error) {
	e := l.entry(arg.ListingID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := l.load(ctx, e, arg.ListingID); err != nil {
			return Outcome{}, err
		}
	}

	if e.closed {
		return rejected(RejectListingClosed), nil
	}
	if !l.now().Before(e.listing.EndsAt) {
		// The deadline passed but no close ran yet. Reject here and hand
		// the close over to the lifecycle controller asynchronously.
		if l.onDeadline != nil {
			go l.onDeadline(arg.ListingID)
		}
		return rejected(RejectListingClosed), nil
	}

	if arg.BidderID == e.listing.OwnerID {
		return rejected(RejectOwnListing), nil
	}

	value := util.NormalizeBid(arg.Value)
	if value > l.ceiling {
		return rejected(RejectTooHigh), nil
	}

	if value <= e.current() || value <= e.listing.StartBid {
		// Distinguish a bid that was known-low from one that lost the
		// compare-and-update race against a concurrent submission: the
		// loser beat the base it observed, just not the current value.
		observed := util.NormalizeBid(arg.Observed)
		if e.hasBid && value > observed && value > e.listing.StartBid {
			return rejected(RejectStaleOrTooLow), nil
		}
		return rejected(RejectTooLow), nil
	}

	bidID, err := uuid.NewV7()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to generate bid ID: %w", err)
	}

	// Persist before anything becomes visible. If the store is down the
	// submitter gets a hard failure and no client ever sees this value.
	bid, err := l.store.CreateBid(ctx, db.CreateBidParams{
		ID:        bidID,
		ListingID: arg.ListingID,
		BidderID:  arg.BidderID,
		Value:     value,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to persist bid: %w", err)
	}

	e.highest = value
	e.hasBid = true
	e.bidderID = arg.BidderID

	l.events.Broadcast(event.Event{
		Topic:  event.ListingTopic(arg.ListingID),
		Type:   event.EventTypeNewBid,
		Origin: arg.Origin,
		Data: map[string]any{
			"new_bid_set": util.FormatBidValue(value),
		},
	})

	log.Info().
		Int64("listing_id", arg.ListingID).
		Int64("bidder_id", arg.BidderID).
		Float64("value", value).
		Msg("bid accepted")

	return Outcome{Accepted: true, Value: value, Bid: bid}, nil
}

// IsOpen reports whether the listing still accepts actions. The deadline is
// checked lazily the same way SubmitBid does: an expired-but-open listing is
// reported closed and its close is handed to the lifecycle controller.
func (l *Ledger) IsOpen(ctx context.Context, listingID int64) (bool, error) {
	e := l.entry(listingID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := l.load(ctx, e, listingID); err != nil {
			return false, err
		}
	}

	if e.closed {
		return false, nil
	}
	if !l.now().Before(e.listing.EndsAt) {
		if l.onDeadline != nil {
			go l.onDeadline(listingID)
		}
		return false, nil
	}
	return true, nil
}

// Snapshot returns an advisory copy of the listing's ledger state, loading it
// from the store on first touch.
func (l *Ledger) Snapshot(ctx context.Context, listingID int64) (Snapshot, error) {
	e := l.entry(listingID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := l.load(ctx, e, listingID); err != nil {
			return Snapshot{}, err
		}
	}

	return Snapshot{
		ListingID: listingID,
		OwnerID:   e.listing.OwnerID,
		Name:      e.listing.Name,
		Open:      !e.closed && l.now().Before(e.listing.EndsAt),
		EndsAt:    e.listing.EndsAt,
		Highest:   e.current(),
		HasBid:    e.hasBid,
		BidderID:  e.bidderID,
	}, nil
}
