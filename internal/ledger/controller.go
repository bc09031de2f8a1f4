package ledger

import (
	"context"
	"strconv"

	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// ClosedBy records which path triggered a close.
type ClosedBy string

const (
	ClosedByOwner    ClosedBy = "owner_request"
	ClosedByDeadline ClosedBy = "deadline"
)

type CloseResult struct {
	Listing       db.Listing
	AlreadyClosed bool
	HasWinner     bool
	Winner        *db.User
	FinalValue    float64
}

// Controller drives the Open -> Closed lifecycle of listings. A close can be
// requested by the deadline task, the periodic sweep, a lazily detected
// expiry, or the listing's owner; whichever arrives first wins and every
// later attempt is a no-op.
type Controller struct {
	store  db.Store
	events event.EventSender
	ledger *Ledger

	// notifyWinner schedules delivery of the "you won" chat message.
	notifyWinner func(ctx context.Context, listing db.Listing, winner db.User, finalValue float64) error
	// cancelEndTask removes the scheduled deadline task after an early close.
	cancelEndTask func(ctx context.Context, listingID int64) error
}

func NewController(store db.Store, events event.EventSender, ledger *Ledger) *Controller {
	c := &Controller{
		store:  store,
		events: events,
		ledger: ledger,
	}
	ledger.onDeadline = c.RequestClose
	return c
}

func (c *Controller) SetNotifyWinnerHook(fn func(ctx context.Context, listing db.Listing, winner db.User, finalValue float64) error) {
	c.notifyWinner = fn
}

func (c *Controller) SetCancelEndTaskHook(fn func(ctx context.Context, listingID int64) error) {
	c.cancelEndTask = fn
}

// RequestClose closes a listing on behalf of the system, logging instead of
// returning errors. Used where no submitter is waiting for the outcome.
func (c *Controller) RequestClose(listingID int64) {
	_, err := c.CloseListing(context.Background(), listingID, nil, ClosedByDeadline, "")
	if err != nil {
		log.Error().Err(err).Int64("listing_id", listingID).Msg("failed to close expired listing")
	}
}

// CloseListing transitions the listing to Closed exactly once. requestedBy,
// when set, must be the listing's owner. The terminal listing_closed event is
// broadcast only by the caller that actually performed the transition, so
// subscribers see it exactly once even when the deadline task and an owner
// request race.
func (c *Controller) CloseListing(ctx context.Context, listingID int64, requestedBy *int64, by ClosedBy, origin string) (CloseResult, error) {
	e := c.ledger.entry(listingID)
	e.mu.Lock()

	if !e.loaded {
		if err := c.ledger.load(ctx, e, listingID); err != nil {
			e.mu.Unlock()
			return CloseResult{}, err
		}
	}

	if requestedBy != nil && *requestedBy != e.listing.OwnerID {
		e.mu.Unlock()
		return CloseResult{}, ErrNotOwner
	}

	if e.closed {
		e.mu.Unlock()
		return CloseResult{Listing: e.listing, AlreadyClosed: true}, nil
	}

	txResult, err := c.store.CloseListingTx(ctx, db.CloseListingTxParams{ListingID: listingID})
	if err != nil {
		// Nothing was made visible; the entry stays open so a retry can
		// close it later.
		e.mu.Unlock()
		return CloseResult{}, err
	}

	e.closed = true
	e.listing = txResult.Listing
	e.mu.Unlock()

	if txResult.AlreadyClosed {
		// Another process already resolved this listing; it also owns the
		// terminal broadcast.
		return CloseResult{Listing: txResult.Listing, AlreadyClosed: true}, nil
	}

	// With no accepted bids the listing falls back to its owner, matching
	// the behavior clients have always relied on.
	winnerID := txResult.Listing.OwnerID
	if txResult.HasWinner {
		winnerID = txResult.Winner.ID
	}

	c.events.Broadcast(event.Event{
		Topic:  event.ListingTopic(listingID),
		Type:   event.EventTypeListingClosed,
		Origin: origin,
		Data: map[string]any{
			"win_user_id": strconv.FormatInt(winnerID, 10),
			"user":        map[string]any{"id": winnerID},
			"final_value": util.FormatBidValue(txResult.FinalValue),
		},
	})

	if by == ClosedByOwner && c.cancelEndTask != nil {
		if err := c.cancelEndTask(ctx, listingID); err != nil {
			log.Warn().Err(err).Int64("listing_id", listingID).Msg("failed to cancel scheduled end task")
		}
	}

	if txResult.HasWinner && c.notifyWinner != nil {
		if err := c.notifyWinner(ctx, txResult.Listing, *txResult.Winner, txResult.FinalValue); err != nil {
			log.Warn().
				Err(err).
				Int64("listing_id", listingID).
				Int64("winner_id", txResult.Winner.ID).
				Msg("failed to schedule winner notification")
		}
	}

	log.Info().
		Int64("listing_id", listingID).
		Str("closed_by", string(by)).
		Bool("has_winner", txResult.HasWinner).
		Float64("final_value", txResult.FinalValue).
		Msg("listing closed")

	return CloseResult{
		Listing:    txResult.Listing,
		HasWinner:  txResult.HasWinner,
		Winner:     txResult.Winner,
		FinalValue: txResult.FinalValue,
	}, nil
}
