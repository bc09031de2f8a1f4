package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/katatrina/auctsite-BE/internal/validator"
	"github.com/rs/zerolog/log"
)

// ListingSession serves one connection on a listing room: it accepts bids,
// comments, and the owner's end request, and fans the room's events back out.
// Anonymous viewers may connect and watch; every action requires a user.
type ListingSession struct {
	*Session

	listingID  int64
	userID     *int64
	store      db.Store
	ledger     *ledger.Ledger
	controller *ledger.Controller

	// lastSeen is the advisory highest value this connection has observed.
	// It seeds the compare-and-update base for bids; the ledger remains the
	// ground truth.
	mu       sync.Mutex
	lastSeen float64
}

func NewListingSession(
	conn *websocket.Conn,
	events event.EventSender,
	store db.Store,
	bidLedger *ledger.Ledger,
	controller *ledger.Controller,
	listingID int64,
	userID *int64,
) (*ListingSession, error) {
	snapshot, err := bidLedger.Snapshot(context.Background(), listingID)
	if err != nil {
		return nil, err
	}

	ls := &ListingSession{
		Session:    newSession(conn, events, event.ListingTopic(listingID)),
		listingID:  listingID,
		userID:     userID,
		store:      store,
		ledger:     bidLedger,
		controller: controller,
		lastSeen:   snapshot.Highest,
	}
	ls.handle = ls.handleFrame
	ls.observe = ls.observeEvent
	return ls, nil
}

type listingFrame struct {
	ListingID   *int64  `json:"listing_id"`
	NewBid      any     `json:"newbid"`
	PostComment *string `json:"post_comment"`
	EndListing  *string `json:"endlisting"`
}

func (ls *ListingSession) handleFrame(raw []byte) {
	var frame listingFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		ls.sendError(errNoTask)
		return
	}

	ctx := context.Background()
	switch {
	case frame.NewBid != nil:
		ls.handleNewBid(ctx, frame.NewBid)
	case frame.PostComment != nil:
		ls.handlePostComment(ctx, *frame.PostComment)
	case frame.EndListing != nil:
		ls.handleEndListing(ctx)
	default:
		ls.sendError(errNoTask)
	}
}

func (ls *ListingSession) handleNewBid(ctx context.Context, raw any) {
	if ls.userID == nil {
		ls.sendError(errLoginRequired)
		return
	}

	value, err := util.ParseBidValue(raw)
	if err != nil {
		ls.sendError("Wrong new-bid value.")
		return
	}

	ls.mu.Lock()
	observed := ls.lastSeen
	ls.mu.Unlock()

	outcome, err := ls.ledger.SubmitBid(ctx, ledger.SubmitBidParams{
		ListingID: ls.listingID,
		BidderID:  *ls.userID,
		Value:     value,
		Observed:  observed,
		Origin:    ls.id,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrListingNotFound) {
			ls.sendError(err.Error())
			return
		}
		log.Error().Err(err).Int64("listing_id", ls.listingID).Msg("failed to submit bid")
		ls.sendError("Failed to place your bid. Please try again.")
		return
	}

	if !outcome.Accepted {
		ls.sendError(outcome.Reason.Message())
		return
	}

	ls.mu.Lock()
	if outcome.Value > ls.lastSeen {
		ls.lastSeen = outcome.Value
	}
	ls.mu.Unlock()
}

func (ls *ListingSession) handlePostComment(ctx context.Context, text string) {
	if ls.userID == nil {
		ls.sendError(errLoginRequired)
		return
	}

	open, err := ls.ledger.IsOpen(ctx, ls.listingID)
	if err != nil {
		if errors.Is(err, ledger.ErrListingNotFound) {
			ls.sendError(err.Error())
			return
		}
		log.Error().Err(err).Int64("listing_id", ls.listingID).Msg("failed to check listing state")
		ls.sendError("Failed to post your comment. Please try again.")
		return
	}
	if !open {
		ls.sendError(ledger.RejectListingClosed.Message())
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		ls.sendError("New comment text can't be empty string")
		return
	}
	if err := validator.ValidateString(text, 1, validator.MaxCommentLength); err != nil {
		ls.sendError("Wrong comment value.")
		return
	}

	author, err := ls.store.GetUserByID(ctx, *ls.userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", *ls.userID).Msg("failed to get comment author")
		ls.sendError("Failed to post your comment. Please try again.")
		return
	}

	commentID, err := uuid.NewV7()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate comment ID")
		ls.sendError("Failed to post your comment. Please try again.")
		return
	}

	comment, err := ls.store.CreateComment(ctx, db.CreateCommentParams{
		ID:        commentID,
		ListingID: ls.listingID,
		AuthorID:  author.ID,
		Text:      text,
	})
	if err != nil {
		log.Error().Err(err).Int64("listing_id", ls.listingID).Msg("failed to persist comment")
		ls.sendError("Failed to post your comment. Please try again.")
		return
	}

	ls.events.Broadcast(event.Event{
		Topic:  event.ListingTopic(ls.listingID),
		Type:   event.EventTypeNewComment,
		Origin: ls.id,
		Data: map[string]any{
			"comment":      comment.Text,
			"username":     author.Username,
			"comment_date": util.FormatEventTime(comment.CreatedAt),
		},
	})
}

func (ls *ListingSession) handleEndListing(ctx context.Context) {
	if ls.userID == nil {
		ls.sendError(errLoginRequired)
		return
	}

	_, err := ls.controller.CloseListing(ctx, ls.listingID, ls.userID, ledger.ClosedByOwner, ls.id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotOwner) || errors.Is(err, ledger.ErrListingNotFound) {
			ls.sendError(err.Error())
			return
		}
		log.Error().Err(err).Int64("listing_id", ls.listingID).Msg("failed to end listing")
		ls.sendError("Failed to end the listing. Please try again.")
	}
}

// observeEvent advances the advisory lastSeen copy as accepted bids flow by,
// so the next bid from this connection carries a fresh base.
func (ls *ListingSession) observeEvent(ev event.Event) {
	if ev.Type != event.EventTypeNewBid {
		return
	}
	raw, ok := ev.Data["new_bid_set"]
	if !ok {
		return
	}
	value, err := util.ParseBidValue(raw)
	if err != nil {
		return
	}

	ls.mu.Lock()
	if value > ls.lastSeen {
		ls.lastSeen = value
	}
	ls.mu.Unlock()
}
