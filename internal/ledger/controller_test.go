package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *Ledger, *fakeStore, *recordingSender) {
	t.Helper()

	bidLedger, store, sender := newTestLedger(t)
	controller := NewController(store, sender, bidLedger)
	return controller, bidLedger, store, sender
}

func TestCloseListingResolvesWinner(t *testing.T) {
	controller, _, store, sender := newTestController(t)
	store.addBid(testListingID, testBidderID, 30)

	var notifiedWinner db.User
	var notifiedValue float64
	controller.SetNotifyWinnerHook(func(_ context.Context, _ db.Listing, winner db.User, finalValue float64) error {
		notifiedWinner = winner
		notifiedValue = finalValue
		return nil
	})

	result, err := controller.CloseListing(context.Background(), testListingID, nil, ClosedByDeadline, "")
	require.NoError(t, err)
	require.False(t, result.AlreadyClosed)
	require.True(t, result.HasWinner)
	require.Equal(t, testBidderID, result.Winner.ID)
	require.Equal(t, 30.0, result.FinalValue)

	events := sender.ofType(event.EventTypeListingClosed)
	require.Len(t, events, 1)
	require.Equal(t, "listing:1", events[0].Topic)
	require.Equal(t, "11", events[0].Data["win_user_id"])
	require.Equal(t, map[string]any{"id": testBidderID}, events[0].Data["user"])
	require.Equal(t, "30.00", events[0].Data["final_value"])

	require.Equal(t, testBidderID, notifiedWinner.ID)
	require.Equal(t, 30.0, notifiedValue)
}

func TestCloseListingNoBidsFallsBackToOwner(t *testing.T) {
	controller, _, _, sender := newTestController(t)

	notified := false
	controller.SetNotifyWinnerHook(func(context.Context, db.Listing, db.User, float64) error {
		notified = true
		return nil
	})

	result, err := controller.CloseListing(context.Background(), testListingID, nil, ClosedByDeadline, "")
	require.NoError(t, err)
	require.False(t, result.HasWinner)
	require.Equal(t, 10.0, result.FinalValue)

	events := sender.ofType(event.EventTypeListingClosed)
	require.Len(t, events, 1)
	require.Equal(t, "10", events[0].Data["win_user_id"])
	require.Equal(t, "10.00", events[0].Data["final_value"])
	require.False(t, notified)
}

func TestCloseListingIdempotent(t *testing.T) {
	controller, bidLedger, store, sender := newTestController(t)

	first, err := controller.CloseListing(context.Background(), testListingID, nil, ClosedByDeadline, "")
	require.NoError(t, err)
	require.False(t, first.AlreadyClosed)

	second, err := controller.CloseListing(context.Background(), testListingID, nil, ClosedByDeadline, "")
	require.NoError(t, err)
	require.True(t, second.AlreadyClosed)

	require.Len(t, sender.ofType(event.EventTypeListingClosed), 1)
	require.Equal(t, 1, store.closeTxCalls)

	// Bids against a closed listing are rejected without touching the store.
	outcome, err := bidLedger.SubmitBid(context.Background(), SubmitBidParams{
		ListingID: testListingID, BidderID: testBidderID, Value: 20, Observed: 10,
	})
	require.NoError(t, err)
	require.Equal(t, RejectListingClosed, outcome.Reason)
}

func TestCloseListingConcurrent(t *testing.T) {
	controller, _, store, sender := newTestController(t)
	store.addBid(testListingID, testBidderID, 42)

	const closers = 10
	var wg sync.WaitGroup
	for i := 0; i < closers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := controller.CloseListing(context.Background(), testListingID, nil, ClosedByDeadline, "")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// Exactly one closer performed the transition and broadcast the
	// terminal event; everyone else observed AlreadyClosed.
	require.Len(t, sender.ofType(event.EventTypeListingClosed), 1)
	require.Equal(t, 1, store.closeTxCalls)
}

func TestCloseListingOwnerAuthorization(t *testing.T) {
	controller, _, _, sender := newTestController(t)

	stranger := testBidderID
	_, err := controller.CloseListing(context.Background(), testListingID, &stranger, ClosedByOwner, "sess-1")
	require.ErrorIs(t, err, ErrNotOwner)
	require.Empty(t, sender.ofType(event.EventTypeListingClosed))

	var canceledTaskFor int64
	controller.SetCancelEndTaskHook(func(_ context.Context, listingID int64) error {
		canceledTaskFor = listingID
		return nil
	})

	owner := testOwnerID
	result, err := controller.CloseListing(context.Background(), testListingID, &owner, ClosedByOwner, "sess-1")
	require.NoError(t, err)
	require.False(t, result.AlreadyClosed)
	require.Len(t, sender.ofType(event.EventTypeListingClosed), 1)
	require.Equal(t, testListingID, canceledTaskFor)
}

func TestRequestCloseExpiredListing(t *testing.T) {
	controller, _, store, sender := newTestController(t)
	store.addListing(db.Listing{
		ID: testListingID, OwnerID: testOwnerID, StartBid: 10,
		Status: db.ListingStatusOpen, EndsAt: time.Now().Add(-time.Minute),
	})

	controller.RequestClose(testListingID)

	require.Len(t, sender.ofType(event.EventTypeListingClosed), 1)
	require.Equal(t, 1, store.closeTxCalls)
}
