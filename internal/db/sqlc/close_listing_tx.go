package db

import (
	"context"
	"errors"
	"fmt"
)

type CloseListingTxParams struct {
	ListingID int64
}

type CloseListingTxResult struct {
	Listing       Listing `json:"listing"`
	AlreadyClosed bool    `json:"already_closed"`
	HasWinner     bool    `json:"has_winner"`
	Winner        *User   `json:"winner"`
	WinningBid    *Bid    `json:"winning_bid"`
	FinalValue    float64 `json:"final_value"`
}

// CloseListingTx transitions a listing to closed and resolves its winner.
// The transition is idempotent: a listing that is already closed is left
// untouched and reported via AlreadyClosed, so the deadline task and an
// owner-initiated end can race without closing twice.
func (store *SQLStore) CloseListingTx(ctx context.Context, arg CloseListingTxParams) (CloseListingTxResult, error) {
	var result CloseListingTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// Lock the listing row so concurrent close attempts serialize here.
		listing, err := qTx.GetListingForUpdate(ctx, arg.ListingID)
		if err != nil {
			return err
		}

		if listing.Status == ListingStatusClosed {
			result.Listing = listing
			result.AlreadyClosed = true
			return nil
		}

		updatedListing, err := qTx.UpdateListingStatus(ctx, UpdateListingStatusParams{
			ID:     arg.ListingID,
			Status: ListingStatusClosed,
		})
		if err != nil {
			return fmt.Errorf("failed to update listing status: %w", err)
		}
		result.Listing = updatedListing
		result.FinalValue = updatedListing.StartBid

		// The winner is the bidder of the highest accepted bid, if any.
		winningBid, err := qTx.GetHighestBid(ctx, arg.ListingID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get highest bid: %w", err)
		}

		winner, err := qTx.GetUserByID(ctx, winningBid.BidderID)
		if err != nil {
			return fmt.Errorf("failed to get winning bidder: %w", err)
		}

		result.HasWinner = true
		result.Winner = &winner
		result.WinningBid = &winningBid
		result.FinalValue = winningBid.Value
		return nil
	})

	return result, err
}
