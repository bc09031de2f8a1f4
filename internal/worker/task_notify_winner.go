package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

type PayloadNotifyWinner struct {
	ListingID  int64   `json:"listing_id"`
	WinnerID   int64   `json:"winner_id"`
	FinalValue float64 `json:"final_value"`
}

// DistributeTaskNotifyWinner enqueues delivery of the winner chat message.
func (distributor *RedisTaskDistributor) DistributeTaskNotifyWinner(
	ctx context.Context,
	payload *PayloadNotifyWinner,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskNotifyWinner, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Int64("listing_id", payload.ListingID).
		Int64("winner_id", payload.WinnerID).
		Str("queue", info.Queue).
		Msg("winner notification task enqueued")

	return nil
}

// ProcessTaskNotifyWinner drops the "you won my listing" message into the
// chat between the listing's owner and the winner.
func (processor *RedisTaskProcessor) ProcessTaskNotifyWinner(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadNotifyWinner
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	listing, err := processor.store.GetListingByID(ctx, payload.ListingID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			log.Info().
				Int64("listing_id", payload.ListingID).
				Msg("listing not found, skipping winner notification")
			return nil
		}
		return fmt.Errorf("failed to get listing: %w", err)
	}

	winner, err := processor.store.GetUserByID(ctx, payload.WinnerID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			log.Info().
				Int64("winner_id", payload.WinnerID).
				Msg("winner not found, skipping notification")
			return nil
		}
		return fmt.Errorf("failed to get winner: %w", err)
	}

	if err = processor.relay.DeliverWinnerMessage(ctx, listing, winner, payload.FinalValue); err != nil {
		return fmt.Errorf("failed to deliver winner message: %w", err)
	}

	log.Info().
		Int64("listing_id", payload.ListingID).
		Int64("winner_id", payload.WinnerID).
		Msg("winner notified")

	return nil
}
