package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/rs/zerolog/log"
)

type PayloadEndListing struct {
	ListingID int64 `json:"listing_id"`
}

// EndListingTaskID builds the deterministic task id that makes the deadline
// task unique per listing: re-scheduling after a restart dedups against the
// task already in the queue.
func EndListingTaskID(listingID int64) string {
	return fmt.Sprintf("listing:end:%d", listingID)
}

// DistributeTaskEndListing schedules the close of a listing at its deadline.
func (distributor *RedisTaskDistributor) DistributeTaskEndListing(
	ctx context.Context,
	payload *PayloadEndListing,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	taskID := EndListingTaskID(payload.ListingID)
	task := asynq.NewTask(TaskEndListing, jsonPayload, append(opts, asynq.TaskID(taskID))...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			// Already scheduled for this listing; nothing to do.
			return nil
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("task_id", taskID).
		Int64("listing_id", payload.ListingID).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Time("process_at", info.NextProcessAt).
		Msg("listing end task scheduled")

	return nil
}

// ProcessTaskEndListing closes the listing whose deadline has passed.
func (processor *RedisTaskProcessor) ProcessTaskEndListing(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadEndListing
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	log.Info().
		Int64("listing_id", payload.ListingID).
		Msg("processing listing end task")

	listing, err := processor.store.GetListingByID(ctx, payload.ListingID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			log.Info().
				Int64("listing_id", payload.ListingID).
				Msg("listing not found, skipping task")
			return nil
		}
		return fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.Status != db.ListingStatusOpen {
		log.Info().
			Int64("listing_id", payload.ListingID).
			Str("current_status", string(listing.Status)).
			Msg("listing is not open, skipping task")
		return nil
	}

	result, err := processor.controller.CloseListing(ctx, payload.ListingID, nil, ledger.ClosedByDeadline, "")
	if err != nil {
		log.Error().
			Err(err).
			Int64("listing_id", payload.ListingID).
			Msg("failed to close listing")
		return err
	}

	log.Info().
		Int64("listing_id", payload.ListingID).
		Bool("already_closed", result.AlreadyClosed).
		Bool("has_winner", result.HasWinner).
		Float64("final_value", result.FinalValue).
		Msg("listing end task completed")

	return nil
}
