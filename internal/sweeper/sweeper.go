package sweeper

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/rs/zerolog/log"
)

// ListingSweeper periodically scans for open listings whose deadline already
// passed and closes them. It is the safety net under the scheduled end tasks:
// if the queue lost a task or the process was down at the deadline, the sweep
// still converges every interval.
type ListingSweeper struct {
	store      db.Store
	controller *ledger.Controller
	interval   time.Duration
	scheduler  gocron.Scheduler
}

func NewListingSweeper(store db.Store, controller *ledger.Controller, interval time.Duration) (*ListingSweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &ListingSweeper{
		store:      store,
		controller: controller,
		interval:   interval,
		scheduler:  scheduler,
	}, nil
}

// Start runs the sweep job every interval.
func (s *ListingSweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(
			func() {
				s.sweepExpiredListings()
			},
		),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (s *ListingSweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *ListingSweeper) sweepExpiredListings() {
	ctx := context.Background()

	expired, err := s.store.ListExpiredListings(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to list expired listings")
		return
	}
	if len(expired) == 0 {
		return
	}

	log.Info().
		Int("count", len(expired)).
		Msg("sweeping expired listings")

	for _, listing := range expired {
		// Every close is idempotent, so racing the scheduled end task here
		// is harmless.
		if _, err := s.controller.CloseListing(ctx, listing.ID, nil, ledger.ClosedByDeadline, ""); err != nil {
			log.Error().
				Err(err).
				Int64("listing_id", listing.ID).
				Msg("failed to close expired listing")
		}
	}
}
