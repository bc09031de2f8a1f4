package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/katatrina/auctsite-BE/api"
	"github.com/katatrina/auctsite-BE/internal/chat"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/katatrina/auctsite-BE/internal/sweeper"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/katatrina/auctsite-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	pingErr := connPool.Ping(context.Background())
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	if err = redisDb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis 😣")
	}
	log.Info().Msg("connected to redis ✅")

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}

	// Broadcast hub
	eventSender := event.NewHub()
	go eventSender.Run()

	// Bid ledger and lifecycle controller
	bidLedger := ledger.NewLedger(store, eventSender, config.BidCeiling)
	controller := ledger.NewController(store, eventSender, bidLedger)

	taskDistributor := worker.NewTaskDistributor(redisOpt)
	taskInspector := worker.NewTaskInspector(redisOpt)

	bidLedger.SetScheduleEndHook(func(listing db.Listing) {
		err := taskDistributor.DistributeTaskEndListing(context.Background(),
			&worker.PayloadEndListing{ListingID: listing.ID},
			asynq.ProcessAt(listing.EndsAt),
			asynq.Queue(worker.QueueCritical),
		)
		if err != nil {
			log.Warn().Err(err).Int64("listing_id", listing.ID).Msg("failed to schedule listing end task")
		}
	})
	controller.SetCancelEndTaskHook(func(ctx context.Context, listingID int64) error {
		return taskInspector.DeleteTask(ctx, worker.QueueCritical, worker.EndListingTaskID(listingID))
	})
	controller.SetNotifyWinnerHook(func(ctx context.Context, listing db.Listing, winner db.User, finalValue float64) error {
		return taskDistributor.DistributeTaskNotifyWinner(ctx,
			&worker.PayloadNotifyWinner{
				ListingID:  listing.ID,
				WinnerID:   winner.ID,
				FinalValue: finalValue,
			},
			asynq.Queue(worker.QueueDefault),
		)
	})

	relay := chat.NewRelay(store, eventSender)

	// Task processor for deadline closes and winner notifications
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, store, controller, relay)
	go func() {
		if err := taskProcessor.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start task processor 😣")
		}
	}()
	log.Info().Msg("task processor started ✅")

	// Safety-net sweep for listings whose end task was lost
	listingSweeper, err := sweeper.NewListingSweeper(store, controller, config.ListingSweepInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create listing sweeper 😣")
	}
	if err = listingSweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start listing sweeper 😣")
	}
	log.Info().Msg("listing sweeper started ✅")

	runHTTPServer(&config, store, eventSender, bidLedger, controller, relay, taskDistributor)
}

func runHTTPServer(
	config *util.Config,
	store db.Store,
	eventSender event.EventSender,
	bidLedger *ledger.Ledger,
	controller *ledger.Controller,
	relay *chat.Relay,
	taskDistributor worker.TaskDistributor,
) {
	server, err := api.NewServer(store, config, eventSender, bidLedger, controller, relay, taskDistributor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
