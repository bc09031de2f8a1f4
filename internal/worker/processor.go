package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/katatrina/auctsite-BE/internal/chat"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/rs/zerolog/log"
)

/*
 This file contains code that will pick up the tasks from the Redis queue and process them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type RedisTaskProcessor struct {
	server     *asynq.Server
	store      db.Store
	controller *ledger.Controller
	relay      *chat.Relay
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, store db.Store, controller *ledger.Controller, relay *chat.Relay) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)

	return &RedisTaskProcessor{
		server:     server,
		store:      store,
		controller: controller,
		relay:      relay,
	}
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskEndListing, processor.ProcessTaskEndListing)
	mux.HandleFunc(TaskNotifyWinner, processor.ProcessTaskNotifyWinner)

	return processor.server.Start(mux)
}

// Shutdown drains in-flight tasks and stops the server.
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
