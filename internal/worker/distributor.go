package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

const (
	TaskEndListing   = "listing:end"
	TaskNotifyWinner = "listing:notify_winner"
)

/*
This file will contain the codes to create tasks and distributes them to the Redis queue.
*/

type TaskDistributor interface {
	DistributeTaskEndListing(ctx context.Context, payload *PayloadEndListing, opts ...asynq.Option) error
	DistributeTaskNotifyWinner(ctx context.Context, payload *PayloadNotifyWinner, opts ...asynq.Option) error
}

type RedisTaskDistributor struct {
	client *asynq.Client // client sends tasks to redis queue.
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		client: client,
	}
}
