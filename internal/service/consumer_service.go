package service

import (
	"context"
	"encoding/json"

	"ai-resume-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ReindexTopic carries requests to re-run ingestion.
const ReindexTopic = "experience.reindex"

// ReindexMessage is the payload on ReindexTopic.
type ReindexMessage struct {
	Reason string `json:"reason"`
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	ingest     IIngestService
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, ingest IIngestService, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		ingest:     ingest,
		logger:     log,
	}
}

// Consume subscribes and processes reindex requests until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload ReindexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Dropping malformed reindex message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		msg.Ack()
		return
	}

	cs.logger.Info("CONSUMER", "Reindex requested", map[string]interface{}{
		"message_id": msg.UUID,
		"reason":     payload.Reason,
	})

	report, err := cs.ingest.Sync(ctx)
	if err != nil {
		fields := map[string]interface{}{"error": err}
		if report != nil {
			fields["failed"] = report.Failed
		}
		cs.logger.Error("CONSUMER", "Reindex failed", fields)
		// gochannel redelivers a nacked message at once, so only a
		// cancelled run is handed back.
		if ctx.Err() != nil {
			msg.Nack()
			return
		}
	}
	msg.Ack()
}
