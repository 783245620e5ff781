package events

import (
	"context"
	"time"

	"ai-resume-be/internal/pkg/logger"
)

// Sink delivers one event to a bus.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher emits conversation analytics. Delivery is best effort: failures
// are logged and never reach the caller.
type Publisher interface {
	PublishVisitorReady(ctx context.Context, turns int, summary string)
	PublishBlockGenerated(ctx context.Context, focus string, usedExperienceIds []string, fallbackSummary bool)
	PublishButtonsServed(ctx context.Context, labels []string, static bool)
}

type busPublisher struct {
	sink   Sink
	logger logger.ILogger
	now    func() time.Time
}

// NewPublisher returns a Publisher over sink. A nil sink discards events.
func NewPublisher(sink Sink, log logger.ILogger) Publisher {
	return &busPublisher{sink: sink, logger: log, now: time.Now}
}

func (p *busPublisher) PublishVisitorReady(ctx context.Context, turns int, summary string) {
	p.emit(ctx, TypeVisitorReady, map[string]interface{}{
		"turns":           turns,
		"summary_length":  len(summary),
		"visitor_summary": summary,
	})
}

func (p *busPublisher) PublishBlockGenerated(ctx context.Context, focus string, usedExperienceIds []string, fallbackSummary bool) {
	p.emit(ctx, TypeBlockGenerated, map[string]interface{}{
		"focus":               focus,
		"used_experience_ids": usedExperienceIds,
		"fallback_summary":    fallbackSummary,
	})
}

func (p *busPublisher) PublishButtonsServed(ctx context.Context, labels []string, static bool) {
	p.emit(ctx, TypeButtonsServed, map[string]interface{}{
		"labels": labels,
		"static": static,
	})
}

func (p *busPublisher) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sink == nil {
		return
	}
	now := p.now()
	data["occurred_at"] = now
	evt := BaseEvent{Type: eventType, Data: data, OccurredAt: now}
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}
