package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/pkg/ai/router"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "LLM"

type OrchestratorConfig struct {
	// MaxAttempts bounds calls to the primary provider.
	MaxAttempts int
	// BaseBackoff is the sleep after the first failed attempt; it doubles
	// after each further failure.
	BaseBackoff time.Duration
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{MaxAttempts: 3, BaseBackoff: time.Second}
}

// Orchestrator runs every model call: bounded retry on the primary provider,
// then exactly one call to the fallback provider.
type Orchestrator struct {
	router   *router.Router
	primary  ProviderClient
	fallback ProviderClient
	logger   logger.ILogger
	cfg      OrchestratorConfig
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewOrchestrator(
	r *router.Router,
	primary ProviderClient,
	fallback ProviderClient,
	log logger.ILogger,
	cfg OrchestratorConfig,
) *Orchestrator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Orchestrator{
		router:   r,
		primary:  primary,
		fallback: fallback,
		logger:   log,
		cfg:      cfg,
		validate: validator.New(),
		tracer:   otel.Tracer("ai-resume-be/pkg/llm"),
	}
}

// attemptFunc performs one provider call. primary tells it which side of the
// fallback boundary it is on.
type attemptFunc[T any] func(ctx context.Context, client ProviderClient, model string, primary bool) (T, error)

// CallText returns clean text from the tier's models. A zero timeout uses the
// tier default.
func (o *Orchestrator) CallText(ctx context.Context, prompt, systemInstruction string, size router.ModelSize, timeout time.Duration) (string, error) {
	text, primaryErr, fallbackErr := execute(ctx, o, "text", size, timeout,
		func(ctx context.Context, client ProviderClient, model string, _ bool) (string, error) {
			raw, err := client.Complete(ctx, prompt, systemInstruction, WithModel(model))
			if err != nil {
				return "", err
			}
			text := StripReasoning(raw)
			if text == "" {
				return "", errors.New("empty completion")
			}
			return text, nil
		})
	if primaryErr == nil || fallbackErr == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	route := o.router.Resolve(size)
	o.logger.Error(logModule, "Text call exhausted all providers", map[string]interface{}{
		"tier":           string(size),
		"primary_model":  route.Primary,
		"fallback_model": route.Fallback,
		"primary_error":  primaryErr.Error(),
		"error":          fallbackErr,
	})
	return "", &ExhaustedError{Tier: size, Primary: primaryErr, Fallback: fallbackErr}
}

// CallStructured returns a T that passed schema and field validation. Parse
// and validation failures are retried like transport failures.
func CallStructured[T any](ctx context.Context, o *Orchestrator, prompt, systemInstruction string, size router.ModelSize, timeout time.Duration) (T, error) {
	var zero T
	schema, err := SchemaFor[T]()
	if err != nil {
		return zero, &StructuredOutputError{Schema: typeName[T](), Err: err}
	}

	out, primaryErr, fallbackErr := execute(ctx, o, schema.Name, size, timeout,
		func(ctx context.Context, client ProviderClient, model string, primary bool) (T, error) {
			opts := []Option{WithModel(model)}
			if primary {
				opts = append(opts, WithTemperature(0))
			}
			raw, err := client.CompleteStructured(ctx, prompt, systemInstruction, schema, opts...)
			if err != nil {
				return zero, err
			}
			return Decode[T](schema, raw, o.validate)
		})
	if primaryErr == nil || fallbackErr == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return zero, &StructuredOutputError{Schema: schema.Name, Err: ctx.Err()}
	}

	route := o.router.Resolve(size)
	o.logger.Error(logModule, "Structured call exhausted all providers", map[string]interface{}{
		"tier":           string(size),
		"schema":         schema.Name,
		"primary_model":  route.Primary,
		"fallback_model": route.Fallback,
		"primary_error":  primaryErr.Error(),
		"error":          fallbackErr,
	})
	return zero, &StructuredOutputError{Schema: schema.Name, Err: fallbackErr}
}

// execute runs the primary with backoff and, if it never succeeds, the
// fallback once. primaryErr is nil when the primary succeeded; fallbackErr is
// nil when the fallback was not needed or succeeded.
func execute[T any](ctx context.Context, o *Orchestrator, label string, size router.ModelSize, timeout time.Duration, call attemptFunc[T]) (result T, primaryErr error, fallbackErr error) {
	route := o.router.Resolve(size)
	if timeout <= 0 {
		timeout = route.Timeout
	}

	attempt := 0
	result, primaryErr = backoff.Retry(ctx,
		func() (T, error) {
			attempt++
			v, err := invoke(ctx, o, label, size, timeout, o.primary, route.Primary, attempt, true, call)
			if err != nil {
				o.logger.Warn(logModule, "Primary provider attempt failed", map[string]interface{}{
					"tier":     string(size),
					"call":     label,
					"provider": o.primary.Name(),
					"model":    route.Primary,
					"attempt":  attempt,
					"error":    err,
				})
			}
			return v, err
		},
		backoff.WithBackOff(o.newBackOff()),
		backoff.WithMaxTries(uint(o.cfg.MaxAttempts)),
	)
	if primaryErr == nil {
		return result, nil, nil
	}
	// An abandoned request must not spend a fallback call.
	if ctx.Err() != nil {
		var zero T
		return zero, primaryErr, ctx.Err()
	}

	o.logger.Warn(logModule, "Primary provider exhausted, switching to fallback", map[string]interface{}{
		"tier":     string(size),
		"call":     label,
		"provider": o.fallback.Name(),
		"model":    route.Fallback,
		"error":    primaryErr,
	})
	result, fallbackErr = invoke(ctx, o, label, size, timeout, o.fallback, route.Fallback, 1, false, call)
	return result, primaryErr, fallbackErr
}

// invoke bounds one provider call by timeout and records it as a span.
func invoke[T any](ctx context.Context, o *Orchestrator, label string, size router.ModelSize, timeout time.Duration, client ProviderClient, model string, attempt int, primary bool, call attemptFunc[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "llm.attempt", trace.WithAttributes(
		attribute.String("llm.call", label),
		attribute.String("llm.tier", string(size)),
		attribute.String("llm.provider", client.Name()),
		attribute.String("llm.model", model),
		attribute.Int("llm.attempt", attempt),
		attribute.Bool("llm.primary", primary),
	))
	defer span.End()

	v, err := call(ctx, client, model, primary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func (o *Orchestrator) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.cfg.BaseBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = o.cfg.BaseBackoff << uint(o.cfg.MaxAttempts)
	return b
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
