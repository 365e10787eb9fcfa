package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/resilience"
)

const workerQueueGroup = "workers"

// Queue carries the two pipeline triggers: journal extraction requests
// and evidence summarization requests. Delivery is at-least-once; the
// job claim in the repository makes redelivery harmless.
type Queue struct {
	conn             *nats.Conn
	extractSubject   string
	summarizeSubject string
	executor         *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, extractSubject, summarizeSubject string) (*Queue, error) {
	return NewWithOptions(url, extractSubject, summarizeSubject, Options{})
}

func NewWithOptions(url, extractSubject, summarizeSubject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("daylight-journal"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:             conn,
		extractSubject:   extractSubject,
		summarizeSubject: summarizeSubject,
		executor:         options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishExtractionRequested(ctx context.Context, req domain.ExtractionRequest) error {
	return q.publish(ctx, q.extractSubject, req)
}

func (q *Queue) PublishSummarizeRequested(ctx context.Context, req domain.SummarizeRequest) error {
	return q.publish(ctx, q.summarizeSubject, req)
}

func (q *Queue) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal queue payload: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("nats publish %s: %w", subject, err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

func (q *Queue) SubscribeExtractionRequested(ctx context.Context, handler func(context.Context, domain.ExtractionRequest) error) error {
	return subscribe(ctx, q, q.extractSubject, handler)
}

func (q *Queue) SubscribeSummarizeRequested(ctx context.Context, handler func(context.Context, domain.SummarizeRequest) error) error {
	return subscribe(ctx, q, q.summarizeSubject, handler)
}

func subscribe[T any](ctx context.Context, q *Queue, subject string, handler func(context.Context, T) error) error {
	sub, err := q.conn.QueueSubscribe(subject, workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		var req T
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Error("queue_payload_decode_failed", "subject", subject, "error", err)
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, req); err != nil {
			slog.Error("worker_handler_error", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
