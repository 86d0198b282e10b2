package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/resilience"
)

const (
	HeaderFilename = "Filename"
	HeaderStatus   = "Status"

	statusOK    = "ok"
	statusError = "error"

	workerQueueGroup = "workers"
)

type Bus struct {
	conn           *nats.Conn
	eventsSubject  string
	requestSubject string
	executor       *resilience.Executor
}

type Options struct {
	EventsSubject        string
	RequestSubject       string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url string, options Options) (*Bus, error) {
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
		nats.Name("legal-clause-validator"),
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
	return &Bus{
		conn:           conn,
		eventsSubject:  options.EventsSubject,
		requestSubject: options.RequestSubject,
		executor:       options.ResilienceExecutor,
	}, nil
}

func (b *Bus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

func (b *Bus) PublishAnalysisCompleted(ctx context.Context, event domain.AnalysisCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal analysis event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := b.conn.Publish(b.eventsSubject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if b.executor != nil {
		err = b.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded("nats publish", err)
	}
	return nil
}

// AnalyzeHandler runs one analysis for a request message.
type AnalyzeHandler func(ctx context.Context, filename string, content []byte) (*domain.Analysis, error)

// ServeAnalyze answers analysis requests in the workers queue group until ctx is done.
func (b *Bus) ServeAnalyze(ctx context.Context, timeout time.Duration, handler AnalyzeHandler) error {
	sub, err := b.conn.QueueSubscribe(b.requestSubject, workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		handlerCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		filename := msg.Header.Get(HeaderFilename)
		analysis, err := handler(handlerCtx, filename, msg.Data)
		reply := encodeReply(msg.Subject, analysis, err)
		if err != nil {
			slog.Warn("worker_analysis_failed", "filename", filename, "stage", domain.StageOf(err), "error", err)
		}
		if msg.Reply == "" {
			return
		}
		if err := msg.RespondMsg(reply); err != nil {
			slog.Error("worker_reply_failed", "filename", filename, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := b.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := b.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// RequestAnalysis sends a document to a worker and waits for its answer.
func (b *Bus) RequestAnalysis(ctx context.Context, filename string, content []byte) (*domain.Analysis, error) {
	msg := nats.NewMsg(b.requestSubject)
	msg.Header.Set(HeaderFilename, filename)
	msg.Data = content

	resp, err := b.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("nats request", err)
	}
	return decodeReply(resp)
}

// RemoteAnalyzer runs the pipeline on a worker over the request subject.
type RemoteAnalyzer struct {
	bus *Bus
}

func NewRemoteAnalyzer(bus *Bus) *RemoteAnalyzer {
	return &RemoteAnalyzer{bus: bus}
}

func (a *RemoteAnalyzer) Analyze(ctx context.Context, doc domain.Document) (*domain.Analysis, error) {
	return a.bus.RequestAnalysis(ctx, doc.Filename, doc.Content)
}
