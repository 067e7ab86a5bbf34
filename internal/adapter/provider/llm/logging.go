package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider logs every call with its purpose, latency and token use.
type LoggingProvider struct {
	inner Provider
	log   *slog.Logger
}

// WithLogging wraps p with request logging.
func WithLogging(p Provider, log *slog.Logger) Provider {
	return &LoggingProvider{inner: p, log: log.With("adapter", "llm", "model", p.ModelID())}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		slog.String("purpose", PurposeFrom(ctx)),
		slog.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		attrs = append(attrs, slog.String("schema", req.Schema.Name))
	}
	if err != nil {
		l.log.WarnContext(ctx, "llm request failed", append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}

	l.log.InfoContext(ctx, "llm request",
		append(attrs,
			slog.Int("input_tokens", resp.Usage.InputTokens),
			slog.Int("output_tokens", resp.Usage.OutputTokens),
		)...,
	)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// TimeoutProvider bounds each call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so every Generate runs under d. A non-positive d
// returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
