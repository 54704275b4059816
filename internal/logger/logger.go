// Package logger is the process-wide structured logger. Records carry the
// trace and span ids of the context they are logged under. Logs and traces
// go to stderr so command output on stdout stays clean.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "bullbear-qa"
	serviceVersion = "0.1.0"
)

var (
	globalLogger    *slog.Logger
	detailedLogging bool
	tracingEnabled  bool
	tracer          trace.Tracer
	tracerProvider  *sdktrace.TracerProvider
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or text
	DetailedLogging bool
	TracingEnabled  bool
	Output          io.Writer
}

// Init configures logging from LOG_LEVEL, LOG_FORMAT, LOG_DETAILED and
// LOG_TRACING_ENABLED.
func Init() error {
	return InitWithConfig(configFromEnv())
}

func configFromEnv() LogConfig {
	return LogConfig{
		Level:           envOr("LOG_LEVEL", "WARN"),
		Format:          envOr("LOG_FORMAT", "text"),
		DetailedLogging: envOr("LOG_DETAILED", "false") == "true",
		TracingEnabled:  envOr("LOG_TRACING_ENABLED", "false") == "true",
	}
}

func InitWithConfig(cfg LogConfig) error {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	detailedLogging = cfg.DetailedLogging
	tracingEnabled = cfg.TracingEnabled

	// Source is added by logWithTrace so middleware can attribute records to
	// the wrapped call site.
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	if tracingEnabled {
		if err := initTracer(out); err != nil {
			globalLogger.Warn("Tracer setup failed, tracing disabled", "error", err)
			tracingEnabled = false
		}
	}
	return nil
}

func initTracer(out io.Writer) error {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return err
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return err
	}
	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(serviceName)
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	return tracerProvider.Shutdown(ctx)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// StartSpan starts a span, or returns the current one when tracing is off.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !tracingEnabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// activeSpan returns the recording span in ctx, if any.
func activeSpan(ctx context.Context) (trace.Span, bool) {
	if !tracingEnabled {
		return nil, false
	}
	span := trace.SpanFromContext(ctx)
	return span, span.SpanContext().IsValid()
}

// toAttrs converts alternating key/value fields to span attributes. Values of
// other types are skipped.
func toAttrs(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		case []string:
			attrs = append(attrs, attribute.StringSlice(key, v))
		}
	}
	return attrs
}

func Debug(ctx context.Context, msg string, args ...any) {
	if detailedLogging {
		logWithTrace(ctx, slog.LevelDebug, msg, 2, args...)
	}
}

func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelWarn, msg, 2, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelError, msg, 2, args...)
}

// ErrorWithErr logs err and marks the active span as failed.
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	markFailed(ctx, err)
	logWithTrace(ctx, slog.LevelError, msg, 2, append([]any{"error", err}, args...)...)
}

// InfoSkip logs at info level attributing the record to a caller skip frames
// further up. Middleware uses the Skip variants so records point at the
// wrapped call site.
func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2+skip, args...)
}

func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	if detailedLogging {
		logWithTrace(ctx, slog.LevelDebug, msg, 2+skip, args...)
	}
}

func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	markFailed(ctx, err)
	logWithTrace(ctx, slog.LevelError, msg, 2+skip, append([]any{"error", err}, args...)...)
}

func markFailed(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if span, ok := activeSpan(ctx); ok {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// logWithTrace writes one record. skip counts frames above runtime.Caller:
// logWithTrace, the exported helper, then the caller.
func logWithTrace(ctx context.Context, level slog.Level, msg string, skip int, args ...any) {
	if span, ok := activeSpan(ctx); ok {
		sc := span.SpanContext()
		args = append([]any{"trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()}, args...)
	}
	if detailedLogging {
		if pc, file, line, ok := runtime.Caller(skip); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				args = append(args, "source", slog.GroupValue(
					slog.String("function", fn.Name()),
					slog.String("file", file),
					slog.Int("line", line),
				))
			}
		}
	}

	l := globalLogger
	if l == nil {
		l = slog.Default()
	}
	l.Log(ctx, level, msg, args...)
}

// OperationTimer times one collaborator call under its own span.
type OperationTimer struct {
	ctx    context.Context
	span   trace.Span
	start  time.Time
	fields []any
}

func StartOperation(ctx context.Context, operation string, fields ...any) *OperationTimer {
	var span trace.Span
	if tracingEnabled {
		ctx, span = StartSpan(ctx, operation)
		span.SetAttributes(toAttrs(fields)...)
	}
	Debug(ctx, "Operation started", append([]any{"operation", operation}, fields...)...)
	return &OperationTimer{ctx: ctx, span: span, start: time.Now(), fields: fields}
}

func (ot *OperationTimer) End(fields ...any) {
	elapsed := time.Since(ot.start).Milliseconds()
	if ot.span != nil {
		ot.span.SetAttributes(attribute.Int64("duration_ms", elapsed))
		ot.span.SetAttributes(toAttrs(fields)...)
		ot.span.SetStatus(codes.Ok, "")
		ot.span.End()
	}
	all := append(append([]any{}, ot.fields...), "duration_ms", elapsed)
	Debug(ot.ctx, "Operation completed", append(all, fields...)...)
}

func (ot *OperationTimer) EndWithError(err error, fields ...any) {
	elapsed := time.Since(ot.start).Milliseconds()
	if ot.span != nil {
		ot.span.SetAttributes(attribute.Int64("duration_ms", elapsed))
		ot.span.RecordError(err)
		ot.span.SetStatus(codes.Error, err.Error())
		ot.span.End()
	}
	all := append(append([]any{}, ot.fields...), "duration_ms", elapsed, "error", err)
	Error(ot.ctx, "Operation failed", append(all, fields...)...)
}

// logEvent logs a domain event at info level and mirrors it onto the active
// span. fields must alternate keys and values.
func logEvent(ctx context.Context, kind, name, msg string, fields ...any) {
	if span, ok := activeSpan(ctx); ok {
		span.AddEvent(name, trace.WithAttributes(toAttrs(fields)...))
	}
	logWithTrace(ctx, slog.LevelInfo, msg, 3, append([]any{"type", kind}, fields...)...)
}

// Route logs an intent routing decision.
func Route(ctx context.Context, intent string, tickers []string, confidence, method string, fields ...any) {
	logEvent(ctx, "ROUTE", "intent_routed", "Question routed",
		append([]any{"intent", intent, "tickers", tickers, "confidence", confidence, "method", method}, fields...)...)
}

// Score logs a computed investment score.
func Score(ctx context.Context, score int, rating string, fields ...any) {
	logEvent(ctx, "SCORE", "investment_scored", "Investment scored",
		append([]any{"score", score, "rating", rating}, fields...)...)
}

// Strategy logs a generated trade plan.
func Strategy(ctx context.Context, symbol, action string, entry, target, stop float64, fields ...any) {
	logEvent(ctx, "STRATEGY", "strategy_generated", "Strategy generated",
		append([]any{"symbol", symbol, "action", action, "entry", entry, "target", target, "stop", stop}, fields...)...)
}

// Ledger logs a paper-trade ledger mutation.
func Ledger(ctx context.Context, tradeID int, symbol, event string, fields ...any) {
	logEvent(ctx, "LEDGER", "ledger_event", "Ledger updated",
		append([]any{"trade_id", tradeID, "symbol", symbol, "event", event}, fields...)...)
}

func IsTracingEnabled() bool {
	return tracingEnabled
}
