package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

var errStreamingUnsupported = errors.New("response writer does not support flushing")

// Handler exposes a Session over HTTP: keypad input in, display projection
// out.
type Handler struct {
	session *Session
}

func NewHandler(session *Session) *Handler {
	return &Handler{session: session}
}

// ---------------------------------------------------------------------------
// Handlers: keypad input
// ---------------------------------------------------------------------------

// Digit handles POST /calculator/digit
func (h *Handler) Digit(w http.ResponseWriter, r *http.Request) {
	h.handleInput(w, r, "digit", func(r *http.Request) (Input, error) {
		var req DigitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return Input{}, err
		}
		if req.Digit == nil {
			return Input{}, fmt.Errorf("%w: missing digit", ErrInvalidDigit)
		}
		return DigitInput(*req.Digit)
	})
}

// Operator handles POST /calculator/operator
func (h *Handler) Operator(w http.ResponseWriter, r *http.Request) {
	h.handleInput(w, r, "operator", func(r *http.Request) (Input, error) {
		var req OperatorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return Input{}, err
		}
		op, err := ParseOperator(req.Operator)
		if err != nil {
			return Input{}, err
		}
		return OperatorInput(op), nil
	})
}

// Action handles POST /calculator/action
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	h.handleInput(w, r, "action", func(r *http.Request) (Input, error) {
		var req ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return Input{}, err
		}
		a, err := ParseAction(req.Action)
		if err != nil {
			return Input{}, err
		}
		return ActionInput(a), nil
	})
}

// Button handles POST /calculator/button, a keypad button press described
// by its data attributes.
func (h *Handler) Button(w http.ResponseWriter, r *http.Request) {
	h.handleInput(w, r, "button", func(r *http.Request) (Input, error) {
		var req ButtonRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return Input{}, err
		}
		return ClassifyButton(req.Number, req.Operator, req.Action)
	})
}

// handleInput is the shared implementation for the keypad endpoints: decode,
// hand the input to the session inside a span, record metrics and log.
func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request, opName string, decode func(*http.Request) (Input, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.endpoint", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	in, err := decode(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	display, ok := h.submit(ctx, span, logger, opName, in, w)
	if !ok {
		return
	}

	handlers.WriteJSON(w, http.StatusOK, display)
}

// Key handles POST /calculator/key with a raw keyboard key. Keys outside the
// keypad are reported as unhandled rather than rejected.
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	const opName = "key"
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.key",
		trace.WithAttributes(
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	span.SetAttributes(attribute.String("calculator.key", req.Key))

	resp := KeyResponse{PreventDefault: IsCalculatorKey(req.Key)}

	in, handled := ClassifyKey(req.Key)
	if !handled {
		display, err := h.session.Display(ctx)
		if err != nil {
			h.recordSessionError(ctx, span, logger, opName, err, w)
			return
		}
		span.AddEvent("key.unhandled")
		span.SetStatus(codes.Ok, "")
		resp.Display = display
		handlers.WriteJSON(w, http.StatusOK, resp)
		return
	}

	display, ok := h.submit(ctx, span, logger, opName, in, w)
	if !ok {
		return
	}
	resp.Handled = true
	resp.Display = display
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// submit drives the session and records the outcome on span, metrics and
// log. It reports false when an error response was already written.
func (h *Handler) submit(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, in Input, w http.ResponseWriter) (Display, bool) {
	span.SetAttributes(attribute.String("calculator.input", in.String()))

	start := time.Now()
	display, err := h.session.Submit(ctx, in)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		h.recordSessionError(ctx, span, logger, opName, err, w)
		return Display{}, false
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("kind", in.Kind.String()),
	)
	inputCounter.Add(ctx, 1, attrs)
	inputHistogram.Record(ctx, elapsed, attrs)

	span.AddEvent("input.applied", trace.WithAttributes(
		attribute.String("display.current_text", display.CurrentText),
		attribute.Bool("display.error_active", display.ErrorActive),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator input applied",
		zap.String("operation", opName),
		zap.Stringer("input", in),
		zap.String("current_text", display.CurrentText),
		zap.String("history_text", display.HistoryText),
		zap.Bool("error_active", display.ErrorActive),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)
	return display, true
}

func (h *Handler) recordSessionError(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	status := http.StatusServiceUnavailable
	msg := "calculator unavailable"
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		msg = "request cancelled"
	}
	observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, status, w)
}

// ---------------------------------------------------------------------------
// Handlers: display projection
// ---------------------------------------------------------------------------

// Display handles GET /calculator/display
func (h *Handler) Display(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.display")
	defer span.End()

	display, err := h.session.Display(ctx)
	if err != nil {
		h.recordSessionError(ctx, span, logger, "display", err, w)
		return
	}
	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, display)
}

// Events handles GET /calculator/events, a server-sent event stream with
// one "display" event per change, starting with the current projection.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	const opName = "events"
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.events",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	flusher, ok := w.(http.Flusher)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "streaming unsupported", errStreamingUnsupported, http.StatusInternalServerError, w)
		return
	}

	updates, cancel, err := h.session.Subscribe(ctx)
	if err != nil {
		h.recordSessionError(ctx, span, logger, opName, err, w)
		return
	}
	defer cancel()

	subscriberGauge.Add(ctx, 1)
	defer subscriberGauge.Add(context.WithoutCancel(ctx), -1)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	span.AddEvent("stream.opened")
	span.SetStatus(codes.Ok, "")
	logger.Info("display stream opened", zap.String("request_id", requestID))
	defer logger.Info("display stream closed", zap.String("request_id", requestID))

	for {
		select {
		case <-ctx.Done():
			return
		case display, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(display)
			if err != nil {
				logger.Error("encoding display event", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: display\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
