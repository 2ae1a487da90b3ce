package browser

import (
	"agent-textweb/internal/config"
	"agent-textweb/internal/entity"
	"agent-textweb/pkg/apperr"
	"agent-textweb/pkg/logg"
	"agent-textweb/pkg/tracing"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	clientName    = "TextWebClient"
	clientTracer  = "browser.client"
	logBodyLimit  = 512
	requestHeader = "X-Request-ID"
)

var errClientClosed = errors.New("session client is closed")

// Client talks to one browser session service instance. It owns a single
// transport whose connections are reused across calls until Close.
type Client struct {
	baseURL    string
	logger     *zap.Logger
	tracer     trace.Tracer
	transport  *http.Transport
	httpClient *http.Client
	closed     atomic.Bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewClient(params Params) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		baseURL:   strings.TrimRight(params.Config.TextWebConfig.BaseURL, "/"),
		logger:    params.Logger.With(zap.String(logg.Layer, clientName)),
		tracer:    otel.Tracer(clientTracer),
		transport: transport,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   params.Config.TextWebConfig.Timeout,
		},
	}
}

// Do sends one action to its endpoint and returns the resulting page.
func (c *Client) Do(ctx context.Context, req entity.ActionRequest) (*entity.PageSnapshot, error) {
	const op = "Do"

	endpoint, ok := req.Type.Endpoint()
	if !ok {
		return nil, apperr.InvalidReqError(op, "action", fmt.Errorf("unknown action %q", req.Type))
	}

	body, err := requestBody(req)
	if err != nil {
		return nil, apperr.InvalidReqError(op, "ref", err)
	}

	return c.Call(ctx, endpoint, body)
}

// Call issues one request. POST bodies are JSON encoded, nil becomes {}.
func (c *Client) Call(ctx context.Context, endpoint entity.Endpoint, body any) (snapshot *entity.PageSnapshot, err error) {
	const op = "Call"
	requestID := uuid.NewString()
	logger := c.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.Endpoint, endpoint.String()),
		zap.String(logg.RequestID, requestID),
	)

	ctx, step := tracing.StartSpan(ctx, c.tracer, logger, op,
		attribute.String("textweb.method", endpoint.Method),
		attribute.String("textweb.path", endpoint.Path),
		attribute.String("textweb.request_id", requestID))
	defer func() {
		step.End(err)
	}()

	meta := func() map[string]any {
		return map[string]any{
			apperr.MetaEndpoint: endpoint.Path,
			apperr.MetaMethod:   endpoint.Method,
		}
	}

	if !entity.IsKnownEndpoint(endpoint) {
		return nil, apperr.InvalidReqError(op, "endpoint", fmt.Errorf("unknown endpoint %s", endpoint))
	}

	if c.closed.Load() {
		return nil, apperr.TransportError(op, false, errClientClosed, meta())
	}

	var payload io.Reader

	if endpoint.Method == http.MethodPost {
		if body == nil {
			body = struct{}{}
		}

		step.AddEvent("encoding body")

		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "marshal_failed",
				apperr.MetaStage:  apperr.StageTransport,
			})
		}

		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, endpoint.Method, c.baseURL+endpoint.Path, payload)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "request_create_failed",
			apperr.MetaStage:  apperr.StageTransport,
		})
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestHeader, requestID)

	logger.Debug("Calling session service")
	step.AddEvent("sending request")

	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Session service unreachable", zap.Error(err))

		return nil, apperr.TransportError(op, isTimeout(err), err, meta())
	}
	defer resp.Body.Close()

	step.AddEvent("reading response", attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.TransportError(op, isTimeout(err), err, meta())
	}

	logger = logger.With(zap.Int("status_code", resp.StatusCode), zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warn("Session service rejected request", zap.String("body", truncate(raw, logBodyLimit)))

		return nil, apperr.RemoteServiceError(op, resp.StatusCode, raw,
			fmt.Errorf("session service returned status %d", resp.StatusCode), meta())
	}

	snapshot, err = DecodeSnapshot(raw)
	if err != nil {
		logger.Warn("Session service returned an unreadable body", zap.String("body", truncate(raw, logBodyLimit)))

		decodeMeta := meta()
		decodeMeta[apperr.MetaStage] = apperr.StageDecode

		return nil, apperr.RemoteServiceError(op, resp.StatusCode, raw, err, decodeMeta)
	}

	step.SetAttributes(attribute.Int("textweb.elements", len(snapshot.Elements)))
	logger.Debug("Session service responded", zap.Int("elements", len(snapshot.Elements)))

	return snapshot, nil
}

// Close releases pooled connections. Calls made afterwards fail with a
// transport error.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	c.transport.CloseIdleConnections()
	c.logger.Debug("Session client closed")

	return nil
}

type navigateBody struct {
	URL string `json:"url"`
}

type refBody struct {
	Ref int `json:"ref"`
}

type typeBody struct {
	Ref  int    `json:"ref"`
	Text string `json:"text"`
}

type selectBody struct {
	Ref   int    `json:"ref"`
	Value string `json:"value"`
}

type scrollBody struct {
	Direction string `json:"direction"`
	Amount    int    `json:"amount"`
}

// requestBody is the single place where a Ref becomes a wire integer.
func requestBody(req entity.ActionRequest) (any, error) {
	switch req.Type {
	case entity.ActionTypeNavigate:
		return navigateBody{URL: req.URL}, nil
	case entity.ActionTypeClick:
		ref, err := req.Ref.Int()
		if err != nil {
			return nil, err
		}

		return refBody{Ref: ref}, nil
	case entity.ActionTypeType:
		ref, err := req.Ref.Int()
		if err != nil {
			return nil, err
		}

		return typeBody{Ref: ref, Text: req.Text}, nil
	case entity.ActionTypeSelect:
		ref, err := req.Ref.Int()
		if err != nil {
			return nil, err
		}

		return selectBody{Ref: ref, Value: req.Value}, nil
	case entity.ActionTypeScroll:
		return scrollBody{Direction: req.Direction, Amount: req.Amount}, nil
	default:
		return nil, nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}

	return string(raw[:limit]) + "..."
}
