package toolset

import (
	"agent-textweb/internal/config"
	"agent-textweb/internal/entity"
	"agent-textweb/internal/ports"
	"agent-textweb/internal/render"
	"agent-textweb/internal/schema"
	"agent-textweb/pkg/apperr"
	"agent-textweb/pkg/logg"
	"agent-textweb/pkg/tracing"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	toolsetName   = "Toolset"
	toolsetTracer = "toolset"
)

// Toolset is the framework-neutral side of every tool binding: validate the
// arguments, call the session service, format the page.
type Toolset struct {
	client    ports.SessionClient
	formatter *render.Formatter
	logger    *zap.Logger
	tracer    trace.Tracer
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Client ports.SessionClient
}

func New(params Params) *Toolset {
	return &Toolset{
		client:    params.Client,
		formatter: render.NewFormatter(render.WithRefCount(params.Config.TextWebConfig.ShowRefCount)),
		logger:    params.Logger.With(zap.String(logg.Layer, toolsetName)),
		tracer:    otel.Tracer(toolsetTracer),
	}
}

func (t *Toolset) Actions() []schema.Action {
	return schema.Actions()
}

// Invoke runs the named tool with decoded JSON arguments.
func (t *Toolset) Invoke(ctx context.Context, name string, args map[string]any) (result string, err error) {
	const op = "Invoke"
	logger := t.logger.With(zap.String(logg.Operation, op), zap.String(logg.Tool, name))

	ctx, step := tracing.StartSpan(ctx, t.tracer, logger, op,
		attribute.String("tool", name))
	defer func() {
		step.End(err)
	}()

	action, ok := schema.Lookup(name)
	if !ok {
		return "", apperr.Wrap(op, apperr.CodeInvalidArgument, fmt.Errorf("unknown tool %q", name), map[string]any{
			apperr.MetaField:  "tool",
			apperr.MetaTool:   name,
			apperr.MetaReason: "unknown_tool",
			apperr.MetaStage:  apperr.StageValidation,
		})
	}

	req, err := action.Validate(args)
	if err != nil {
		logger.Info("Rejected tool arguments", zap.Error(err))

		return "", err
	}

	return t.Do(ctx, req)
}

// InvokeJSON is Invoke for bindings that hand over raw argument JSON.
func (t *Toolset) InvokeJSON(ctx context.Context, name string, raw json.RawMessage) (string, error) {
	const op = "InvokeJSON"

	args := map[string]any{}

	if len(bytes.TrimSpace(raw)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()

		if err := dec.Decode(&args); err != nil {
			return "", apperr.InvalidReqError(op, "arguments", fmt.Errorf("arguments must be a JSON object: %w", err))
		}
	}

	return t.Invoke(ctx, name, args)
}

// Do sends a validated request and formats the resulting page.
func (t *Toolset) Do(ctx context.Context, req entity.ActionRequest) (result string, err error) {
	const op = "Do"
	logger := t.logger.With(zap.String(logg.Operation, op), zap.String(logg.Action, string(req.Type)))

	ctx, step := tracing.StartSpan(ctx, t.tracer, logger, op,
		attribute.String("action_type", string(req.Type)))
	defer func() {
		step.End(err)
	}()

	if req.Ref != "" {
		logger = logger.With(zap.String(logg.Ref, req.Ref.String()))
	}

	if req.URL != "" {
		logger = logger.With(zap.String(logg.URL, req.URL))
	}

	step.AddEvent("calling session service")

	snapshot, err := t.client.Do(ctx, req)
	if err != nil {
		logger.Warn("Tool call failed", zap.String("code", apperr.CodeOf(err)), zap.Error(err))

		return "", err
	}

	logger.Info("Tool call completed",
		zap.String("page_url", snapshot.Meta.URL),
		zap.Int("elements", len(snapshot.Elements)))

	return t.formatter.Format(snapshot), nil
}

func (t *Toolset) Navigate(ctx context.Context, url string) (string, error) {
	return t.Invoke(ctx, string(entity.ActionTypeNavigate), map[string]any{"url": url})
}

func (t *Toolset) Click(ctx context.Context, ref entity.Ref) (string, error) {
	return t.Invoke(ctx, string(entity.ActionTypeClick), map[string]any{"ref": string(ref)})
}

func (t *Toolset) Type(ctx context.Context, ref entity.Ref, text string) (string, error) {
	return t.Invoke(ctx, string(entity.ActionTypeType), map[string]any{"ref": string(ref), "text": text})
}

func (t *Toolset) Select(ctx context.Context, ref entity.Ref, value string) (string, error) {
	return t.Invoke(ctx, string(entity.ActionTypeSelect), map[string]any{"ref": string(ref), "value": value})
}

func (t *Toolset) Scroll(ctx context.Context, direction string, amount int) (string, error) {
	return t.Invoke(ctx, string(entity.ActionTypeScroll), map[string]any{"direction": direction, "amount": amount})
}

func (t *Toolset) Snapshot(ctx context.Context) (string, error) {
	return t.Invoke(ctx, string(entity.ActionTypeSnapshot), nil)
}

// Close releases the session client's connections.
func (t *Toolset) Close() error {
	return t.client.Close()
}
