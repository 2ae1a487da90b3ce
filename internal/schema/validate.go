package schema

import (
	"agent-textweb/internal/entity"
	"agent-textweb/pkg/apperr"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

const defaultScrollAmount = 1

// Validate turns raw tool arguments into an action request. Any error it
// returns is a schema validation error and means nothing was sent.
func (a Action) Validate(args map[string]any) (entity.ActionRequest, error) {
	op := "Validate." + string(a.Type)

	if args == nil {
		args = map[string]any{}
	}

	for _, name := range a.RequiredParams() {
		if v, ok := args[name]; !ok || v == nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, name, fmt.Errorf("missing required argument %q", name))
		}
	}

	req := entity.ActionRequest{Type: a.Type}

	var err error

	switch a.Type {
	case entity.ActionTypeNavigate:
		if req.URL, err = stringArg(args, "url"); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "url", err)
		}

		if strings.TrimSpace(req.URL) == "" {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "url", errors.New("url cannot be empty"))
		}
	case entity.ActionTypeClick:
		if req.Ref, err = entity.ParseRef(args["ref"]); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "ref", err)
		}
	case entity.ActionTypeType:
		if req.Ref, err = entity.ParseRef(args["ref"]); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "ref", err)
		}

		if req.Text, err = stringArg(args, "text"); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "text", err)
		}
	case entity.ActionTypeSelect:
		if req.Ref, err = entity.ParseRef(args["ref"]); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "ref", err)
		}

		if req.Value, err = stringArg(args, "value"); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "value", err)
		}
	case entity.ActionTypeScroll:
		if req.Direction, err = stringArg(args, "direction"); err != nil {
			return entity.ActionRequest{}, apperr.InvalidReqError(op, "direction", err)
		}

		req.Amount = defaultScrollAmount

		if v, ok := args["amount"]; ok && v != nil {
			if req.Amount, err = intArg(v); err != nil {
				return entity.ActionRequest{}, apperr.InvalidReqError(op, "amount", err)
			}
		}
	case entity.ActionTypeSnapshot:
	default:
		return entity.ActionRequest{}, apperr.InvalidReqError(op, "action", fmt.Errorf("unknown action %q", a.Type))
	}

	return req, nil
}

func stringArg(args map[string]any, name string) (string, error) {
	s, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", name, args[name])
	}

	return s, nil
}

func intArg(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, fmt.Errorf("%v is not an integer", n)
		}

		return int(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			if i > math.MaxInt32 || i < math.MinInt32 {
				return 0, fmt.Errorf("%s is not an integer", n)
			}

			return int(i), nil
		}

		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s is not an integer", n)
		}

		return intArg(f)
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("must be an integer, got %T", v)
	}
}
