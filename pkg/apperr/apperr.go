package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason     = "reason"
	MetaStage      = "stage"
	MetaField      = "field"
	MetaTool       = "tool"
	MetaEndpoint   = "endpoint"
	MetaMethod     = "method"
	MetaStatusCode = "status_code"
	MetaBody       = "body"

	StageValidation = "validation"
	StageTransport  = "transport"
	StageDecode     = "decode"
	StageAI         = "ai"

	CodeInternal        = "internal"
	CodeInvalidArgument = "invalid_argument"
	CodeUnavailable     = "unavailable"
	CodeTimeout         = "timeout"
	CodeRemoteService   = "remote_service"
	CodeMaxIterations   = "max_iterations"
	CodeCancelledByUser = "cancelled_by_user"
	CodeAIError         = "ai_error"
	CodeDisabled        = "disabled"
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, errors.New(reason), map[string]any{
		MetaReason: reason,
	})
}

// InvalidReqError is the schema validation class: detected locally, before
// anything is sent to the session service.
func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
		MetaStage:  StageValidation,
	})
}

// TransportError marks a call that never obtained a response.
func TransportError(op string, timeout bool, err error, metadata map[string]any) error {
	code := CodeUnavailable
	if timeout {
		code = CodeTimeout
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	metadata[MetaStage] = StageTransport

	return Wrap(op, code, err, metadata)
}

// RemoteServiceError marks a response that was obtained but rejected.
func RemoteServiceError(op string, statusCode int, body []byte, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	metadata[MetaStatusCode] = statusCode
	metadata[MetaBody] = string(body)

	return Wrap(op, CodeRemoteService, err, metadata)
}

// CodeOf returns the code of the outermost *Error in the chain, or "".
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}

func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

func IsSchemaValidation(err error) bool {
	return HasCode(err, CodeInvalidArgument)
}

func IsTransport(err error) bool {
	code := CodeOf(err)

	return code == CodeUnavailable || code == CodeTimeout
}

func IsRemoteService(err error) bool {
	return HasCode(err, CodeRemoteService)
}

// Meta looks up a metadata value on the outermost *Error in the chain.
func Meta(err error, key string) (any, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return nil, false
	}

	v, ok := appErr.Metadata[key]

	return v, ok
}

func StatusCode(err error) (int, bool) {
	v, ok := Meta(err, MetaStatusCode)
	if !ok {
		return 0, false
	}

	code, ok := v.(int)

	return code, ok
}

func Body(err error) (string, bool) {
	v, ok := Meta(err, MetaBody)
	if !ok {
		return "", false
	}

	body, ok := v.(string)

	return body, ok
}
