package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClasses(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name      string
		err       error
		schema    bool
		transport bool
		remote    bool
		code      string
	}{
		{name: "validation", err: InvalidReqError("op", "ref", cause), schema: true, code: CodeInvalidArgument},
		{name: "unavailable", err: TransportError("op", false, cause, nil), transport: true, code: CodeUnavailable},
		{name: "timeout", err: TransportError("op", true, cause, nil), transport: true, code: CodeTimeout},
		{name: "remote", err: RemoteServiceError("op", 502, []byte("bad gateway"), cause, nil), remote: true, code: CodeRemoteService},
		{name: "plain", err: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.schema, IsSchemaValidation(tt.err))
			assert.Equal(t, tt.transport, IsTransport(tt.err))
			assert.Equal(t, tt.remote, IsRemoteService(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestRemoteServiceErrorDetails(t *testing.T) {
	err := fmt.Errorf("call failed: %w", RemoteServiceError("Call", 404, []byte(`{"error":"no ref"}`), errors.New("status 404"), map[string]any{
		MetaEndpoint: "POST /click",
	}))

	status, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, 404, status)

	body, ok := Body(err)
	require.True(t, ok)
	assert.Equal(t, `{"error":"no ref"}`, body)

	endpoint, ok := Meta(err, MetaEndpoint)
	require.True(t, ok)
	assert.Equal(t, "POST /click", endpoint)
}

func TestInvalidReqErrorField(t *testing.T) {
	err := InvalidReqError("Validate.click", "ref", errors.New("missing"))

	field, ok := Meta(err, MetaField)
	require.True(t, ok)
	assert.Equal(t, "ref", field)

	stage, _ := Meta(err, MetaStage)
	assert.Equal(t, StageValidation, stage)

	_, ok = StatusCode(err)
	assert.False(t, ok)
}

func TestErrorMessage(t *testing.T) {
	err := WrapErrorWithReason("Execute", CodeMaxIterations, "max_iterations_reached")

	assert.Contains(t, err.Error(), "Execute")
	assert.Contains(t, err.Error(), "max_iterations_reached")
	assert.True(t, HasCode(err, CodeMaxIterations))

	_, ok := Meta(errors.New("plain"), MetaReason)
	assert.False(t, ok)
}
