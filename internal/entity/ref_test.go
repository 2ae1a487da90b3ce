package entity

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    Ref
		wantErr bool
	}{
		{name: "json_number_float", input: float64(7), want: "7"},
		{name: "json_number", input: json.Number("12"), want: "12"},
		{name: "json_number_fractional_zero", input: json.Number("1.0"), want: "1"},
		{name: "json_number_exponent", input: json.Number("2e1"), want: "20"},
		{name: "json_number_fraction", input: json.Number("1.5"), wantErr: true},
		{name: "json_number_negative", input: json.Number("-3"), wantErr: true},
		{name: "int", input: 3, want: "3"},
		{name: "int64", input: int64(0), want: "0"},
		{name: "digit_string", input: " 42 ", want: "42"},
		{name: "leading_zero_normalized", input: "007", want: "7"},
		{name: "fraction", input: 1.5, wantErr: true},
		{name: "negative", input: -1, wantErr: true},
		{name: "negative_float", input: float64(-2), wantErr: true},
		{name: "word", input: "login", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "bool", input: true, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefInt(t *testing.T) {
	i, err := Ref("15").Int()
	require.NoError(t, err)
	assert.Equal(t, 15, i)

	_, err = Ref("x").Int()
	assert.Error(t, err)
}

func TestActionTypeEndpoint(t *testing.T) {
	tests := []struct {
		action ActionType
		method string
		path   string
	}{
		{ActionTypeNavigate, http.MethodPost, "/navigate"},
		{ActionTypeClick, http.MethodPost, "/click"},
		{ActionTypeType, http.MethodPost, "/type"},
		{ActionTypeSelect, http.MethodPost, "/select"},
		{ActionTypeScroll, http.MethodPost, "/scroll"},
		{ActionTypeSnapshot, http.MethodGet, "/snapshot"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			e, ok := tt.action.Endpoint()
			require.True(t, ok)
			assert.Equal(t, tt.method, e.Method)
			assert.Equal(t, tt.path, e.Path)
			assert.True(t, IsKnownEndpoint(e))
		})
	}

	_, ok := ActionType("hover").Endpoint()
	assert.False(t, ok)
	assert.False(t, IsKnownEndpoint(Endpoint{Method: http.MethodGet, Path: "/navigate"}))
}
