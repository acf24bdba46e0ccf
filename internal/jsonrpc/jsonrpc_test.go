package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "integer id", raw: `{"jsonrpc":"2.0","id":1,"method":"m"}`, want: false},
		{name: "string id", raw: `{"jsonrpc":"2.0","id":"abc","method":"m"}`, want: false},
		{name: "zero id", raw: `{"jsonrpc":"2.0","id":0,"method":"m"}`, want: false},
		{name: "no id", raw: `{"jsonrpc":"2.0","method":"m"}`, want: true},
		{name: "null id", raw: `{"jsonrpc":"2.0","id":null,"method":"m"}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &req))
			assert.Equal(t, tt.want, req.IsNotification())
		})
	}
}

func TestNewResult_RoundTripsID(t *testing.T) {
	resp, err := NewResult(json.RawMessage(`"req-7"`), map[string]string{"ok": "yes"})
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Version, decoded.JSONRPC)
	assert.Equal(t, json.RawMessage(`"req-7"`), decoded.ID)
	assert.Nil(t, decoded.Error)
	assert.JSONEq(t, `{"ok":"yes"}`, string(decoded.Result))
}

func TestNewError(t *testing.T) {
	resp := NewError(json.RawMessage("3"), CodeMethodNotFound, "Method not found: foo")

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Method not found: foo", resp.Error.Error())
	assert.Nil(t, resp.Result)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"result"`)
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, json.RawMessage("42"), ExtractID([]byte(`{"id":42,"method":"m"}`)))
	assert.Equal(t, json.RawMessage(`"a"`), ExtractID([]byte(`{"id":"a"}`)))
	assert.Nil(t, ExtractID([]byte(`{not json`)))
	assert.Empty(t, ExtractID([]byte(`{"method":"m"}`)))
}
