package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawJSON_JSONPassThrough(t *testing.T) {
	for _, raw := range []string{`1`, `"high"`, `2.5`, `{"rank":1}`, `null`} {
		t.Run(raw, func(t *testing.T) {
			var room Room
			require.NoError(t, json.Unmarshal([]byte(`{"id":1,"leader_priority":`+raw+`}`), &room))

			out, err := json.Marshal(room)
			require.NoError(t, err)

			var decoded map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(out, &decoded))
			assert.JSONEq(t, raw, string(decoded["leader_priority"]))
		})
	}

	out, err := json.Marshal(Room{ID: 1})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"leader_priority":null`)
}

func TestRawJSON_ScanAndValue(t *testing.T) {
	testCases := []struct {
		name      string
		in        any
		wantJSON  string
		wantValue any
	}{
		{"text", "high", `"high"`, "high"},
		{"bytes", []byte("low"), `"low"`, "low"},
		{"integer", int64(3), `3`, "3"},
		{"float", 1.5, `1.5`, "1.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var r RawJSON
			require.NoError(t, r.Scan(tc.in))
			assert.JSONEq(t, tc.wantJSON, string(r))

			v, err := r.Value()
			require.NoError(t, err)
			assert.Equal(t, tc.wantValue, v)
		})
	}

	var r RawJSON
	require.NoError(t, r.Scan(nil))
	assert.Nil(t, r)
	v, err := r.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, r.Scan(true))
}
