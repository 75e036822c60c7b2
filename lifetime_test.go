package di_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	di "github.com/Stannieman/DI"
)

func TestLifetime_String(t *testing.T) {
	assert.Equal(t, "PerRequest", di.PerRequest.String())
	assert.Equal(t, "Singleton", di.Singleton.String())
	assert.Equal(t, "Unknown(7)", di.Lifetime(7).String())
}

func TestLifetime_IsValid(t *testing.T) {
	assert.True(t, di.PerRequest.IsValid())
	assert.True(t, di.Singleton.IsValid())
	assert.False(t, di.Lifetime(-1).IsValid())
	assert.False(t, di.Lifetime(2).IsValid())
}

func TestLifetime_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    di.Lifetime
		wantErr bool
	}{
		{input: "PerRequest", want: di.PerRequest},
		{input: "per-request", want: di.PerRequest},
		{input: "perrequest", want: di.PerRequest},
		{input: "Singleton", want: di.Singleton},
		{input: "singleton", want: di.Singleton},
		{input: "Scoped", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var l di.Lifetime
			err := l.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, di.ErrInvalidLifetime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}

func TestLifetime_JSON(t *testing.T) {
	type entry struct {
		Lifetime di.Lifetime `json:"lifetime"`
	}

	data, err := json.Marshal(entry{Lifetime: di.Singleton})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lifetime":"Singleton"}`, string(data))

	var decoded entry
	require.NoError(t, json.Unmarshal([]byte(`{"lifetime":"per-request"}`), &decoded))
	assert.Equal(t, di.PerRequest, decoded.Lifetime)

	assert.Error(t, json.Unmarshal([]byte(`{"lifetime":1}`), &decoded))
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"lifetime":"transient"}`), &decoded), di.ErrInvalidLifetime)
}
