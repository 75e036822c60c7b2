package di_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	di "github.com/Stannieman/DI"
)

func TestParseConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    di.Configuration
		wantErr bool
	}{
		{name: "empty document", input: "", want: di.Configuration{}},
		{name: "whitespace only", input: "\n  \n", want: di.Configuration{}},
		{
			name:  "property injection enabled",
			input: "enable_property_injection: true\n",
			want:  di.Configuration{EnablePropertyInjection: true},
		},
		{
			name:  "property injection disabled",
			input: "enable_property_injection: false\n",
			want:  di.Configuration{},
		},
		{name: "unknown option", input: "enable_scopes: true\n", wantErr: true},
		{name: "wrong type", input: "enable_property_injection: maybe\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := di.ParseConfiguration([]byte(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, di.ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "di.yaml")
		require.NoError(t, os.WriteFile(path, []byte("enable_property_injection: true\n"), 0o600))

		cfg, err := di.LoadConfiguration(path)
		require.NoError(t, err)
		assert.True(t, cfg.EnablePropertyInjection)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := di.LoadConfiguration(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("unknown: 1\n"), 0o600))

		_, err := di.LoadConfiguration(path)
		assert.ErrorIs(t, err, di.ErrInvalidConfiguration)
	})
}
