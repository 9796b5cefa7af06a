package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	raw := []byte("output_format: json\nwatch_debounce_ms: 250\noperator_priorities:\n  \"%\": 100\n")
	require.NoError(t, Validate(raw))

	cfg, err := Load(raw)
	require.NoError(t, err)
	require.Equal(t, "json", cfg.OutputFormat)
	require.Equal(t, 250, cfg.WatchDebounceMillis)
	require.Equal(t, 100, cfg.OperatorPriorities["%"])
}

func TestValidateRejectsUnknownKeys(t *testing.T) {
	require.Error(t, Validate([]byte("outpt_format: json\n")))
}

func TestValidateRejectsBadFormatValue(t *testing.T) {
	require.Error(t, Validate([]byte("output_format: xml\n")))
}
