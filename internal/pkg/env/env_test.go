package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	Env = map[string]string{"POSTFOX_TEST_KEY": "from-file"}
	defer func() { Env = nil }()
	t.Setenv("POSTFOX_TEST_KEY", "from-os")

	assert.Equal(t, "from-file", GetEnv("POSTFOX_TEST_KEY", "def"))
}

func TestGetEnvFallsBackToOSAndDefault(t *testing.T) {
	Env = nil
	t.Setenv("POSTFOX_TEST_OS", "os-value")

	assert.Equal(t, "os-value", GetEnv("POSTFOX_TEST_OS", "def"))
	assert.Equal(t, "def", GetEnv("POSTFOX_TEST_MISSING", "def"))
}

func TestGetEnvInt(t *testing.T) {
	Env = map[string]string{"A": "42", "B": "nope"}
	defer func() { Env = nil }()

	assert.Equal(t, 42, GetEnvInt("A", 1))
	assert.Equal(t, 1, GetEnvInt("B", 1))
	assert.Equal(t, 7, GetEnvInt("C", 7))
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{raw: "8s", want: 8 * time.Second},
		{raw: "5m", want: 5 * time.Minute},
		{raw: "10", want: 10 * time.Second},
		{raw: "soon", want: time.Minute},
		{raw: "", want: time.Minute},
	}

	for _, tt := range tests {
		Env = map[string]string{"D": tt.raw}
		assert.Equal(t, tt.want, GetEnvDuration("D", time.Minute), "raw=%q", tt.raw)
	}
	Env = nil
}
