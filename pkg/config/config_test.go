package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvDefault(t *testing.T) {
	t.Setenv("CFG_TEST_SET", "value")

	assert.Equal(t, "value", EnvDefault("CFG_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("CFG_TEST_UNSET", "fallback"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("CFG_TEST_PORT", "9090")
	t.Setenv("CFG_TEST_BAD", "not-a-number")

	assert.Equal(t, 9090, EnvIntDefault("CFG_TEST_PORT", 8080))
	assert.Equal(t, 8080, EnvIntDefault("CFG_TEST_BAD", 8080))
	assert.Equal(t, 8080, EnvIntDefault("CFG_TEST_MISSING", 8080))
}

func TestCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "spaces and blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestMustOneOf_AcceptsAllowedValues(t *testing.T) {
	// the reject path calls log.Fatalf, so only the accept path is
	// testable in-process
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		MustOneOf(lvl, "LOG_LEVEL", []string{"debug", "info", "warn", "error"})
	}
}
