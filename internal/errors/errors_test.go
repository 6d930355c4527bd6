package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrProbe,
		ErrChannel,
		ErrProcess,
		ErrTimeout,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Sample count must be at least 1",
			suggestion: "Pass --samples with a positive number",
		},
		{
			name:       "probe error",
			code:       ErrProbe,
			message:    "Couldn't read CPU counters",
			suggestion: "Check that /proc is mounted",
		},
		{
			name:       "timeout error",
			code:       ErrTimeout,
			message:    "Cycle 3 timed out",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check config.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check config.yaml syntax"},
		},
		{
			name:          "cause is included",
			err:           WrapWithCode(io.ErrUnexpectedEOF, ErrChannel, "Result frame truncated", ""),
			expectedParts: []string{"Result frame truncated", "unexpected EOF"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrProcess, "Worker exited", ""),
			expectedParts: []string{"Worker exited"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("broken pipe")
	wrapped := Wrap(cause, "Couldn't write command")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrChannel, wrapped.Code, "Wrap should default to ErrChannel code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestProtocolf(t *testing.T) {
	err := Protocolf("duplicate doorbell from %s in cycle %d", "memory", 2)

	assert.Equal(t, ErrChannel, err.Code)
	assert.Contains(t, err.Error(), "duplicate doorbell from memory in cycle 2")
}

func TestIsCode(t *testing.T) {
	err := WrapWithCode(errors.New("boom"), ErrProbe, "Probe failed", "")

	assert.True(t, IsCode(err, ErrProbe))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrProbe))
	assert.False(t, IsCode(errors.New("plain"), ErrProbe))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrTimeout, CodeOf(New(ErrTimeout, "slow", "")))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
