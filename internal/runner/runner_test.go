package runner

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRunMissingBinary(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), []string{"definitely-not-a-real-binary-xyz"}, time.Second)
	assert.Equal(t, Missing, res.Outcome)
}

func TestRunOk(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), []string{"echo", "hello"}, time.Second)
	assert.Equal(t, Ok, res.Outcome)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "hello")
}

func TestRunNonzero(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), []string{"false"}, time.Second)
	assert.Equal(t, Nonzero, res.Outcome)
	assert.NotEqual(t, 0, res.ExitCode)
}

func TestRunTimeout(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), []string{"sleep", "5"}, 50*time.Millisecond)
	assert.Equal(t, Timeout, res.Outcome)
}

func TestRunEmptyArgv(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), []string{}, time.Second)
	assert.Equal(t, IOError, res.Outcome)
}

func TestRunSanitizesInvalidUTF8InStdout(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), []string{"printf", "a\\xffb"}, time.Second)
	assert.Equal(t, Ok, res.Outcome)
	assert.True(t, utf8.ValidString(res.Stdout))
	assert.Contains(t, res.Stdout, "a�b")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", Ok.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "nonzero", Nonzero.String())
	assert.Equal(t, "io_error", IOError.String())
}
