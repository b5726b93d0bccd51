package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"companion_bot/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGuard() Guard {
	return Guard{Attempts: 4, Delay: 0}
}

func TestGuard_SuccessAfterFailuresIsSilent(t *testing.T) {
	calls := 0
	err := testGuard().Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err, "success within the attempt bound is silent")
	assert.Equal(t, 4, calls)
}

func TestGuard_FirstTrySuccessMakesOneCall(t *testing.T) {
	calls := 0
	err := testGuard().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGuard_ExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("the model is overloaded with other requests")
	err := testGuard().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return last
	})

	require.ErrorIs(t, err, last)
	assert.Equal(t, 4, calls, "exactly four attempts, no more")
}

func TestUserMessage_Classification(t *testing.T) {
	overloaded := errors.New("API is Overloaded with other requests")
	assert.Equal(t, MsgOverloaded, UserMessage(overloaded))

	generic := errors.New("connection reset by peer")
	assert.Equal(t, MsgGeneric, UserMessage(generic))

	assert.Equal(t, MsgGeneric, UserMessage(nil))
}

func TestGuard_CustomClassifier(t *testing.T) {
	g := Guard{Attempts: 1, Classify: func(err error) string { return "custom" }}
	assert.Equal(t, "custom", g.Message(errors.New("whatever")))
}

func TestNewGuard_FromConfig(t *testing.T) {
	g := NewGuard(pkg.RetryConfig{Attempts: 2, DelaySeconds: 1})
	assert.Equal(t, 2, g.Attempts)
	assert.Equal(t, "1s", g.Delay.String())
}

func TestGuard_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	g := Guard{Attempts: 4, Delay: time.Hour}
	err := g.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation pre-empts the inter-attempt sleep")
}
