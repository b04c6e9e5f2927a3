package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lsst-dm/prodstatus/pkg/utils/retry"
)

func TestBlocking(t *testing.T) {
	t.Run("it returns the first success", func(t *testing.T) {
		calls := 0
		got, err := retry.Blocking(
			context.Background(), retry.StaticBackoff(0),
			func() (int, error) {
				calls += 1
				if calls < 3 {
					return 0, fmt.Errorf("%w: not yet", retry.ErrRetry)
				}
				return 42, nil
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		if got != 42 || calls != 3 {
			t.Errorf("got %d after %d calls", got, calls)
		}
	})

	t.Run("an error other than ErrRetry stops the loop", func(t *testing.T) {
		fatal := errors.New("fake error")
		calls := 0
		_, err := retry.Blocking(
			context.Background(), retry.StaticBackoff(0),
			func() (int, error) {
				calls += 1
				return 0, fatal
			},
		)
		if !errors.Is(err, fatal) {
			t.Errorf("got error %v, want %v", err, fatal)
		}
		if calls != 1 {
			t.Errorf("got %d calls, want 1", calls)
		}
	})

	t.Run("cancelling the context during backoff stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := retry.Blocking(
			ctx, retry.StaticBackoff(time.Hour),
			func() (int, error) {
				calls += 1
				return 0, fmt.Errorf("%w: not yet", retry.ErrRetry)
			},
		)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got error %v, want context.Canceled", err)
		}
		if calls != 0 {
			t.Errorf("got %d calls, want none", calls)
		}
	})
}
