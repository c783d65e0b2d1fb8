// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"context"
	"math/rand"
	"time"
)

// retryWithBackoff calls fn up to maxAttempts times, sleeping between
// attempts with exponential backoff (doubling from initialDelay, capped at
// maxDelay) plus up to 50% jitter. It returns nil on the first success, the
// last error if every attempt fails, or a context error if ctx is done
// before fn can be called again.
func retryWithBackoff(ctx context.Context, maxAttempts int, initialDelay, maxDelay time.Duration, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	delay := initialDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		sleep := delay
		if sleep > 0 {
			sleep += time.Duration(rand.Int63n(int64(sleep)/2 + 1))
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if maxDelay > 0 && delay > maxDelay {
			delay = maxDelay
		}
	}
	return lastErr
}
