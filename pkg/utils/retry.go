package utils

import (
	"context"
	"time"
)

// Retry executa fn até attempts vezes com backoff exponencial a partir de baseDelay.
// shouldRetry decide se o erro é transitório; erros permanentes retornam imediatamente.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, shouldRetry func(error) bool, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := baseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == attempts || (shouldRetry != nil && !shouldRetry(err)) {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}

	return err
}
