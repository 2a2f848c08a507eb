package redistools

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect waits for the redis instance to become reachable,
// giving up after roughly ten seconds of growing delays.
func Connect(ctx context.Context, rdb *redis.Client) error {
	errCh := make(chan error)

	go func() {
		defer close(errCh)

		delay := time.Second

		for {
			if err := rdb.Ping(ctx).Err(); err != nil {
				time.Sleep(delay)
				delay += time.Second

				if delay > time.Second*10 {
					errCh <- fmt.Errorf("cannot ping redis db error: %w", err)

					return
				}

				continue
			}

			break
		}
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		return err
	}
}
