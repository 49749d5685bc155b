package ports

import "context"

type WakeLock interface {
	Acquire(ctx context.Context) error
	Release() error
}
