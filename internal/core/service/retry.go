package service

import (
	"context"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// maxWriteAttempts bounds the read-check-write loop on status changes.
const maxWriteAttempts = 3

// retryOnConflict re-runs attempt while it reports a lost compare-and-set,
// giving up with domain.ErrConcurrentUpdate.
func retryOnConflict(ctx context.Context, attempt func() (done bool, err error)) error {
	for i := 0; i < maxWriteAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := attempt()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return domain.ErrConcurrentUpdate
}
