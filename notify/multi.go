package notify

import (
	"context"
	"errors"

	"github.com/use-agent/solvetrack/models"
)

// Multi delivers to every notifier in order and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, r models.Report) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
