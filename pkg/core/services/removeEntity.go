package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// EntityDeleter defines the deletes a grid cell can trigger
type EntityDeleter interface {
	DeleteShift(ctx context.Context, id int64) error
	DeleteLeave(ctx context.Context, id int64) error
}

// RemoveEntity deletes the record a cell renders. Callers blank the matching
// cells themselves with RenderedGrid.RemoveEntity once this succeeds.
func RemoveEntity(ctx context.Context, store EntityDeleter, logger *zap.Logger, ref model.CellRef) error {
	var err error
	switch ref.Kind {
	case model.CellShift:
		err = store.DeleteShift(ctx, ref.ID)
	case model.CellLeave:
		err = store.DeleteLeave(ctx, ref.ID)
	default:
		return fmt.Errorf("%w: nothing to remove", model.ErrInvalidCellRef)
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", ref, err)
	}

	logger.Info("Removed entity", zap.String("ref", ref.String()))
	return nil
}
