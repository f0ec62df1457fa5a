package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"meeting-room-backend/internal/store"
)

// Cancel deletes a reservation by id. There is no ownership check.
// A missing id is reported as ErrNotFound without issuing a delete.
func (s *Service) Cancel(ctx context.Context, reservationID int64) error {
	if reservationID <= 0 {
		return invalidf("reservation_id must be a positive integer")
	}

	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
		}
		return fmt.Errorf("get reservation %d: %w", reservationID, err)
	}

	if err := s.store.DeleteReservation(ctx, reservationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
		}
		return fmt.Errorf("delete reservation %d: %w", reservationID, err)
	}

	s.logger.Info("reservation cancelled", zap.Int64("reservation_id", reservationID))
	return nil
}
