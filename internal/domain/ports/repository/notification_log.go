package repository

import (
	"context"

	"shop-payment-engine/internal/domain/model"
)

// NotificationLogRepository persists one audit row per processed notification.
type NotificationLogRepository interface {
	Save(ctx context.Context, qx any, rec *model.NotificationRecord) error
}
