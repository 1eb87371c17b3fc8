package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// PaymentRepository records task/account monetary associations.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *domain.Payment) error
}
