package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/taskforge/internal/core/domain"
)

const paymentCollection = "payments"

// PaymentRepository records task/account payment associations.
type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentCollection)}
}

type paymentDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	TaskPublicID string               `bson:"task_public_id"`
	AccountID    string               `bson:"user_id"`
	Amount       primitive.Decimal128 `bson:"summa"`
}

func (r *PaymentRepository) Insert(ctx context.Context, payment *domain.Payment) error {
	doc := paymentDoc{
		TaskPublicID: payment.TaskPublicID,
		AccountID:    payment.AccountID,
		Amount:       payment.Amount,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}
