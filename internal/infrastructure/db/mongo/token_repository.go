package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/taskforge/internal/core/domain"
)

const tokenCollection = "tokens"

// TokenRepository stores the single current bearer token per account. The
// account id is the document key, so an upsert for the same account replaces
// the previous token row.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokenCollection)}
}

type tokenDoc struct {
	AccountID string `bson:"_id"`
	Token     string `bson:"token"`
	TokenType string `bson:"token_type"`
}

func (r *TokenRepository) Upsert(ctx context.Context, token *domain.Token) error {
	doc := tokenDoc{
		AccountID: token.AccountID,
		Token:     token.Token,
		TokenType: token.TokenType,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": token.AccountID}, doc, opts); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Exists(ctx context.Context, accountID, token string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": accountID, "token": token})
	if err != nil {
		return false, fmt.Errorf("find token: %w", err)
	}
	return n > 0, nil
}
