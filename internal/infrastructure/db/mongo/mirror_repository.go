package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/taskforge/internal/core/domain"
)

const mirrorCollection = "account_mirror"

// MirrorRepository persists the tracker's local account mirror. Only the
// account event consumer writes here.
type MirrorRepository struct {
	coll *mongo.Collection
}

func NewMirrorRepository(db *mongo.Database) *MirrorRepository {
	return &MirrorRepository{coll: db.Collection(mirrorCollection)}
}

type mirrorDoc struct {
	PublicID  string  `bson:"_id"`
	Username  string  `bson:"username"`
	FirstName *string `bson:"first_name"`
	LastName  *string `bson:"last_name"`
	Email     *string `bson:"email"`
	Role      int     `bson:"role"`
}

func (d mirrorDoc) toDomain() domain.MirrorAccount {
	return domain.MirrorAccount{
		PublicID:  d.PublicID,
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Role:      domain.Role(d.Role),
	}
}

func docFromMirror(a *domain.MirrorAccount) mirrorDoc {
	return mirrorDoc{
		PublicID:  a.PublicID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      int(a.Role),
	}
}

func (r *MirrorRepository) Insert(ctx context.Context, account *domain.MirrorAccount) error {
	if _, err := r.coll.InsertOne(ctx, docFromMirror(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert mirror account: %w", err)
	}
	return nil
}

// Overwrite replaces the whole mirrored row, nulls included.
func (r *MirrorRepository) Overwrite(ctx context.Context, account *domain.MirrorAccount) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": account.PublicID}, docFromMirror(account))
	if err != nil {
		return fmt.Errorf("overwrite mirror account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMirrorAccountNotFound
	}
	return nil
}

// Delete is idempotent: removing an already-absent row is not an error, since
// delivery is at-least-once.
func (r *MirrorRepository) Delete(ctx context.Context, publicID string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": publicID}); err != nil {
		return fmt.Errorf("delete mirror account: %w", err)
	}
	return nil
}

func (r *MirrorRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.MirrorAccount, error) {
	var doc mirrorDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": publicID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMirrorAccountNotFound
		}
		return nil, fmt.Errorf("find mirror account: %w", err)
	}
	account := doc.toDomain()
	return &account, nil
}

func (r *MirrorRepository) ListEligible(ctx context.Context) ([]domain.MirrorAccount, error) {
	cur, err := r.coll.Find(ctx, bson.M{"role": bson.M{"$lte": int(domain.RoleManager)}})
	if err != nil {
		return nil, fmt.Errorf("list eligible accounts: %w", err)
	}
	defer cur.Close(ctx)

	var accounts []domain.MirrorAccount
	for cur.Next(ctx) {
		var doc mirrorDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode mirror account: %w", err)
		}
		accounts = append(accounts, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list eligible accounts: %w", err)
	}
	return accounts, nil
}
