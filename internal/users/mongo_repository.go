package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// AccountsCollection is the MongoDB collection holding accounts.
const AccountsCollection = "users"

type tokenDocument struct {
	Token string `bson:"token"`
}

type accountDocument struct {
	ID           string          `bson:"_id"`
	Name         string          `bson:"name"`
	Email        string          `bson:"email"`
	PasswordHash string          `bson:"password_hash"`
	Age          int             `bson:"age"`
	Tokens       []tokenDocument `bson:"tokens"`
	Avatar       []byte          `bson:"avatar,omitempty"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

func toDocument(acct *auth.Account) accountDocument {
	tokens := make([]tokenDocument, 0, len(acct.Tokens))
	for _, t := range acct.Tokens {
		tokens = append(tokens, tokenDocument{Token: t})
	}
	return accountDocument{
		ID:           acct.ID,
		Name:         acct.Name,
		Email:        acct.Email,
		PasswordHash: acct.PasswordHash,
		Age:          acct.Age,
		Tokens:       tokens,
		Avatar:       acct.Avatar,
		CreatedAt:    acct.CreatedAt,
		UpdatedAt:    acct.UpdatedAt,
	}
}

func (d accountDocument) toAccount() *auth.Account {
	acct := &auth.Account{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Age:          d.Age,
		Avatar:       d.Avatar,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	for _, t := range d.Tokens {
		acct.Tokens = append(acct.Tokens, t.Token)
	}
	return acct
}

// MongoRepository stores accounts as documents with an embedded token list.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewMongoRepository constructs a MongoDB backed repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(AccountsCollection)}
}

// EnsureIndexes creates the unique email index and the token lookup index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tokens.token", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%w: users: create indexes: %v", shared.ErrPersistence, err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, acct *auth.Account) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(acct)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email %s", shared.ErrDuplicate, acct.Email)
		}
		return persistence("insert account", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByToken(ctx context.Context, id, token string) (*auth.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id, "tokens.token": token})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*auth.Account, error) {
	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, persistence("find account", err)
	}
	return doc.toAccount(), nil
}

func (r *MongoRepository) AddToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, id, bson.M{"$push": bson.M{"tokens": tokenDocument{Token: token}}})
}

func (r *MongoRepository) RemoveToken(ctx context.Context, id, token string) error {
	err := r.updateOne(ctx, id, bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}})
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

func (r *MongoRepository) ClearTokens(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"tokens": bson.A{}}})
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, acct *auth.Account) error {
	err := r.updateOne(ctx, acct.ID, bson.M{"$set": bson.M{
		"name":          acct.Name,
		"email":         acct.Email,
		"password_hash": acct.PasswordHash,
		"age":           acct.Age,
		"updated_at":    acct.UpdatedAt,
	}})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: email %s", shared.ErrDuplicate, acct.Email)
	}
	return err
}

func (r *MongoRepository) SetAvatar(ctx context.Context, acct *auth.Account) error {
	update := bson.M{"$set": bson.M{"avatar": acct.Avatar, "updated_at": acct.UpdatedAt}}
	if acct.Avatar == nil {
		update = bson.M{
			"$unset": bson.M{"avatar": ""},
			"$set":   bson.M{"updated_at": acct.UpdatedAt},
		}
	}
	return r.updateOne(ctx, acct.ID, update)
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return persistence("delete account", err)
	}
	if res.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return persistence("update account", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: users: %s: %w", shared.ErrPersistence, op, err)
}
