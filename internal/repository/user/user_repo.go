// Package user persists User documents. Reads run the user governance
// chain, so soft-deactivated accounts are invisible everywhere.
package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourbase/internal/governance"
	"tourbase/internal/model/user"
	"tourbase/internal/query"
)

// Repo is the user repository.
type Repo struct {
	collection *mongo.Collection
}

// NewRepo creates a user repository.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{collection: db.Collection(user.CollectionName)}
}

// Create inserts a new user.
func (r *Repo) Create(ctx context.Context, u *user.User) error {
	res, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

// Save persists the full document of an existing user. Used after
// credential changes where several fields move together.
func (r *Repo) Save(ctx context.Context, u *user.User) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	return err
}

// Find executes a translated query descriptor.
func (r *Repo) Find(ctx context.Context, d query.Descriptor) ([]*user.User, error) {
	q := &governance.Query{Filter: d.Filter, Projection: d.Projection}
	if err := user.Hooks().RunBeforeQuery(ctx, q); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(d.Sort).
		SetSkip(d.Skip).
		SetLimit(d.Limit)
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}

	cursor, err := r.collection.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID fetches one user through the governed read path.
func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail fetches one user by email, hash included, for login.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByResetToken fetches the user holding a hashed reset token.
func (r *Repo) FindByResetToken(ctx context.Context, hashedToken string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"passwordResetToken": hashedToken})
}

func (r *Repo) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	q := &governance.Query{Filter: filter}
	if err := user.Hooks().RunBeforeQuery(ctx, q); err != nil {
		return nil, err
	}

	var u user.User
	if err := r.collection.FindOne(ctx, q.Filter).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateByID applies a $set patch and returns the updated document.
func (r *Repo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*user.User, error) {
	q := &governance.Query{Filter: bson.M{"_id": id}}
	if err := user.Hooks().RunBeforeQuery(ctx, q); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u user.User
	err := r.collection.FindOneAndUpdate(ctx, q.Filter, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Deactivate soft-deletes an account. The governed read filter hides
// it from every subsequent query.
func (r *Repo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	return err
}

// DeleteByID hard-deletes an account (admin only).
func (r *Repo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
