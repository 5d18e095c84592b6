// Package review persists Review documents.
package review

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourbase/internal/model/review"
	"tourbase/internal/query"
)

// Repo is the review repository.
type Repo struct {
	collection *mongo.Collection
}

// NewRepo creates a review repository.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{collection: db.Collection(review.CollectionName)}
}

// Create inserts a new review.
func (r *Repo) Create(ctx context.Context, rev *review.Review) error {
	res, err := r.collection.InsertOne(ctx, rev)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		rev.ID = id
	}
	return nil
}

// Find executes a translated query descriptor.
func (r *Repo) Find(ctx context.Context, d query.Descriptor) ([]*review.Review, error) {
	opts := options.Find().
		SetSort(d.Sort).
		SetSkip(d.Skip).
		SetLimit(d.Limit)
	if len(d.Projection) > 0 {
		opts.SetProjection(d.Projection)
	}

	cursor, err := r.collection.Find(ctx, d.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []*review.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByTour resolves the virtual reviews relationship of a tour.
func (r *Repo) FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]*review.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"tour": tourID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []*review.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
