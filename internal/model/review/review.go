// Package review defines the Review entity. Reviews reference their
// tour and author; the back-reference from a tour to its reviews is
// virtual and resolved at read time.
package review

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for reviews.
const CollectionName = "reviews"

// Review is a rating with text, created in the context of a tour and
// an authenticated user.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review" json:"review"`
	Rating    float64            `bson:"rating" json:"rating"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SetDefaults fills defaulted fields before the first save.
func (r *Review) SetDefaults() {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
}

// Validate checks the review at creation time.
func (r *Review) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Review, validation.Required.Error("a review cannot be empty")),
		validation.Field(&r.Rating,
			validation.Required.Error("a review must have a rating"),
			validation.Min(1.0).Error("rating must be above 1.0"),
			validation.Max(5.0).Error("rating must be below 5.0")),
		validation.Field(&r.Tour, validation.By(requiredObjectID("a review must belong to a tour"))),
		validation.Field(&r.User, validation.By(requiredObjectID("a review must belong to a user"))),
	)
}

func requiredObjectID(message string) validation.RuleFunc {
	return func(value any) error {
		id, _ := value.(primitive.ObjectID)
		if id.IsZero() {
			return validation.NewError("validation_required_ref", message)
		}
		return nil
	}
}

// Collection implements mongodb.Model.
func (r *Review) Collection() string {
	return CollectionName
}

// EnsureIndexes implements mongodb.Model.
func (r *Review) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "tour", Value: 1}, bson.E{Key: "user", Value: 1}},
			Options: options.Index().SetName("idx_tour_user").SetUnique(true),
		},
	}
	_, err := db.Collection(CollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
