// Package tour defines the Tour entity, its validation rules and its
// governance chain.
package tour

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourbase/internal/governance"
	"tourbase/internal/model/review"
	"tourbase/internal/model/user"
	"tourbase/internal/pkg/slug"
	"tourbase/internal/query"
)

// CollectionName is the MongoDB collection for tours.
const CollectionName = "tours"

// Difficulty grades a tour.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// IsValid checks the difficulty value.
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyDifficult
}

// Location is a GeoJSON point with a human-readable description.
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour is a bookable trip. GuideIDs holds the stored references;
// Guides and Reviews are resolved at read time and never persisted.
type Tour struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name"`
	Slug            string               `bson:"slug" json:"slug"`
	Duration        int                  `bson:"duration" json:"duration"`
	MaxGroupSize    int                  `bson:"maxGroupSize" json:"maxGroupSize"`
	Difficulty      Difficulty           `bson:"difficulty" json:"difficulty"`
	RatingsAverage  float64              `bson:"ratingsAverage" json:"ratingsAverage"`
	RatingsQuantity int                  `bson:"ratingsQuantity" json:"ratingsQuantity"`
	Price           float64              `bson:"price" json:"price"`
	PriceDiscount   *float64             `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string               `bson:"summary" json:"summary"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string               `bson:"imageCover" json:"imageCover"`
	Images          []string             `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	StartDates      []time.Time          `bson:"startDates,omitempty" json:"startDates,omitempty"`
	SecretTour      bool                 `bson:"secretTour" json:"secretTour"`
	StartLocation   *Location            `bson:"startLocation,omitempty" json:"startLocation,omitempty"`
	Locations       []Location           `bson:"locations,omitempty" json:"locations,omitempty"`
	GuideIDs        []primitive.ObjectID `bson:"guides,omitempty" json:"-"`

	// Derived and virtual fields, never stored.
	DurationWeeks float64          `bson:"-" json:"durationWeeks"`
	Guides        []*user.User     `bson:"-" json:"guides,omitempty"`
	Reviews       []*review.Review `bson:"-" json:"reviews,omitempty"`
}

// SetDefaults fills defaulted fields before the first save.
func (t *Tour) SetDefaults() {
	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
	if t.StartLocation != nil && t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
}

// ComputeDerived fills the non-persisted derived fields after a read.
func (t *Tour) ComputeDerived() {
	t.DurationWeeks = float64(t.Duration) / 7
}

// Validate checks the tour at creation time. The discount rule is
// validated once here, never re-checked on reads.
func (t *Tour) Validate() error {
	err := validation.ValidateStruct(t,
		validation.Field(&t.Name,
			validation.Required.Error("a tour must have a name"),
			validation.Length(10, 40).Error("a tour name must have between 10 and 40 characters")),
		validation.Field(&t.Duration,
			validation.Required.Error("a tour must have a duration"),
			validation.Min(1)),
		validation.Field(&t.MaxGroupSize,
			validation.Required.Error("a tour must have a group size"),
			validation.Min(1)),
		validation.Field(&t.Difficulty,
			validation.Required.Error("a tour must have a difficulty"),
			validation.By(validDifficulty)),
		validation.Field(&t.RatingsAverage,
			validation.Min(1.0).Error("rating must be above 1.0"),
			validation.Max(5.0).Error("rating must be below 5.0")),
		validation.Field(&t.Price,
			validation.Required.Error("a tour must have a price"),
			validation.Min(0.0).Exclusive()),
		validation.Field(&t.Summary, validation.Required.Error("a tour must have a summary")),
		validation.Field(&t.ImageCover, validation.Required.Error("a tour must have a cover image")),
	)
	if err != nil {
		return err
	}

	if t.PriceDiscount != nil && *t.PriceDiscount >= t.Price {
		return validation.Errors{
			"priceDiscount": validation.NewError(
				"validation_discount_above_price",
				"discount price should be below regular price"),
		}
	}
	return nil
}

func validDifficulty(value any) error {
	d, _ := value.(Difficulty)
	if !d.IsValid() {
		return validation.NewError("validation_invalid_difficulty", "difficulty is either: easy, medium, difficult")
	}
	return nil
}

// Collection implements mongodb.Model.
func (t *Tour) Collection() string {
	return CollectionName
}

// EnsureIndexes implements mongodb.Model.
func (t *Tour) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_slug").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "price", Value: 1}, bson.E{Key: "ratingsAverage", Value: -1}},
			Options: options.Index().SetName("idx_price_rating"),
		},
	}
	_, err := db.Collection(CollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}

// chain enforces the tour invariants on every store operation:
// slug derivation on create, secret-tour invisibility on reads and
// aggregations, and guide population with credential fields stripped.
var chain = governance.NewChain(CollectionName).
	BeforeCreate("derive-slug", deriveSlug).
	BeforeQuery("hide-secret-tours", hideSecret).
	BeforeQuery("populate-guides", populateGuides).
	BeforeAggregate("hide-secret-tours", hideSecretAggregate)

// Hooks returns the tour governance chain.
func Hooks() *governance.Chain {
	return chain
}

func deriveSlug(ctx context.Context, doc any) error {
	t, ok := doc.(*Tour)
	if !ok {
		return nil
	}
	t.Slug = slug.Make(t.Name)
	return nil
}

func hideSecret(ctx context.Context, q *governance.Query) error {
	q.Require(bson.M{"secretTour": bson.M{"$ne": true}})
	return nil
}

func populateGuides(ctx context.Context, q *governance.Query) error {
	q.AddPopulate(governance.Populate{
		Path:    "guides",
		Exclude: []string{query.VersionMarker, "passwordChangedAt"},
	})
	return nil
}

func hideSecretAggregate(ctx context.Context, p *governance.Pipeline) error {
	p.Unshift(bson.M{"$match": bson.M{"secretTour": bson.M{"$ne": true}}})
	return nil
}
