package service

import (
	"context"
	"errors"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tourbase/internal/model/tour"
	"tourbase/internal/pkg/apperror"
	"tourbase/internal/pkg/slug"
	"tourbase/internal/query"
	reviewRepo "tourbase/internal/repository/review"
	tourRepo "tourbase/internal/repository/tour"
)

// TourService orchestrates tour reads and writes.
type TourService struct {
	tours   *tourRepo.Repo
	reviews *reviewRepo.Repo
}

// NewTourService creates a tour service.
func NewTourService(tours *tourRepo.Repo, reviews *reviewRepo.Repo) *TourService {
	return &TourService{tours: tours, reviews: reviews}
}

// List translates the raw query string and executes it.
func (s *TourService) List(ctx context.Context, values url.Values) ([]*tour.Tour, error) {
	return s.tours.Find(ctx, query.Translate(values))
}

// Get fetches one tour with its virtual reviews resolved.
func (s *TourService) Get(ctx context.Context, idHex string) (*tour.Tour, error) {
	id, err := parseID(idHex)
	if err != nil {
		return nil, err
	}

	t, err := s.tours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("no tour found with that ID")
		}
		return nil, err
	}

	reviews, err := s.reviews.FindByTour(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Reviews = reviews
	return t, nil
}

// Create validates and persists a new tour.
func (s *TourService) Create(ctx context.Context, t *tour.Tour) error {
	t.SetDefaults()
	if err := t.Validate(); err != nil {
		return err
	}
	return s.tours.Create(ctx, t)
}

// Update patches a tour. A renamed tour gets a matching slug in the
// same write, keeping the slug invariant.
func (s *TourService) Update(ctx context.Context, idHex string, patch bson.M) (*tour.Tour, error) {
	id, err := parseID(idHex)
	if err != nil {
		return nil, err
	}

	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "slug")
	if name, ok := patch["name"].(string); ok {
		patch["slug"] = slug.Make(name)
	}

	t, err := s.tours.UpdateByID(ctx, id, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("no tour found with that ID")
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a tour.
func (s *TourService) Delete(ctx context.Context, idHex string) error {
	id, err := parseID(idHex)
	if err != nil {
		return err
	}

	if err := s.tours.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("no tour found with that ID")
		}
		return err
	}
	return nil
}

// Stats aggregates rating and price figures per difficulty over
// well-rated tours. The governance chain prepends the secret-tour
// match ahead of these stages.
func (s *TourService) Stats(ctx context.Context) ([]bson.M, error) {
	stages := []bson.M{
		{"$match": bson.M{"ratingsAverage": bson.M{"$gte": 4.5}}},
		{"$group": bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}},
		{"$sort": bson.M{"avgPrice": 1}},
	}
	return s.tours.Aggregate(ctx, stages)
}

func parseID(idHex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, apperror.BadRequest("invalid ID: " + idHex)
	}
	return id, nil
}
