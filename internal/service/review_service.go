package service

import (
	"context"
	"net/url"

	"tourbase/internal/model/review"
	"tourbase/internal/query"
	reviewRepo "tourbase/internal/repository/review"
)

// ReviewService orchestrates review reads and writes.
type ReviewService struct {
	reviews *reviewRepo.Repo
}

// NewReviewService creates a review service.
func NewReviewService(reviews *reviewRepo.Repo) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// List translates the raw query string, optionally scoped to a tour
// from a nested route.
func (s *ReviewService) List(ctx context.Context, values url.Values, tourIDHex string) ([]*review.Review, error) {
	d := query.Translate(values)
	if tourIDHex != "" {
		tourID, err := parseID(tourIDHex)
		if err != nil {
			return nil, err
		}
		d.Filter["tour"] = tourID
	}
	return s.reviews.Find(ctx, d)
}

// Create validates and persists a review. Tour and user references
// come in already resolved from the route and the session.
func (s *ReviewService) Create(ctx context.Context, rev *review.Review) error {
	rev.SetDefaults()
	if err := rev.Validate(); err != nil {
		return err
	}
	return s.reviews.Create(ctx, rev)
}
