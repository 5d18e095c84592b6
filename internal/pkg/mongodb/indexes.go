package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"tourbase/internal/model/review"
	"tourbase/internal/model/tour"
	"tourbase/internal/model/user"
)

// EnsureIndexes creates the indexes for every collection. Called once
// at application startup.
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&tour.Tour{},
		&user.User{},
		&review.Review{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}
