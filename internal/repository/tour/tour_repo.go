// Package tour persists Tour documents. Every read and write runs the
// tour governance chain before touching the store, so invariants like
// secret-tour invisibility hold regardless of the caller.
package tour

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourbase/internal/governance"
	"tourbase/internal/model/tour"
	"tourbase/internal/model/user"
	"tourbase/internal/query"
)

// Repo is the tour repository.
type Repo struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewRepo creates a tour repository. The users collection backs guide
// population.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection(tour.CollectionName),
		users:      db.Collection(user.CollectionName),
	}
}

// Create validates nothing itself; the service validates and the
// governance chain derives the slug before the insert.
func (r *Repo) Create(ctx context.Context, t *tour.Tour) error {
	if err := tour.Hooks().RunBeforeCreate(ctx, t); err != nil {
		return err
	}

	res, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = id
	}
	return nil
}

// Find executes a translated query descriptor.
func (r *Repo) Find(ctx context.Context, d query.Descriptor) ([]*tour.Tour, error) {
	q := &governance.Query{Filter: d.Filter, Projection: d.Projection}
	if err := tour.Hooks().RunBeforeQuery(ctx, q); err != nil {
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

	var tours []*tour.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, err
	}

	for _, t := range tours {
		t.ComputeDerived()
	}

	if err := r.populateGuides(ctx, tours, q.Populate); err != nil {
		return nil, err
	}
	return tours, nil
}

// FindByID fetches one tour through the same governed read path.
func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*tour.Tour, error) {
	q := &governance.Query{
		Filter:     bson.M{"_id": id},
		Projection: bson.M{query.VersionMarker: 0},
	}
	if err := tour.Hooks().RunBeforeQuery(ctx, q); err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(q.Projection)
	var t tour.Tour
	if err := r.collection.FindOne(ctx, q.Filter, opts).Decode(&t); err != nil {
		return nil, err
	}

	t.ComputeDerived()
	tours := []*tour.Tour{&t}
	if err := r.populateGuides(ctx, tours, q.Populate); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateByID applies a $set patch and returns the updated document.
// The governed filter applies, so secret tours cannot be reached.
func (r *Repo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*tour.Tour, error) {
	q := &governance.Query{Filter: bson.M{"_id": id}}
	if err := tour.Hooks().RunBeforeQuery(ctx, q); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t tour.Tour
	err := r.collection.FindOneAndUpdate(ctx, q.Filter, bson.M{"$set": set}, opts).Decode(&t)
	if err != nil {
		return nil, err
	}

	t.ComputeDerived()
	return &t, nil
}

// DeleteByID removes a tour. Returns mongo.ErrNoDocuments when the
// governed filter matches nothing.
func (r *Repo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	q := &governance.Query{Filter: bson.M{"_id": id}}
	if err := tour.Hooks().RunBeforeQuery(ctx, q); err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, q.Filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Aggregate runs a pipeline after the aggregate hooks prepend their
// stages.
func (r *Repo) Aggregate(ctx context.Context, stages []bson.M) ([]bson.M, error) {
	p := &governance.Pipeline{Stages: stages}
	if err := tour.Hooks().RunBeforeAggregate(ctx, p); err != nil {
		return nil, err
	}

	pipeline := make(mongo.Pipeline, 0, len(p.Stages))
	for _, stage := range p.Stages {
		doc := bson.D{}
		for k, v := range stage {
			doc = append(doc, bson.E{Key: k, Value: v})
		}
		pipeline = append(pipeline, doc)
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// populateGuides resolves guide references for the loaded tours in one
// $in query, honoring the user governance chain and the population
// exclusions requested by the hooks.
func (r *Repo) populateGuides(ctx context.Context, tours []*tour.Tour, populate []governance.Populate) error {
	var req *governance.Populate
	for i := range populate {
		if populate[i].Path == "guides" {
			req = &populate[i]
			break
		}
	}
	if req == nil {
		return nil
	}

	idSet := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, t := range tours {
		for _, id := range t.GuideIDs {
			if !idSet[id] {
				idSet[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	uq := &governance.Query{Filter: bson.M{"_id": bson.M{"$in": ids}}}
	if err := user.Hooks().RunBeforeQuery(ctx, uq); err != nil {
		return err
	}

	projection := bson.M{}
	for _, field := range req.Exclude {
		projection[field] = 0
	}

	cursor, err := r.users.Find(ctx, uq.Filter, options.Find().SetProjection(projection))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var guides []*user.User
	if err := cursor.All(ctx, &guides); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*user.User, len(guides))
	for _, g := range guides {
		byID[g.ID] = g
	}

	for _, t := range tours {
		for _, id := range t.GuideIDs {
			if g, ok := byID[id]; ok {
				t.Guides = append(t.Guides, g)
			}
		}
	}
	return nil
}
