package governance

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
)

func TestChainOrdering(t *testing.T) {
	Convey("hooks run in registration order and stop on error", t, func() {
		var order []string
		chain := NewChain("thing").
			BeforeQuery("first", func(ctx context.Context, q *Query) error {
				order = append(order, "first")
				return nil
			}).
			BeforeQuery("second", func(ctx context.Context, q *Query) error {
				order = append(order, "second")
				return errors.New("boom")
			}).
			BeforeQuery("third", func(ctx context.Context, q *Query) error {
				order = append(order, "third")
				return nil
			})

		err := chain.RunBeforeQuery(context.Background(), &Query{})
		So(err, ShouldNotBeNil)
		So(order, ShouldResemble, []string{"first", "second"})
	})
}

func TestQueryRequire(t *testing.T) {
	Convey("Require merges implicit filters ahead of caller conditions", t, func() {
		Convey("sets the condition on a fresh query", func() {
			q := &Query{}
			q.Require(bson.M{"secretTour": bson.M{"$ne": true}})
			So(q.Filter["secretTour"], ShouldResemble, bson.M{"$ne": true})
		})

		Convey("a caller condition on the same field cannot override it", func() {
			q := &Query{Filter: bson.M{"secretTour": true}}
			q.Require(bson.M{"secretTour": bson.M{"$ne": true}})

			So(q.Filter, ShouldNotContainKey, "secretTour")
			and := q.Filter["$and"].([]bson.M)
			So(and, ShouldHaveLength, 2)
			So(and[0], ShouldResemble, bson.M{"secretTour": bson.M{"$ne": true}})
			So(and[1], ShouldResemble, bson.M{"secretTour": true})
		})

		Convey("unrelated caller conditions survive", func() {
			q := &Query{Filter: bson.M{"duration": bson.M{"$gte": 5.0}}}
			q.Require(bson.M{"secretTour": bson.M{"$ne": true}})
			So(q.Filter["duration"], ShouldResemble, bson.M{"$gte": 5.0})
			So(q.Filter["secretTour"], ShouldResemble, bson.M{"$ne": true})
		})
	})
}

func TestQueryExcludeFields(t *testing.T) {
	Convey("ExcludeFields", t, func() {
		Convey("adds exclusions to the projection", func() {
			q := &Query{Projection: bson.M{"__v": 0}}
			q.ExcludeFields("passwordChangedAt")
			So(q.Projection, ShouldResemble, bson.M{"__v": 0, "passwordChangedAt": 0})
		})

		Convey("leaves an explicit inclusion set alone", func() {
			q := &Query{Projection: bson.M{"name": 1, "price": 1}}
			q.ExcludeFields("passwordChangedAt")
			So(q.Projection, ShouldResemble, bson.M{"name": 1, "price": 1})
		})
	})
}

func TestPipelineUnshift(t *testing.T) {
	Convey("Unshift places the stage ahead of caller stages", t, func() {
		p := &Pipeline{Stages: []bson.M{{"$group": bson.M{"_id": "$difficulty"}}}}
		p.Unshift(bson.M{"$match": bson.M{"secretTour": bson.M{"$ne": true}}})

		So(p.Stages, ShouldHaveLength, 2)
		So(p.Stages[0], ShouldContainKey, "$match")
		So(p.Stages[1], ShouldContainKey, "$group")
	})
}
