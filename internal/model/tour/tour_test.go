package tour

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"

	"tourbase/internal/governance"
)

func validTour() *Tour {
	return &Tour{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestTourValidate(t *testing.T) {
	Convey("Tour.Validate", t, func() {
		Convey("accepts a well-formed tour", func() {
			tr := validTour()
			tr.SetDefaults()
			So(tr.Validate(), ShouldBeNil)
			So(tr.RatingsAverage, ShouldEqual, 4.5)
		})

		Convey("rejects a name outside 10-40 characters", func() {
			tr := validTour()
			tr.Name = "Short"
			So(tr.Validate(), ShouldNotBeNil)

			tr.Name = strings.Repeat("x", 41)
			So(tr.Validate(), ShouldNotBeNil)
		})

		Convey("rejects an unknown difficulty", func() {
			tr := validTour()
			tr.Difficulty = "impossible"
			err := tr.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "difficulty")
		})

		Convey("rejects a rating outside 1.0-5.0", func() {
			tr := validTour()
			tr.RatingsAverage = 5.5
			So(tr.Validate(), ShouldNotBeNil)
		})

		Convey("rejects a discount at or above the price", func() {
			tr := validTour()
			discount := tr.Price
			tr.PriceDiscount = &discount
			err := tr.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "discount")

			below := tr.Price - 1
			tr.PriceDiscount = &below
			So(tr.Validate(), ShouldBeNil)
		})
	})
}

func TestTourHooks(t *testing.T) {
	ctx := context.Background()

	Convey("tour governance chain", t, func() {
		Convey("derives the slug from the name on create", func() {
			tr := validTour()
			So(Hooks().RunBeforeCreate(ctx, tr), ShouldBeNil)
			So(tr.Slug, ShouldEqual, "the-forest-hiker")
		})

		Convey("hides secret tours from every read, ahead of caller filters", func() {
			q := &governance.Query{Filter: bson.M{"secretTour": true}}
			So(Hooks().RunBeforeQuery(ctx, q), ShouldBeNil)

			// The caller's secretTour=true cannot override the invariant.
			and := q.Filter["$and"].([]bson.M)
			So(and[0], ShouldResemble, bson.M{"secretTour": bson.M{"$ne": true}})
		})

		Convey("requests guide population without credential fields", func() {
			q := &governance.Query{}
			So(Hooks().RunBeforeQuery(ctx, q), ShouldBeNil)
			So(q.Populate, ShouldHaveLength, 1)
			So(q.Populate[0].Path, ShouldEqual, "guides")
			So(q.Populate[0].Exclude, ShouldContain, "passwordChangedAt")
		})

		Convey("prepends the secret-tour match to aggregations", func() {
			p := &governance.Pipeline{Stages: []bson.M{{"$group": bson.M{"_id": "$difficulty"}}}}
			So(Hooks().RunBeforeAggregate(ctx, p), ShouldBeNil)
			So(p.Stages[0], ShouldResemble, bson.M{"$match": bson.M{"secretTour": bson.M{"$ne": true}}})
		})
	})
}

func TestTourSerialization(t *testing.T) {
	Convey("derived fields serialize, stored references do not", t, func() {
		tr := validTour()
		tr.Duration = 14
		tr.ComputeDerived()

		data, err := json.Marshal(tr)
		So(err, ShouldBeNil)

		var out map[string]any
		So(json.Unmarshal(data, &out), ShouldBeNil)
		So(out["durationWeeks"], ShouldEqual, 2)
		So(out, ShouldNotContainKey, "guides")
	})
}
