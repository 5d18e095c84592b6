package query

import (
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
)

func parse(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad query %q: %v", raw, err)
	}
	return values
}

func TestTranslateFilter(t *testing.T) {
	Convey("filter stage", t, func() {
		Convey("rewrites comparison suffixes to Mongo operators", func() {
			d := Translate(parse(t, "duration[gte]=5&price[lt]=1000"))
			So(d.Filter["duration"], ShouldResemble, bson.M{"$gte": float64(5)})
			So(d.Filter["price"], ShouldResemble, bson.M{"$lt": float64(1000)})
		})

		Convey("merges multiple comparisons on one field", func() {
			d := Translate(parse(t, "duration[gte]=5&duration[lte]=9"))
			So(d.Filter["duration"], ShouldResemble, bson.M{"$gte": float64(5), "$lte": float64(9)})
		})

		Convey("treats plain keys as equality", func() {
			d := Translate(parse(t, "difficulty=easy&duration=5"))
			So(d.Filter["difficulty"], ShouldEqual, "easy")
			So(d.Filter["duration"], ShouldEqual, float64(5))
		})

		Convey("turns repeated values into $in", func() {
			d := Translate(parse(t, "difficulty=easy&difficulty=difficult"))
			So(d.Filter["difficulty"], ShouldResemble, bson.M{"$in": []any{"easy", "difficult"}})
		})

		Convey("strips reserved control keys", func() {
			d := Translate(parse(t, "page=2&sort=price&limit=10&fields=name&duration=5"))
			So(d.Filter, ShouldResemble, bson.M{"duration": float64(5)})
		})

		Convey("passes unknown fields through as literal equality", func() {
			d := Translate(parse(t, "unknownField=abc"))
			So(d.Filter["unknownField"], ShouldEqual, "abc")
		})

		Convey("coerces booleans", func() {
			d := Translate(parse(t, "secretTour=false"))
			So(d.Filter["secretTour"], ShouldEqual, false)
		})
	})
}

func TestTranslateSort(t *testing.T) {
	Convey("sort stage", t, func() {
		Convey("splits on commas, primary key first, - means descending", func() {
			d := Translate(parse(t, "sort=-price,ratingsAverage"))
			So(d.Sort, ShouldResemble, bson.D{
				{Key: "price", Value: -1},
				{Key: "ratingsAverage", Value: 1},
			})
		})

		Convey("defaults to descending createdAt", func() {
			d := Translate(parse(t, "duration=5"))
			So(d.Sort, ShouldResemble, bson.D{{Key: "createdAt", Value: -1}})
		})
	})
}

func TestTranslateProjection(t *testing.T) {
	Convey("projection stage", t, func() {
		Convey("includes the requested fields", func() {
			d := Translate(parse(t, "fields=name,duration,price"))
			So(d.Projection, ShouldResemble, bson.M{"name": 1, "duration": 1, "price": 1})
		})

		Convey("defaults to everything except the version marker", func() {
			d := Translate(parse(t, ""))
			So(d.Projection, ShouldResemble, bson.M{"__v": 0})
		})
	})
}

func TestTranslatePagination(t *testing.T) {
	Convey("paginate stage", t, func() {
		Convey("computes skip from page and limit", func() {
			d := Translate(parse(t, "page=2&limit=10"))
			So(d.Skip, ShouldEqual, 10)
			So(d.Limit, ShouldEqual, 10)
		})

		Convey("defaults to page 1 limit 100", func() {
			d := Translate(parse(t, ""))
			So(d.Skip, ShouldEqual, 0)
			So(d.Limit, ShouldEqual, 100)
		})

		Convey("silently defaults on malformed values", func() {
			d := Translate(parse(t, "page=abc&limit=-3"))
			So(d.Skip, ShouldEqual, 0)
			So(d.Limit, ShouldEqual, 100)
		})
	})
}
