package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

type failingRateStore struct{}

func (failingRateStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func rateLimitedRouter(store RateStore, max int64, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(store, max, window))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	Convey("rate limiter", t, func() {
		Convey("admits up to the cap and rejects the next request", func() {
			r := rateLimitedRouter(NewMemoryRateStore(), 3, time.Hour)

			for i := 0; i < 3; i++ {
				So(hit(r).Code, ShouldEqual, http.StatusOK)
			}

			w := hit(r)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(w.Body.String(), ShouldContainSubstring, "Too many requests from this IP")
			So(w.Body.String(), ShouldContainSubstring, `"status":"fail"`)
		})

		Convey("admits again once the window expires", func() {
			r := rateLimitedRouter(NewMemoryRateStore(), 1, 30*time.Millisecond)

			So(hit(r).Code, ShouldEqual, http.StatusOK)
			So(hit(r).Code, ShouldEqual, http.StatusTooManyRequests)

			time.Sleep(40 * time.Millisecond)
			So(hit(r).Code, ShouldEqual, http.StatusOK)
		})

		Convey("fails open when the store is unavailable", func() {
			r := rateLimitedRouter(failingRateStore{}, 1, time.Hour)

			So(hit(r).Code, ShouldEqual, http.StatusOK)
			So(hit(r).Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestMemoryRateStore(t *testing.T) {
	Convey("memory rate store", t, func() {
		store := NewMemoryRateStore()
		ctx := context.Background()

		Convey("counts per key", func() {
			n1, err := store.Incr(ctx, "a", time.Hour)
			So(err, ShouldBeNil)
			So(n1, ShouldEqual, 1)

			n2, _ := store.Incr(ctx, "a", time.Hour)
			So(n2, ShouldEqual, 2)

			other, _ := store.Incr(ctx, "b", time.Hour)
			So(other, ShouldEqual, 1)
		})

		Convey("resets the counter after the window", func() {
			_, _ = store.Incr(ctx, "c", 10*time.Millisecond)
			_, _ = store.Incr(ctx, "c", 10*time.Millisecond)

			time.Sleep(15 * time.Millisecond)

			n, err := store.Incr(ctx, "c", 10*time.Millisecond)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}
