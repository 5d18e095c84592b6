package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"

	"tourbase/internal/pkg/apperror"
)

func funnelRouter(debug bool, err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(debug))
	r.GET("/boom", func(c *gin.Context) {
		if err != nil {
			_ = c.Error(err)
		}
	})
	r.NoRoute(NotFound())
	return r
}

func funnelHit(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	Convey("error funnel", t, func() {
		Convey("maps operational errors to their status and message", func() {
			w := funnelHit(funnelRouter(false, apperror.NotFound("no tour found with that ID")), "/boom")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, `"status":"fail"`)
			So(w.Body.String(), ShouldContainSubstring, "no tour found with that ID")
		})

		Convey("maps validation errors to 400", func() {
			err := validation.Errors{"name": validation.NewError("required", "cannot be blank")}
			w := funnelHit(funnelRouter(false, err), "/boom")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "invalid input data")
		})

		Convey("maps missing documents to 404", func() {
			w := funnelHit(funnelRouter(false, mongo.ErrNoDocuments), "/boom")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("hides internal detail outside debug mode", func() {
			err := apperror.Wrap(http.StatusInternalServerError, "something went very wrong",
				mongo.ErrClientDisconnected)
			w := funnelHit(funnelRouter(false, err), "/boom")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, `"status":"error"`)
			So(w.Body.String(), ShouldNotContainSubstring, "disconnected")

			w = funnelHit(funnelRouter(true, err), "/boom")
			So(w.Body.String(), ShouldContainSubstring, "disconnected")
		})

		Convey("answers unmatched routes with the path in the message", func() {
			w := funnelHit(funnelRouter(false, nil), "/api/v1/nowhere")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "Can't find /api/v1/nowhere on this server!")
		})
	})
}
