package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"tourbase/internal/model"
	"tourbase/internal/pkg/apperror"
)

// ErrorHandler is the terminal error funnel. Handlers never write
// failure bodies themselves; they attach the error and this middleware
// maps it. Operational errors surface with their status code and safe
// message; anything else becomes a generic 500, with internal detail
// exposed only in debug mode.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		code, message := mapError(err)

		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("path", c.Request.URL.Path).
				Str("request_id", c.GetString(RequestIDKey)).
				Msg("unexpected error")
		}

		resp := model.Fail(code, message)
		if debug {
			resp.Error = err.Error()
		}
		c.JSON(code, resp)
	}
}

func mapError(err error) (int, string) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Code, appErr.Message
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, "invalid input data: " + validationErrs.Error()
	}

	if mongo.IsDuplicateKeyError(err) {
		return http.StatusBadRequest, "duplicate field value, please use another value"
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return http.StatusNotFound, "resource not found"
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge, "request body too large"
	}

	return http.StatusInternalServerError, "something went very wrong"
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.Fail(http.StatusNotFound,
			"Can't find "+c.Request.URL.Path+" on this server!"))
	}
}
