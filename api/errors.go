package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabrie-console/service"
)

// statusClientClosedRequest mirrors the common convention for a caller
// that hung up before the answer was ready.
const statusClientClosedRequest = 499

// respondServiceError turns a backend client error into the console's
// answer. Cancelled requests get no error body: the caller is gone and
// a cancellation is not a failure.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(statusClientClosedRequest)

	case errors.Is(err, context.DeadlineExceeded):
		Error(c, http.StatusGatewayTimeout, "The backend took too long to answer")

	case errors.Is(err, service.ErrUnreachable):
		BadGateway(c, "Cannot reach the FABRIE backend")

	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "Record not found")

	case errors.Is(err, service.ErrCategoryInUse):
		BadRequest(c, "Cannot delete this category, it still has transactions")

	case errors.Is(err, service.ErrCSRF):
		Error(c, http.StatusServiceUnavailable, "The backend rejected the request, please try again")

	default:
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			BadRequest(c, ve.Error())
			return
		}
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
