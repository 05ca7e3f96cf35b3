package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/companion/errors"
)

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// structured body are derived automatically; otherwise a generic 500 is sent.
// The cause of an error is never written to the client.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
