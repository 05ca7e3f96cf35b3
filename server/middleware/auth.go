package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/companion/auth"
	"github.com/kbukum/companion/auth/authctx"
	"github.com/kbukum/companion/auth/token"
	apperrors "github.com/kbukum/companion/errors"
	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/observability"
)

// IdentityKey is the gin context key holding the verified authctx.Identity.
const IdentityKey = "identity"

// Authenticate is the authentication gate. It requires an
// "Authorization: Bearer <token>" header, verifies the token and attaches the
// identity to the request context. It never consults account storage.
//
// Every rejection gets the same 401 body; the reason is only logged (at
// debug, without the token) and counted in auth.token.verifications.
func Authenticate(verifier auth.Verifier, log *logger.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	log = log.WithComponent("auth")
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.RecordVerification(ctx, observability.OutcomeMissing)
			log.WithContext(ctx).Debug("Request rejected", logger.Fields(logger.FieldReason, observability.OutcomeMissing))
			reject(c)
			return
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			outcome := verificationOutcome(err)
			metrics.RecordVerification(ctx, outcome)
			log.WithContext(ctx).Debug("Request rejected", logger.Fields(logger.FieldReason, outcome))
			reject(c)
			return
		}
		metrics.RecordVerification(ctx, observability.OutcomeOK)

		id := authctx.Identity{UserID: claims.UserID, Username: claims.Username}
		c.Request = c.Request.WithContext(authctx.Set(ctx, id))
		c.Set(IdentityKey, id)
		observability.SetSpanAttribute(ctx, observability.AttrUserID, id.UserID)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

func verificationOutcome(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return observability.OutcomeExpired
	case errors.Is(err, token.ErrInvalidSignature):
		return observability.OutcomeInvalidSignature
	default:
		return observability.OutcomeMalformed
	}
}

func reject(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="companion"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Unauthorized("Invalid or missing bearer token.").ToResponse())
}
