package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/feedback-api/internal/middleware"
	"github.com/noah-isme/feedback-api/internal/models"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
	"github.com/noah-isme/feedback-api/pkg/response"
)

// viewerFromContext resolves the authenticated caller or writes a 401.
func viewerFromContext(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return identity, true
}

func withMeta(c *gin.Context) map[string]interface{} {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return meta
}
