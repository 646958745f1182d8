package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edugen/studio/internal/middleware"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/response"
)

// ownerID returns the id of the signed-in account. It writes the error
// response itself and reports false when there is none.
func ownerID(c *gin.Context) (int64, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return 0, false
	}
	return user.ID, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// materialKind reads the required ?type= query parameter. Tests and study
// materials are numbered independently, so an id alone is ambiguous.
func materialKind(c *gin.Context) (model.MaterialKind, bool) {
	kind := model.MaterialKind(c.Query("type"))
	if !kind.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidMaterialType)
		return "", false
	}
	return kind, true
}
