package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sevalink/marketplace_server/internal/api/middleware"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
)

// idParam parses a positive integer path parameter, writing a param error
// when it is malformed.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func bindPage(c *gin.Context, page *dto.PageRequest) {
	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page.Page = p
	}
	if ps, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		page.PageSize = ps
	}
	page.Normalize()
}

// requireUser writes an auth error when the request is anonymous.
func requireUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return 0, false
	}
	return userID, true
}
