package handler

import (
	"fmt"
	"strconv"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageParams(c *gin.Context) (limit, offset int, err error) {
	limit, offset = defaultPageSize, 0
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidArgument)
		}
		if limit == 0 {
			limit = defaultPageSize
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("%w: offset must be a non-negative integer", domain.ErrInvalidArgument)
		}
	}
	return limit, offset, nil
}
