package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePage 从查询参数解析 page/pageSize，非法值回退默认
func ParsePage(c *gin.Context, defaultPageSize int) (page, pageSize int) {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// ParseID 解析路径里的数字 ID，0 表示非法
func ParseID(c *gin.Context, name string) uint {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0
	}
	return uint(id)
}
