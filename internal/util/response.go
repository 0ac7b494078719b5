package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 统一的错误响应格式：{"message": "..."}
// 前端只看 message，不区分失败原因

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"message": msg,
	})
}

// Unauthorized 鉴权失败统一返回，不暴露具体原因
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "未授权访问，请先登录")
}

// PageResult 分页查询的统一响应
type PageResult struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int64       `json:"totalPages"`
}

// NewPageResult 组装分页响应，totalPages 向上取整
func NewPageResult(data interface{}, total int64, page, pageSize int) PageResult {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return PageResult{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
