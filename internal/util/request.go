package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseQueryUint 解析查询参数中的无符号整数，缺失或非法返回 nil
func ParseQueryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

// PickFields 从请求体里挑出允许更新的字段
func PickFields(body map[string]interface{}, keys ...string) map[string]interface{} {
	picked := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		if v, ok := body[key]; ok {
			picked[key] = v
		}
	}
	return picked
}
