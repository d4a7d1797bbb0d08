package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/pkg/response"
)

const dayLayout = "2006-01-02"

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// parsePagination 解析分页参数，默认 page=1, page_size=20，page_size 上限 100
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// parseWindow 解析 from/to 日期窗口查询参数（均为 YYYY-MM-DD，必填）。
// 解析失败时写入 400 响应并返回 false，调用方应直接 return。
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(dayLayout, c.Query("from"))
	if err != nil {
		response.BadRequest(c, 10001, "from 日期格式无效，应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dayLayout, c.Query("to"))
	if err != nil {
		response.BadRequest(c, 10001, "to 日期格式无效，应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
