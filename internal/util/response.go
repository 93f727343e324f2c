package util

import (
	"net/http"

	"quiz_hub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
// 所有接口返回 {"success": "True"|"False", "data": ...}；
// 400 额外带 message（以及尽力附上 user_id），404 去掉 data 只留 message。
type Response struct {
	Success string      `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	UserID  string      `json:"user_id,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: "True", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: "True", Data: data})
}

func BadRequest(c *gin.Context, message string) {
	resp := Response{Success: "False", Message: message}
	// 尽力附上已认证用户的 id；未认证时静默跳过
	if claims := GetUserFromContext(c); claims != nil {
		resp.UserID = claims.UserID
	}
	c.JSON(http.StatusBadRequest, resp)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	c.JSON(http.StatusUnauthorized, Response{Success: "False", Message: message})
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Not allowed"
	}
	c.JSON(http.StatusForbidden, Response{Success: "False", Data: gin.H{"detail": message}})
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not found."
	}
	c.JSON(http.StatusNotFound, Response{Success: "False", Message: message})
}

func InternalServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{Success: "False", Message: "Internal server error"})
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}
