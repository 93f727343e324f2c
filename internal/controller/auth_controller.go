package controller

import (
	"errors"

	"quiz_hub_backend/internal/service"
	"quiz_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

func NewAuthController(authService *service.AuthService, tokenService *service.TokenService) *AuthController {
	return &AuthController{
		AuthService:  authService,
		TokenService: tokenService,
	}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册新用户，角色固定为 PARTICIPANT
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或邮箱已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"role":       user.Role,
	})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭据并返回用户档案信息
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "凭据无效"
// @Failure 403 {object} util.Response "账号被禁用"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrAccountDisabled) {
			util.Forbidden(ctx, err.Error())
		} else {
			util.Unauthorized(ctx, util.ErrInvalidCredentials.Error())
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":           user.ID,
		"role":         user.Role,
		"is_superuser": user.IsSuperuser,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"email":        user.Email,
	})
}

// Token godoc
// @Summary 签发令牌对
// @Description 用邮箱密码换 access/refresh 令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "凭据无效"
// @Router /api/token [post]
func (c *AuthController) Token(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pair, err := c.TokenService.IssuePair(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrAccountDisabled) {
			util.Forbidden(ctx, err.Error())
		} else if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, pair)
}

// Me godoc
// @Summary 当前用户信息
// @Description 返回令牌对应用户的档案
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未认证或用户不存在"
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	util.Success(ctx, gin.H{
		"id":           user.ID,
		"role":         user.Role,
		"is_superuser": user.IsSuperuser,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"email":        user.Email,
	})
}

// swagger:model RefreshRequest
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenRefresh godoc
// @Summary 刷新 access 令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RefreshRequest true "refresh 令牌"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "refresh 无效或已过期"
// @Router /api/token/refresh [post]
func (c *AuthController) TokenRefresh(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	access, err := c.TokenService.Refresh(ctx.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, util.ErrInvalidRefresh) || errors.Is(err, util.ErrAccountDisabled) {
			util.Unauthorized(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"access": access})
}

// Logout godoc
// @Summary 登出
// @Description 吊销 refresh 令牌；已吊销或不存在的令牌同样返回成功
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body RefreshRequest true "refresh 令牌"
// @Success 200 {object} util.Response "成功"
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.TokenService.Revoke(ctx.Request.Context(), req.Refresh); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"detail": "Refresh token revoked."})
}
