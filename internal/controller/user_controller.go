package controller

import (
	"quiz_hub_backend/internal/repository"
	"quiz_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserRepo *repository.UserRepository
}

func NewUserController(userRepo *repository.UserRepository) *UserController {
	return &UserController{UserRepo: userRepo}
}

// ListUsers godoc
// @Summary 用户列表
// @Description 只读用户列表，支持 ?role= 过滤
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "角色过滤 OWNER/PARTICIPANT"
// @Success 200 {object} util.Response
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	role := ctx.Query("role")

	users, err := c.UserRepo.List(role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	views := make([]gin.H, len(users))
	for i, u := range users {
		views[i] = gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"role":       u.Role,
		}
	}
	util.Success(ctx, views)
}
