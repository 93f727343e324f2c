package controller

import (
	"errors"

	"quiz_hub_backend/internal/model"
	"quiz_hub_backend/internal/service"
	"quiz_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 嵌套创建测验、题目和选项，单个事务，失败整体回滚
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuizWriteRequest true "测验信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quiz [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	var req service.QuizWriteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.Create(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, service.BuildView(quiz))
}

// ListQuizzes godoc
// @Summary 测验列表
// @Description 当前用户可见的测验：自己创建的 + 作为 active 成员加入的
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/quiz [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	quizzes, err := c.Service.ListVisible(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	views := make([]service.QuizView, len(quizzes))
	for i := range quizzes {
		views[i] = service.BuildView(&quizzes[i])
	}
	util.Success(ctx, views)
}

// GetQuiz godoc
// @Summary 测验详情
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "不可见或不存在"
// @Router /api/quiz/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	quiz, err := c.Service.GetVisible(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, service.BuildView(quiz))
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Description 仅更新标量字段（标题、描述、randomized、时间窗口）；题目结构创建后不可改
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body service.QuizUpdateRequest true "更新字段"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "非本人测验"
// @Router /api/quiz/{id} [patch]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	var req service.QuizUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.Update(user.UserID, ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, service.BuildView(quiz))
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 级联删除题目、选项、成员关系和提交记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "非本人测验"
// @Router /api/quiz/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	if err := c.Service.Delete(user.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": ctx.Param("id")})
}

// PublishQuiz godoc
// @Summary 发布测验
// @Description state := LIVE；starts_at 未设置时取当前时间。不校验先前状态
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非 owner"
// @Failure 404 {object} util.Response "不可见或不存在"
// @Router /api/quiz/{id}/publish [post]
func (c *QuizController) PublishQuiz(ctx *gin.Context) {
	c.lifecycle(ctx, c.Service.Publish)
}

// CloseQuiz godoc
// @Summary 关闭测验
// @Description state := CLOSED，之后提交一律失败。不校验先前状态
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非 owner"
// @Failure 404 {object} util.Response "不可见或不存在"
// @Router /api/quiz/{id}/close [post]
func (c *QuizController) CloseQuiz(ctx *gin.Context) {
	c.lifecycle(ctx, c.Service.Close)
}

func (c *QuizController) lifecycle(ctx *gin.Context, op func(callerID, quizID string) (*model.Quiz, error)) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	quiz, err := op(user.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotAllowed):
			util.Forbidden(ctx, "")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"state": quiz.State})
}
