package controller

import (
	"errors"

	"quiz_hub_backend/internal/service"
	"quiz_hub_backend/internal/util"
	"quiz_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type MembershipController struct {
	Service *service.MembershipService
}

func NewMembershipController(svc *service.MembershipService) *MembershipController {
	return &MembershipController{Service: svc}
}

// swagger:model AddMembersRequest
type AddMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// AddMembers godoc
// @Summary 批量添加成员
// @Description owner 把参与者拉进测验；已存在的成员原样返回，不重新激活
// @Tags 成员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body AddMembersRequest true "用户ID列表"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "user_ids 为空"
// @Failure 404 {object} util.Response "非本人测验"
// @Router /api/quiz/{id}/members [post]
func (c *MembershipController) AddMembers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	var req AddMembersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	memberships, err := c.Service.Enroll(user.UserID, ctx.Param("id"), req.UserIDs)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyUserIDs):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, memberships)
}

// GetProgress godoc
// @Summary 进度查询
// @Description owner 得到全员仪表盘（按总分倒序）；参与者得到自己的进度对象
// @Tags 成员
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "不是成员或测验不可见"
// @Router /api/quiz/{id}/progress [get]
func (c *MembershipController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	quizID := ctx.Param("id")

	// owner 走仪表盘，其余走个人进度
	entries, err := c.Service.Dashboard(user.UserID, quizID)
	if err == nil {
		util.Success(ctx, entries)
		return
	}
	if !errors.Is(err, util.ErrQuizNotFound) {
		util.LogInternalError(ctx, err)
		return
	}

	progress, err := c.Service.Progress(user.UserID, quizID)
	if err != nil {
		if errors.Is(err, util.ErrNotMember) {
			util.NotFound(ctx, "Not a member")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, progress)
}

// Submit godoc
// @Summary 提交答案
// @Description 参与者对某题提交一个选项；每题只能答一次，答完即定格
// @Tags 成员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body service.SubmitRequest true "提交内容"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "不是成员/题目或选项不匹配/重复提交/测验未开放"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz/{id}/submit [post]
func (c *MembershipController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "")
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(user.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotMember),
			errors.Is(err, util.ErrQuizNotOpen),
			errors.Is(err, util.ErrQuestionNotFound),
			errors.Is(err, util.ErrOptionNotFound),
			errors.Is(err, util.ErrAlreadyAnswered):
			monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if result.Correct {
		monitoring.SubmissionCounter.WithLabelValues("correct").Inc()
	} else {
		monitoring.SubmissionCounter.WithLabelValues("incorrect").Inc()
	}

	util.Created(ctx, result)
}
