package controller

import (
	"errors"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradingService *service.GradingService
}

func NewGradeController(gradingService *service.GradingService) *GradeController {
	return &GradeController{GradingService: gradingService}
}

type SubmitLessonRequest struct {
	LessonID         uint             `json:"lessonId" binding:"required"`
	LessonKind       model.LessonKind `json:"lessonKind" binding:"required"`
	Answers          map[uint]string  `json:"answers" binding:"required"`
	TimeSpentSeconds int              `json:"timeSpentSeconds"`
}

// @Summary 提交课程答案
// @Tags 学习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitLessonRequest true "答题记录"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Router /api/submit [post]
func (c *GradeController) SubmitLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GradingService.SubmitLesson(
		claims.UserID, req.LessonID, req.LessonKind, req.Answers, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidLessonKind):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrLearnerNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 我的学习进度
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *GradeController) GetMyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.GradingService.GetUserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
