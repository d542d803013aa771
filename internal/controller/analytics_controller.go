package controller

import (
	"errors"
	"strconv"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

func analyticsError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrLearnerNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrNotAStudent), errors.Is(err, util.ErrInvalidLessonKind):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 系统概览
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SystemSummary}
// @Router /api/analytics/summary [get]
func (c *AnalyticsController) GetSystemSummary(ctx *gin.Context) {
	summary, err := c.AnalyticsService.GetSystemSummary()
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 近七日活跃统计
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.DailyActivity}
// @Router /api/analytics/activity [get]
func (c *AnalyticsController) GetWeeklyActivity(ctx *gin.Context) {
	activity, err := c.AnalyticsService.GetWeeklyActivity()
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, activity)
}

// @Summary 单课程分析
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param kind path string true "课程类型" Enums(listening, reading)
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.LessonAnalytics}
// @Router /api/analytics/lessons/{kind}/{id} [get]
func (c *AnalyticsController) GetLessonAnalytics(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	kind := model.LessonKind(ctx.Param("kind"))
	if !kind.Valid() {
		util.BadRequest(ctx, util.ErrInvalidLessonKind.Error())
		return
	}

	report, err := c.AnalyticsService.GetLessonAnalytics(model.LessonRef{LessonID: uint(id), LessonKind: kind})
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 全部课程分析
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LessonAnalytics}
// @Router /api/analytics/lessons [get]
func (c *AnalyticsController) GetAllLessonsAnalytics(ctx *gin.Context) {
	reports, err := c.AnalyticsService.GetAllLessonsAnalytics()
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// @Summary 学生学习报告
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentReport}
// @Router /api/analytics/students/{id} [get]
func (c *AnalyticsController) GetStudentReport(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的学生ID")
		return
	}

	report, err := c.AnalyticsService.GetStudentReport(uint(id))
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 全部学生报告
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.StudentReport}
// @Router /api/analytics/students [get]
func (c *AnalyticsController) GetAllStudentReports(ctx *gin.Context) {
	reports, err := c.AnalyticsService.GetAllStudentReports()
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// @Summary 我的学习报告
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentReport}
// @Router /api/analytics/me [get]
func (c *AnalyticsController) GetMyReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.AnalyticsService.GetStudentReport(claims.UserID)
	if err != nil {
		analyticsError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
