package controller

import (
	"errors"
	"strconv"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

func parsePage(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func lessonError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrCategoryNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidLessonKind):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 创建听力课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LessonRequest true "课程"
// @Success 201 {object} util.Response
// @Router /api/teacher/lessons/listening [post]
func (c *LessonController) CreateListening(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.CreateListening(req)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 更新听力课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/listening/{id} [put]
func (c *LessonController) UpdateListening(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.UpdateListening(uint(id), req)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除听力课程
// @Tags 课程
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/listening/{id} [delete]
func (c *LessonController) DeleteListening(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	if err := c.LessonService.DeleteListening(uint(id)); err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 听力课程详情
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/listening/{id} [get]
func (c *LessonController) GetListening(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	lesson, err := c.LessonService.GetListening(uint(id))
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 听力课程列表
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.PageResponse
// @Router /api/teacher/lessons/listening [get]
func (c *LessonController) ListListening(ctx *gin.Context) {
	page, limit := parsePage(ctx)
	lessons, total, err := c.LessonService.ListListening(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessPage(ctx, lessons, total, page, limit)
}

// @Summary 创建阅读课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LessonRequest true "课程"
// @Success 201 {object} util.Response
// @Router /api/teacher/lessons/reading [post]
func (c *LessonController) CreateReading(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.CreateReading(req)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 更新阅读课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/reading/{id} [put]
func (c *LessonController) UpdateReading(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.UpdateReading(uint(id), req)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除阅读课程
// @Tags 课程
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/reading/{id} [delete]
func (c *LessonController) DeleteReading(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	if err := c.LessonService.DeleteReading(uint(id)); err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 阅读课程详情
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/reading/{id} [get]
func (c *LessonController) GetReading(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	lesson, err := c.LessonService.GetReading(uint(id))
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 阅读课程列表
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.PageResponse
// @Router /api/teacher/lessons/reading [get]
func (c *LessonController) ListReading(ctx *gin.Context) {
	page, limit := parsePage(ctx)
	lessons, total, err := c.LessonService.ListReading(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessPage(ctx, lessons, total, page, limit)
}

// @Summary 已发布听力课程
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/lessons/listening [get]
func (c *LessonController) GetPublishedListening(ctx *gin.Context) {
	lessons, err := c.LessonService.GetPublishedListening(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 已发布阅读课程
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/lessons/reading [get]
func (c *LessonController) GetPublishedReading(ctx *gin.Context) {
	lessons, err := c.LessonService.GetPublishedReading(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 上传听力音频
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param audio formData file true "音频文件"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/listening/{id}/audio [post]
func (c *LessonController) UploadAudio(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, "缺少音频文件")
		return
	}

	lesson, err := c.LessonService.UploadListeningAudio(ctx.Request.Context(), uint(id), fileHeader)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 创建题目
// @Tags 题目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "题目"
// @Success 201 {object} util.Response
// @Router /api/teacher/questions [post]
func (c *LessonController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.LessonService.CreateQuestion(req)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 更新题目
// @Tags 题目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [put]
func (c *LessonController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.LessonService.UpdateQuestion(uint(id), req)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 删除题目
// @Tags 题目
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [delete]
func (c *LessonController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}
	if err := c.LessonService.DeleteQuestion(uint(id)); err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 课程题目列表
// @Tags 题目
// @Produce json
// @Security BearerAuth
// @Param kind path string true "课程类型" Enums(listening, reading)
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{kind}/{id} [get]
func (c *LessonController) GetQuestions(ctx *gin.Context) {
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

	claims := util.GetUserFromContext(ctx)
	includeAnswers := claims != nil && claims.Role != model.Student

	questions, err := c.LessonService.GetQuestions(model.LessonRef{LessonID: uint(id), LessonKind: kind}, includeAnswers)
	if err != nil {
		lessonError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 创建分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CategoryRequest true "分类"
// @Success 201 {object} util.Response
// @Router /api/teacher/categories [post]
func (c *LessonController) CreateCategory(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.LessonService.CreateCategory(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// @Summary 分类列表
// @Tags 分类
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/categories [get]
func (c *LessonController) ListCategories(ctx *gin.Context) {
	categories, err := c.LessonService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}
