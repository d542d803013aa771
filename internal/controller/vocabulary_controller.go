package controller

import (
	"errors"
	"strconv"

	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VocabularyController struct {
	VocabularyService *service.VocabularyService
}

func NewVocabularyController(vocabularyService *service.VocabularyService) *VocabularyController {
	return &VocabularyController{VocabularyService: vocabularyService}
}

func vocabularyError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrVocabularyNotFound), errors.Is(err, util.ErrLearnerNotFound):
		util.NotFound(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 创建词汇
// @Tags 词汇
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.VocabularyRequest true "词汇"
// @Success 201 {object} util.Response
// @Router /api/teacher/vocabulary [post]
func (c *VocabularyController) Create(ctx *gin.Context) {
	var req service.VocabularyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	v, err := c.VocabularyService.Create(req)
	if err != nil {
		vocabularyError(ctx, err)
		return
	}
	util.Created(ctx, v)
}

// @Summary 更新词汇
// @Tags 词汇
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "词汇ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/vocabulary/{id} [put]
func (c *VocabularyController) Update(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的词汇ID")
		return
	}
	var req service.VocabularyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	v, err := c.VocabularyService.Update(uint(id), req)
	if err != nil {
		vocabularyError(ctx, err)
		return
	}
	util.Success(ctx, v)
}

// @Summary 删除词汇
// @Tags 词汇
// @Security BearerAuth
// @Param id path int true "词汇ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/vocabulary/{id} [delete]
func (c *VocabularyController) Delete(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的词汇ID")
		return
	}
	if err := c.VocabularyService.Delete(uint(id)); err != nil {
		vocabularyError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 词汇列表
// @Tags 词汇
// @Produce json
// @Security BearerAuth
// @Param categoryId query int false "分类ID"
// @Success 200 {object} util.PageResponse
// @Router /api/vocabulary [get]
func (c *VocabularyController) List(ctx *gin.Context) {
	page, limit := parsePage(ctx)
	categoryID, _ := strconv.Atoi(ctx.DefaultQuery("categoryId", "0"))

	list, total, err := c.VocabularyService.List(page, limit, uint(categoryID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessPage(ctx, list, total, page, limit)
}

// @Summary 标记词汇已掌握
// @Tags 词汇
// @Produce json
// @Security BearerAuth
// @Param id path int true "词汇ID"
// @Success 200 {object} util.Response
// @Router /api/vocabulary/{id}/learned [post]
func (c *VocabularyController) MarkLearned(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的词汇ID")
		return
	}

	if err := c.VocabularyService.MarkLearned(claims.UserID, uint(id)); err != nil {
		vocabularyError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 已掌握词汇数量
// @Tags 词汇
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/vocabulary/learned/count [get]
func (c *VocabularyController) CountLearned(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	count, err := c.VocabularyService.CountLearned(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}
