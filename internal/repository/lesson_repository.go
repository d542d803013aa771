package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

// LessonRepository 统一两套课程目录（听力/阅读）的查询入口，
// 按 LessonRef 键解析，调用方不感知两张表的差异
type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) GetLessonMeta(ref model.LessonRef) (*model.LessonMeta, error) {
	switch ref.LessonKind {
	case model.LessonKindListening:
		var lesson model.ListeningLesson
		if err := r.DB.Preload("Category").First(&lesson, ref.LessonID).Error; err != nil {
			return nil, err
		}
		return &model.LessonMeta{
			LessonID:     lesson.ID,
			LessonKind:   model.LessonKindListening,
			Title:        lesson.Title,
			Level:        lesson.Level,
			CategoryName: lesson.Category.Name,
		}, nil
	case model.LessonKindReading:
		var lesson model.ReadingLesson
		if err := r.DB.Preload("Category").First(&lesson, ref.LessonID).Error; err != nil {
			return nil, err
		}
		return &model.LessonMeta{
			LessonID:     lesson.ID,
			LessonKind:   model.LessonKindReading,
			Title:        lesson.Title,
			Level:        lesson.Level,
			CategoryName: lesson.Category.Name,
		}, nil
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func (r *LessonRepository) ListPublished(kind model.LessonKind) ([]model.LessonRef, error) {
	var ids []uint
	var err error
	switch kind {
	case model.LessonKindListening:
		err = r.DB.Model(&model.ListeningLesson{}).
			Where("is_published = ?", true).Order("id ASC").Pluck("id", &ids).Error
	case model.LessonKindReading:
		err = r.DB.Model(&model.ReadingLesson{}).
			Where("is_published = ?", true).Order("id ASC").Pluck("id", &ids).Error
	default:
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	refs := make([]model.LessonRef, len(ids))
	for i, id := range ids {
		refs[i] = model.LessonRef{LessonID: id, LessonKind: kind}
	}
	return refs, nil
}

func (r *LessonRepository) CountPublished(kind model.LessonKind) (int64, error) {
	var count int64
	var err error
	switch kind {
	case model.LessonKindListening:
		err = r.DB.Model(&model.ListeningLesson{}).Where("is_published = ?", true).Count(&count).Error
	case model.LessonKindReading:
		err = r.DB.Model(&model.ReadingLesson{}).Where("is_published = ?", true).Count(&count).Error
	default:
		err = gorm.ErrRecordNotFound
	}
	return count, err
}

func (r *LessonRepository) ListPublishedListening() ([]model.ListeningLesson, error) {
	var lessons []model.ListeningLesson
	err := r.DB.Preload("Category").
		Where("is_published = ?", true).Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) ListPublishedReading() ([]model.ReadingLesson, error) {
	var lessons []model.ReadingLesson
	err := r.DB.Preload("Category").
		Where("is_published = ?", true).Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CreateListening(lesson *model.ListeningLesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) UpdateListening(lesson *model.ListeningLesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) DeleteListening(id uint) error {
	return r.DB.Delete(&model.ListeningLesson{}, id).Error
}

func (r *LessonRepository) FindListeningByID(id uint) (*model.ListeningLesson, error) {
	var lesson model.ListeningLesson
	err := r.DB.Preload("Category").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) ListListening(page, limit int) ([]model.ListeningLesson, int64, error) {
	var lessons []model.ListeningLesson
	var total int64
	query := r.DB.Model(&model.ListeningLesson{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Order("id DESC").Find(&lessons).Error
	return lessons, total, err
}

func (r *LessonRepository) CreateReading(lesson *model.ReadingLesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) UpdateReading(lesson *model.ReadingLesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) DeleteReading(id uint) error {
	return r.DB.Delete(&model.ReadingLesson{}, id).Error
}

func (r *LessonRepository) FindReadingByID(id uint) (*model.ReadingLesson, error) {
	var lesson model.ReadingLesson
	err := r.DB.Preload("Category").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) ListReading(page, limit int) ([]model.ReadingLesson, int64, error) {
	var lessons []model.ReadingLesson
	var total int64
	query := r.DB.Model(&model.ReadingLesson{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Order("id DESC").Find(&lessons).Error
	return lessons, total, err
}
