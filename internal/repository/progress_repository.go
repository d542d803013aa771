package repository

import (
	"time"

	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 依赖 (user_id, lesson_id, lesson_kind) 唯一索引，
// 单条语句完成 insert-or-update，并发提交同一键时不会产生两行
func (r *ProgressRepository) Upsert(db *gorm.DB, p *model.LessonProgress) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "lesson_id"},
			{Name: "lesson_kind"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_completed", "score", "time_spent_seconds", "completed_at", "updated_at",
		}),
	}).Create(p).Error
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) FindByUserAndLesson(userID uint, ref model.LessonRef) (*model.LessonProgress, error) {
	var row model.LessonProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ? AND lesson_kind = ?",
		userID, ref.LessonID, ref.LessonKind).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByLesson 返回一门课程下所有学习者的进度行，课程分析使用
func (r *ProgressRepository) FindByLesson(ref model.LessonRef) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.DB.Where("lesson_id = ? AND lesson_kind = ?", ref.LessonID, ref.LessonKind).
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CountCompletedByUserAndKind(userID uint, kind model.LessonKind) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_kind = ? AND is_completed = ?", userID, kind, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) AverageScoreByUser(userID uint) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *ProgressRepository) TotalTimeByUser(userID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(time_spent_seconds), 0)").
		Scan(&total).Error
	return total, err
}

// UserIDsWithActivityBetween 返回半开区间 [start, end) 内
// 创建过或完成过进度的学习者ID（去重）
func (r *ProgressRepository) UserIDsWithActivityBetween(start, end time.Time) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.LessonProgress{}).
		Where("(created_at >= ? AND created_at < ?) OR (completed_at >= ? AND completed_at < ?)",
			start, end, start, end).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) CountCompletedBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("is_completed = ? AND completed_at >= ? AND completed_at < ?", true, start, end).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) AverageScoreCompletedBetween(start, end time.Time) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("completed_at >= ? AND completed_at < ?", start, end).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}
