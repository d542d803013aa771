package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

// AnswerRecordRepository 作答历史只追加：每次提交都会插入新行，
// 旧的作答记录永远保留
type AnswerRecordRepository struct {
	DB *gorm.DB
}

func NewAnswerRecordRepository(db *gorm.DB) *AnswerRecordRepository {
	return &AnswerRecordRepository{DB: db}
}

// CreateBatch 在调用方给定的事务句柄上批量写入
func (r *AnswerRecordRepository) CreateBatch(db *gorm.DB, records []model.AnswerRecord) error {
	if len(records) == 0 {
		return nil
	}
	return db.Create(&records).Error
}

// FindByQuestionIDs 按插入顺序返回这些题目的全部作答记录
func (r *AnswerRecordRepository) FindByQuestionIDs(questionIDs []uint) ([]model.AnswerRecord, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var records []model.AnswerRecord
	err := r.DB.Where("question_id IN ?", questionIDs).
		Order("id ASC").
		Find(&records).Error
	return records, err
}

func (r *AnswerRecordRepository) CountCorrectByUserAndQuestions(userID uint, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.AnswerRecord{}).
		Where("user_id = ? AND question_id IN ? AND is_correct = ?", userID, questionIDs, true).
		Count(&count).Error
	return count, err
}
