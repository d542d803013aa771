package repository

import (
	"time"

	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VocabularyRepository struct {
	DB *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{DB: db}
}

func (r *VocabularyRepository) Create(v *model.Vocabulary) error {
	return r.DB.Create(v).Error
}

func (r *VocabularyRepository) Update(v *model.Vocabulary) error {
	return r.DB.Save(v).Error
}

func (r *VocabularyRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Vocabulary{}, id).Error
}

func (r *VocabularyRepository) FindByID(id uint) (*model.Vocabulary, error) {
	var v model.Vocabulary
	err := r.DB.Preload("Category").First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VocabularyRepository) List(page, limit int, categoryID uint) ([]model.Vocabulary, int64, error) {
	var vocab []model.Vocabulary
	var total int64
	query := r.DB.Model(&model.Vocabulary{})
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Order("id ASC").Find(&vocab).Error
	return vocab, total, err
}

func (r *VocabularyRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Vocabulary{}).Count(&count).Error
	return count, err
}

// MarkLearned 重复标记同一个词不产生新行
func (r *VocabularyRepository) MarkLearned(userID, vocabularyID uint) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "vocabulary_id"}},
		DoNothing: true,
	}).Create(&model.VocabularyProgress{
		UserID:       userID,
		VocabularyID: vocabularyID,
		LearnedAt:    time.Now(),
	}).Error
}

func (r *VocabularyRepository) CountLearnedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VocabularyProgress{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
