package service

import (
	"errors"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

type VocabularyService struct {
	VocabRepo *repository.VocabularyRepository
	UserRepo  *repository.UserRepository
}

func NewVocabularyService(vocabRepo *repository.VocabularyRepository, userRepo *repository.UserRepository) *VocabularyService {
	return &VocabularyService{VocabRepo: vocabRepo, UserRepo: userRepo}
}

type VocabularyRequest struct {
	Word          string `json:"word" binding:"required"`
	Meaning       string `json:"meaning" binding:"required"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
	Level         string `json:"level"`
	CategoryID    uint   `json:"categoryId"`
}

func (s *VocabularyService) Create(req VocabularyRequest) (*model.Vocabulary, error) {
	v := &model.Vocabulary{
		Word:          req.Word,
		Meaning:       req.Meaning,
		Pronunciation: req.Pronunciation,
		Example:       req.Example,
		Level:         req.Level,
		CategoryID:    req.CategoryID,
	}
	if err := s.VocabRepo.Create(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VocabularyService) Update(id uint, req VocabularyRequest) (*model.Vocabulary, error) {
	v, err := s.VocabRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVocabularyNotFound
		}
		return nil, err
	}

	v.Word = req.Word
	v.Meaning = req.Meaning
	v.Pronunciation = req.Pronunciation
	v.Example = req.Example
	v.Level = req.Level
	v.CategoryID = req.CategoryID
	if err := s.VocabRepo.Update(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VocabularyService) Delete(id uint) error {
	return s.VocabRepo.Delete(id)
}

func (s *VocabularyService) List(page, limit int, categoryID uint) ([]model.Vocabulary, int64, error) {
	return s.VocabRepo.List(page, limit, categoryID)
}

// MarkLearned 学生把一个词标记为已掌握；重复标记是幂等的
func (s *VocabularyService) MarkLearned(userID, vocabularyID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLearnerNotFound
		}
		return err
	}
	if _, err := s.VocabRepo.FindByID(vocabularyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrVocabularyNotFound
		}
		return err
	}
	return s.VocabRepo.MarkLearned(userID, vocabularyID)
}

func (s *VocabularyService) CountLearned(userID uint) (int64, error) {
	return s.VocabRepo.CountLearnedByUser(userID)
}
