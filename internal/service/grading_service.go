package service

import (
	"errors"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type GradingService struct {
	UserRepo     *repository.UserRepository
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRecordRepository
	ProgressRepo *repository.ProgressRepository
	DB           *gorm.DB
}

func NewGradingService(
	userRepo *repository.UserRepository,
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRecordRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *GradingService {
	return &GradingService{
		UserRepo:     userRepo,
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		ProgressRepo: progressRepo,
		DB:           db,
	}
}

type GradeResult struct {
	Score            float64 `json:"score"`
	CorrectCount     int     `json:"correctCount"`
	TotalQuestions   int     `json:"totalQuestions"`
	TimeSpentSeconds int     `json:"timeSpentSeconds"`
}

// SubmitLesson 对一次课程提交判分：
// 题集中有作答的题逐题比对并追加作答记录，未作答的题跳过（不算错也不记录），
// 随后覆盖写该 (userID, lessonID, kind) 的进度行。
// 作答记录和进度在同一个事务里落库，要么全部成功要么全部回滚。
func (s *GradingService) SubmitLesson(
	userID uint,
	lessonID uint,
	kind model.LessonKind,
	answers map[uint]string,
	timeSpentSeconds int,
) (*GradeResult, error) {
	if !kind.Valid() {
		return nil, util.ErrInvalidLessonKind
	}

	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearnerNotFound
		}
		return nil, err
	}

	ref := model.LessonRef{LessonID: lessonID, LessonKind: kind}
	if _, err := s.LessonRepo.GetLessonMeta(ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	questions, err := s.QuestionRepo.FindByLesson(ref)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var records []model.AnswerRecord
	correctCount := 0
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			correctCount++
		}
		records = append(records, model.AnswerRecord{
			UserID:         userID,
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
			AnsweredAt:     now,
		})
	}

	totalQuestions := len(questions)
	score := 0.0
	if totalQuestions > 0 {
		score = util.Round2(float64(correctCount) / float64(totalQuestions) * 10)
	}

	progress := &model.LessonProgress{
		UserID:           userID,
		LessonID:         lessonID,
		LessonKind:       kind,
		IsCompleted:      true,
		Score:            score,
		TimeSpentSeconds: timeSpentSeconds,
		CompletedAt:      &now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.AnswerRepo.CreateBatch(tx, records); err != nil {
			return err
		}
		return s.ProgressRepo.Upsert(tx, progress)
	})
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(kind)).Inc()

	return &GradeResult{
		Score:            score,
		CorrectCount:     correctCount,
		TotalQuestions:   totalQuestions,
		TimeSpentSeconds: timeSpentSeconds,
	}, nil
}

// GetUserProgress 返回学习者自己的全部进度行
func (s *GradingService) GetUserProgress(userID uint) ([]model.LessonProgress, error) {
	return s.ProgressRepo.FindByUser(userID)
}
