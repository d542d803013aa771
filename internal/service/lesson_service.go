package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	publishedLessonsKeyPrefix = "lessons:published:"
	publishedLessonsCacheTTL  = 10 * time.Minute
)

// LessonService 两套课程目录和题库的维护入口。
// 已发布课程列表走 Redis 缓存，所有写操作使缓存失效；
// 分析报表不经过这里，永远直查数据库
type LessonService struct {
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	CategoryRepo *repository.CategoryRepository
	Storage      *StorageService
	Redis        *redis.Client
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	categoryRepo *repository.CategoryRepository,
	storage *StorageService,
	rdb *redis.Client,
) *LessonService {
	return &LessonService{
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		CategoryRepo: categoryRepo,
		Storage:      storage,
		Redis:        rdb,
	}
}

func (s *LessonService) invalidatePublishedCache(kind model.LessonKind) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), publishedLessonsKeyPrefix+string(kind)).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate lesson cache", zap.Error(err))
	}
}

type LessonRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Level       string `json:"level"`
	CategoryID  uint   `json:"categoryId"`
	Transcript  string `json:"transcript"`
	Content     string `json:"content"`
	IsPublished bool   `json:"isPublished"`
}

func (s *LessonService) CreateListening(req LessonRequest) (*model.ListeningLesson, error) {
	lesson := &model.ListeningLesson{
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		CategoryID:  req.CategoryID,
		Transcript:  req.Transcript,
		IsPublished: req.IsPublished,
	}
	if err := s.LessonRepo.CreateListening(lesson); err != nil {
		return nil, err
	}
	s.invalidatePublishedCache(model.LessonKindListening)
	return lesson, nil
}

func (s *LessonService) UpdateListening(id uint, req LessonRequest) (*model.ListeningLesson, error) {
	lesson, err := s.LessonRepo.FindListeningByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.Level = req.Level
	lesson.CategoryID = req.CategoryID
	lesson.Transcript = req.Transcript
	lesson.IsPublished = req.IsPublished
	if err := s.LessonRepo.UpdateListening(lesson); err != nil {
		return nil, err
	}
	s.invalidatePublishedCache(model.LessonKindListening)
	return lesson, nil
}

func (s *LessonService) DeleteListening(id uint) error {
	if err := s.LessonRepo.DeleteListening(id); err != nil {
		return err
	}
	s.invalidatePublishedCache(model.LessonKindListening)
	return nil
}

func (s *LessonService) CreateReading(req LessonRequest) (*model.ReadingLesson, error) {
	lesson := &model.ReadingLesson{
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		CategoryID:  req.CategoryID,
		Content:     req.Content,
		IsPublished: req.IsPublished,
	}
	if err := s.LessonRepo.CreateReading(lesson); err != nil {
		return nil, err
	}
	s.invalidatePublishedCache(model.LessonKindReading)
	return lesson, nil
}

func (s *LessonService) UpdateReading(id uint, req LessonRequest) (*model.ReadingLesson, error) {
	lesson, err := s.LessonRepo.FindReadingByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.Level = req.Level
	lesson.CategoryID = req.CategoryID
	lesson.Content = req.Content
	lesson.IsPublished = req.IsPublished
	if err := s.LessonRepo.UpdateReading(lesson); err != nil {
		return nil, err
	}
	s.invalidatePublishedCache(model.LessonKindReading)
	return lesson, nil
}

func (s *LessonService) DeleteReading(id uint) error {
	if err := s.LessonRepo.DeleteReading(id); err != nil {
		return err
	}
	s.invalidatePublishedCache(model.LessonKindReading)
	return nil
}

func (s *LessonService) GetListening(id uint) (*model.ListeningLesson, error) {
	lesson, err := s.LessonRepo.FindListeningByID(id)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return lesson, err
}

func (s *LessonService) GetReading(id uint) (*model.ReadingLesson, error) {
	lesson, err := s.LessonRepo.FindReadingByID(id)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return lesson, err
}

func (s *LessonService) ListListening(page, limit int) ([]model.ListeningLesson, int64, error) {
	return s.LessonRepo.ListListening(page, limit)
}

func (s *LessonService) ListReading(page, limit int) ([]model.ReadingLesson, int64, error) {
	return s.LessonRepo.ListReading(page, limit)
}

// GetPublishedListening 学生端列表，优先读缓存
func (s *LessonService) GetPublishedListening(ctx context.Context) ([]model.ListeningLesson, error) {
	key := publishedLessonsKeyPrefix + string(model.LessonKindListening)
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached []model.ListeningLesson
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	lessons, err := s.LessonRepo.ListPublishedListening()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(lessons); err == nil {
			s.Redis.Set(ctx, key, data, publishedLessonsCacheTTL)
		}
	}
	return lessons, nil
}

func (s *LessonService) GetPublishedReading(ctx context.Context) ([]model.ReadingLesson, error) {
	key := publishedLessonsKeyPrefix + string(model.LessonKindReading)
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached []model.ReadingLesson
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	lessons, err := s.LessonRepo.ListPublishedReading()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(lessons); err == nil {
			s.Redis.Set(ctx, key, data, publishedLessonsCacheTTL)
		}
	}
	return lessons, nil
}

// UploadListeningAudio 上传听力音频：先落临时文件探测时长，再交给存储后端
func (s *LessonService) UploadListeningAudio(ctx context.Context, lessonID uint, fileHeader *multipart.FileHeader) (*model.ListeningLesson, error) {
	lesson, err := s.LessonRepo.FindListeningByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	ext := filepath.Ext(fileHeader.Filename)
	allowed := false
	for _, e := range util.AllowedAudioExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "lesson-audio-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	info, err := util.GetAudioInfo(tmp.Name())
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("audio/%d/%s%s", lessonID, uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	url, err := s.Storage.UploadFile(ctx, objectName, tmp.Name(), contentType)
	if err != nil {
		return nil, err
	}

	lesson.AudioURL = url
	lesson.AudioDurationSeconds = int(info.Duration)
	if err := s.LessonRepo.UpdateListening(lesson); err != nil {
		return nil, err
	}
	s.invalidatePublishedCache(model.LessonKindListening)
	return lesson, nil
}

type QuestionRequest struct {
	LessonID      uint             `json:"lessonId" binding:"required"`
	LessonKind    model.LessonKind `json:"lessonKind" binding:"required"`
	Content       string           `json:"content" binding:"required"`
	Options       json.RawMessage  `json:"options"`
	CorrectAnswer string           `json:"correctAnswer" binding:"required"`
	Points        int              `json:"points"`
	Order         int              `json:"order"`
	Explanation   string           `json:"explanation"`
}

func (s *LessonService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	if !req.LessonKind.Valid() {
		return nil, util.ErrInvalidLessonKind
	}
	ref := model.LessonRef{LessonID: req.LessonID, LessonKind: req.LessonKind}
	if _, err := s.LessonRepo.GetLessonMeta(ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	q := &model.Question{
		LessonID:      req.LessonID,
		LessonKind:    req.LessonKind,
		Content:       req.Content,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		Order:         req.Order,
		Explanation:   req.Explanation,
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *LessonService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	q.Content = req.Content
	q.Options = req.Options
	q.CorrectAnswer = req.CorrectAnswer
	q.Points = req.Points
	q.Order = req.Order
	q.Explanation = req.Explanation
	if err := s.QuestionRepo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *LessonService) DeleteQuestion(id uint) error {
	return s.QuestionRepo.Delete(id)
}

// StudentQuestion 学生端题目视图，不携带正确答案
type StudentQuestion struct {
	ID      uint            `json:"id"`
	Content string          `json:"content"`
	Options json.RawMessage `json:"options"`
	Points  int             `json:"points"`
	Order   int             `json:"order"`
}

func (s *LessonService) GetQuestions(ref model.LessonRef, includeAnswers bool) (interface{}, error) {
	if !ref.LessonKind.Valid() {
		return nil, util.ErrInvalidLessonKind
	}
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
	if includeAnswers {
		return questions, nil
	}

	stripped := make([]StudentQuestion, len(questions))
	for i, q := range questions {
		stripped[i] = StudentQuestion{
			ID:      q.ID,
			Content: q.Content,
			Options: q.Options,
			Points:  q.Points,
			Order:   q.Order,
		}
	}
	return stripped, nil
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *LessonService) CreateCategory(req CategoryRequest) (*model.Category, error) {
	c := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.CategoryRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *LessonService) ListCategories() ([]model.Category, error) {
	return s.CategoryRepo.List()
}
