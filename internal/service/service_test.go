package service

import (
	"fmt"
	"testing"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.ListeningLesson{},
		&model.ReadingLesson{},
		&model.Question{},
		&model.AnswerRecord{},
		&model.LessonProgress{},
		&model.Vocabulary{},
		&model.VocabularyProgress{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newGradingService(db *gorm.DB) *GradingService {
	return NewGradingService(
		repository.NewUserRepository(db),
		repository.NewLessonRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRecordRepository(db),
		repository.NewProgressRepository(db),
		db,
	)
}

func newAnalyticsService(db *gorm.DB) *AnalyticsService {
	return NewAnalyticsService(
		repository.NewUserRepository(db),
		repository.NewLessonRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRecordRepository(db),
		repository.NewProgressRepository(db),
		repository.NewVocabularyRepository(db),
		db,
	)
}

func seedStudent(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     model.Student,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return user
}

func seedListeningLesson(t *testing.T, db *gorm.DB, title string, published bool) *model.ListeningLesson {
	t.Helper()
	lesson := &model.ListeningLesson{
		Title:       title,
		Level:       "B1",
		IsPublished: published,
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("seed listening lesson: %v", err)
	}
	return lesson
}

func seedReadingLesson(t *testing.T, db *gorm.DB, title string, published bool) *model.ReadingLesson {
	t.Helper()
	lesson := &model.ReadingLesson{
		Title:       title,
		Level:       "B1",
		Content:     "some passage",
		IsPublished: published,
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("seed reading lesson: %v", err)
	}
	return lesson
}

func seedQuestion(t *testing.T, db *gorm.DB, ref model.LessonRef, content, correct string, order int) *model.Question {
	t.Helper()
	q := &model.Question{
		LessonID:      ref.LessonID,
		LessonKind:    ref.LessonKind,
		Content:       content,
		CorrectAnswer: correct,
		Points:        1,
		Order:         order,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return q
}
