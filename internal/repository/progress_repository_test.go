package repository

import (
	"fmt"
	"testing"
	"time"

	"lingua_edu_backend/internal/model"

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
		&model.Category{},
		&model.ListeningLesson{},
		&model.ReadingLesson{},
		&model.LessonProgress{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestUpsertKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)

	now := time.Now()
	first := &model.LessonProgress{
		UserID:           1,
		LessonID:         10,
		LessonKind:       model.LessonKindListening,
		IsCompleted:      true,
		Score:            4.0,
		TimeSpentSeconds: 300,
		CompletedAt:      &now,
	}
	if err := repo.Upsert(db, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	later := now.Add(time.Minute)
	second := &model.LessonProgress{
		UserID:           1,
		LessonID:         10,
		LessonKind:       model.LessonKindListening,
		IsCompleted:      true,
		Score:            9.5,
		TimeSpentSeconds: 120,
		CompletedAt:      &later,
	}
	if err := repo.Upsert(db, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var rows []model.LessonProgress
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected single row after resubmission, got %d", len(rows))
	}
	if rows[0].Score != 9.5 {
		t.Errorf("expected overwritten score 9.5, got %v", rows[0].Score)
	}
	if rows[0].TimeSpentSeconds != 120 {
		t.Errorf("expected overwritten time 120, got %d", rows[0].TimeSpentSeconds)
	}
}

func TestUpsertDistinguishesCatalogs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)

	// 同一个课程ID在两套目录下是不同的键
	for _, kind := range []model.LessonKind{model.LessonKindListening, model.LessonKindReading} {
		p := &model.LessonProgress{
			UserID:      1,
			LessonID:    10,
			LessonKind:  kind,
			IsCompleted: true,
			Score:       5,
		}
		if err := repo.Upsert(db, p); err != nil {
			t.Fatalf("upsert %s: %v", kind, err)
		}
	}

	var count int64
	db.Model(&model.LessonProgress{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 rows for distinct catalogs, got %d", count)
	}
}

func TestUserIDsWithActivityBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	inWindow := &model.LessonProgress{
		UserID: 1, LessonID: 1, LessonKind: model.LessonKindListening,
		IsCompleted: true, CompletedAt: &now,
	}
	if err := repo.Upsert(db, inWindow); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// 完成时间在窗口外的行不计
	outOfWindow := &model.LessonProgress{
		UserID: 2, LessonID: 2, LessonKind: model.LessonKindReading,
		IsCompleted: true, CompletedAt: &yesterday,
	}
	if err := repo.Upsert(db, outOfWindow); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// 窗口外行的 created_at 也要挪出去
	db.Model(&model.LessonProgress{}).Where("user_id = ?", 2).
		Update("created_at", yesterday)

	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	ids, err := repo.UserIDsWithActivityBetween(start, end)
	if err != nil {
		t.Fatalf("UserIDsWithActivityBetween: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("expected only user 1 active, got %v", ids)
	}
}

func TestAggregatesOnEmptyTable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)

	avg, err := repo.AverageScoreByUser(1)
	if err != nil {
		t.Fatalf("AverageScoreByUser: %v", err)
	}
	if avg != 0 {
		t.Errorf("expected 0 average on empty table, got %v", avg)
	}

	total, err := repo.TotalTimeByUser(1)
	if err != nil {
		t.Fatalf("TotalTimeByUser: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 total time on empty table, got %v", total)
	}
}
