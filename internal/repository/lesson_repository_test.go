package repository

import (
	"errors"
	"testing"

	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

func TestGetLessonMetaResolvesCatalog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLessonRepository(db)

	category := &model.Category{Name: "Travel"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	listening := &model.ListeningLesson{Title: "At the Station", Level: "A2", CategoryID: category.ID, IsPublished: true}
	if err := db.Create(listening).Error; err != nil {
		t.Fatalf("seed listening: %v", err)
	}
	reading := &model.ReadingLesson{Title: "City Guide", Level: "B2", Content: "text", IsPublished: true}
	if err := db.Create(reading).Error; err != nil {
		t.Fatalf("seed reading: %v", err)
	}

	meta, err := repo.GetLessonMeta(model.LessonRef{LessonID: listening.ID, LessonKind: model.LessonKindListening})
	if err != nil {
		t.Fatalf("GetLessonMeta listening: %v", err)
	}
	if meta.Title != "At the Station" || meta.CategoryName != "Travel" {
		t.Errorf("unexpected listening meta: %+v", meta)
	}

	meta, err = repo.GetLessonMeta(model.LessonRef{LessonID: reading.ID, LessonKind: model.LessonKindReading})
	if err != nil {
		t.Fatalf("GetLessonMeta reading: %v", err)
	}
	if meta.Title != "City Guide" || meta.LessonKind != model.LessonKindReading {
		t.Errorf("unexpected reading meta: %+v", meta)
	}

	// 未知目录按不存在处理
	if _, err := repo.GetLessonMeta(model.LessonRef{LessonID: listening.ID, LessonKind: "video"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for unknown kind, got %v", err)
	}
}

func TestListPublishedRefs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLessonRepository(db)

	published := &model.ListeningLesson{Title: "Pub", IsPublished: true}
	draft := &model.ListeningLesson{Title: "Draft", IsPublished: false}
	if err := db.Create(published).Error; err != nil {
		t.Fatalf("seed published: %v", err)
	}
	if err := db.Create(draft).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	refs, err := repo.ListPublished(model.LessonKindListening)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 published ref, got %d", len(refs))
	}
	if refs[0].LessonID != published.ID || refs[0].LessonKind != model.LessonKindListening {
		t.Errorf("unexpected ref: %+v", refs[0])
	}

	count, err := repo.CountPublished(model.LessonKindListening)
	if err != nil {
		t.Fatalf("CountPublished: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}
