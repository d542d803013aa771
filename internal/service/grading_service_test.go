package service

import (
	"errors"
	"testing"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/util"
)

func TestSubmitLessonGrading(t *testing.T) {
	db := setupTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "alice")
	lesson := seedListeningLesson(t, db, "Ordering Coffee", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindListening}

	q1 := seedQuestion(t, db, ref, "q1", "A", 1)
	q2 := seedQuestion(t, db, ref, "q2", "B", 2)
	q3 := seedQuestion(t, db, ref, "q3", "C", 3)
	q4 := seedQuestion(t, db, ref, "q4", "D", 4)

	// 4题答对3题：3/4*10 = 7.50
	answers := map[uint]string{
		q1.ID: "A",
		q2.ID: "B",
		q3.ID: "C",
		q4.ID: "A",
	}
	result, err := svc.SubmitLesson(student.ID, lesson.ID, model.LessonKindListening, answers, 120)
	if err != nil {
		t.Fatalf("SubmitLesson: %v", err)
	}

	if result.Score != 7.5 {
		t.Errorf("expected score 7.5, got %v", result.Score)
	}
	if result.CorrectCount != 3 {
		t.Errorf("expected 3 correct, got %d", result.CorrectCount)
	}
	if result.TotalQuestions != 4 {
		t.Errorf("expected 4 total questions, got %d", result.TotalQuestions)
	}

	// 作答记录逐题落库
	var recordCount int64
	db.Model(&model.AnswerRecord{}).Where("user_id = ?", student.ID).Count(&recordCount)
	if recordCount != 4 {
		t.Errorf("expected 4 answer records, got %d", recordCount)
	}

	// 进度行完成且分数一致
	var progress model.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ? AND lesson_kind = ?",
		student.ID, lesson.ID, model.LessonKindListening).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if !progress.IsCompleted {
		t.Error("expected progress to be completed")
	}
	if progress.Score != 7.5 {
		t.Errorf("expected progress score 7.5, got %v", progress.Score)
	}
	if progress.CompletedAt == nil {
		t.Error("expected completedAt to be set")
	}
}

func TestSubmitLessonSkipsUnanswered(t *testing.T) {
	db := setupTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "bob")
	lesson := seedReadingLesson(t, db, "Short Story", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindReading}

	q1 := seedQuestion(t, db, ref, "q1", "A", 1)
	seedQuestion(t, db, ref, "q2", "B", 2)

	result, err := svc.SubmitLesson(student.ID, lesson.ID, model.LessonKindReading, map[uint]string{q1.ID: "A"}, 30)
	if err != nil {
		t.Fatalf("SubmitLesson: %v", err)
	}

	// 未作答的题不记录，但仍按全部题数计分：1/2*10 = 5.00
	if result.Score != 5.0 {
		t.Errorf("expected score 5.0, got %v", result.Score)
	}
	var recordCount int64
	db.Model(&model.AnswerRecord{}).Where("user_id = ?", student.ID).Count(&recordCount)
	if recordCount != 1 {
		t.Errorf("expected 1 answer record, got %d", recordCount)
	}
}

func TestSubmitLessonResubmissionOverwrites(t *testing.T) {
	db := setupTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "carol")
	lesson := seedListeningLesson(t, db, "At the Airport", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindListening}

	q1 := seedQuestion(t, db, ref, "q1", "A", 1)
	q2 := seedQuestion(t, db, ref, "q2", "B", 2)

	// 第一次：全错
	if _, err := svc.SubmitLesson(student.ID, lesson.ID, model.LessonKindListening,
		map[uint]string{q1.ID: "B", q2.ID: "A"}, 200); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// 第二次：全对，覆盖分数和用时
	result, err := svc.SubmitLesson(student.ID, lesson.ID, model.LessonKindListening,
		map[uint]string{q1.ID: "A", q2.ID: "B"}, 60)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if result.Score != 10.0 {
		t.Errorf("expected score 10.0, got %v", result.Score)
	}

	// 进度始终只有一行，且为最新一次提交的值
	var rows []model.LessonProgress
	db.Where("user_id = ?", student.ID).Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("expected single progress row, got %d", len(rows))
	}
	if rows[0].Score != 10.0 {
		t.Errorf("expected overwritten score 10.0, got %v", rows[0].Score)
	}
	if rows[0].TimeSpentSeconds != 60 {
		t.Errorf("expected overwritten time 60, got %d", rows[0].TimeSpentSeconds)
	}

	// 作答历史只追加：两次提交共4条
	var recordCount int64
	db.Model(&model.AnswerRecord{}).Where("user_id = ?", student.ID).Count(&recordCount)
	if recordCount != 4 {
		t.Errorf("expected 4 answer records across submissions, got %d", recordCount)
	}
}

func TestSubmitLessonZeroQuestions(t *testing.T) {
	db := setupTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "dave")
	lesson := seedReadingLesson(t, db, "Empty Lesson", true)

	result, err := svc.SubmitLesson(student.ID, lesson.ID, model.LessonKindReading, map[uint]string{}, 10)
	if err != nil {
		t.Fatalf("SubmitLesson: %v", err)
	}
	if result.Score != 0.0 {
		t.Errorf("expected score 0.0 for zero-question lesson, got %v", result.Score)
	}
	if result.TotalQuestions != 0 {
		t.Errorf("expected 0 total questions, got %d", result.TotalQuestions)
	}

	// 题集为空仍然生成完成的进度行
	var progress model.LessonProgress
	if err := db.Where("user_id = ?", student.ID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if !progress.IsCompleted {
		t.Error("expected progress to be completed")
	}
}

func TestSubmitLessonErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := newGradingService(db)

	student := seedStudent(t, db, "erin")
	lesson := seedListeningLesson(t, db, "Real Lesson", true)

	if _, err := svc.SubmitLesson(student.ID, lesson.ID, "video", nil, 0); !errors.Is(err, util.ErrInvalidLessonKind) {
		t.Errorf("expected ErrInvalidLessonKind, got %v", err)
	}

	if _, err := svc.SubmitLesson(student.ID, 9999, model.LessonKindListening, nil, 0); !errors.Is(err, util.ErrLessonNotFound) {
		t.Errorf("expected ErrLessonNotFound, got %v", err)
	}

	if _, err := svc.SubmitLesson(9999, lesson.ID, model.LessonKindListening, nil, 0); !errors.Is(err, util.ErrLearnerNotFound) {
		t.Errorf("expected ErrLearnerNotFound, got %v", err)
	}

	// 听力课程的ID不能用阅读目录提交
	if _, err := svc.SubmitLesson(student.ID, lesson.ID, model.LessonKindReading, nil, 0); !errors.Is(err, util.ErrLessonNotFound) {
		t.Errorf("expected ErrLessonNotFound for wrong catalog, got %v", err)
	}
}
