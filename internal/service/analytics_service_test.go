package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

func seedProgress(t *testing.T, db *gorm.DB, userID uint, ref model.LessonRef, completed bool, score float64, timeSpent int) {
	t.Helper()
	var completedAt *time.Time
	if completed {
		now := time.Now()
		completedAt = &now
	}
	p := &model.LessonProgress{
		UserID:           userID,
		LessonID:         ref.LessonID,
		LessonKind:       ref.LessonKind,
		IsCompleted:      completed,
		Score:            score,
		TimeSpentSeconds: timeSpent,
		CompletedAt:      completedAt,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
}

func TestGetLessonAnalyticsCompletionRate(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	lesson := seedListeningLesson(t, db, "Weather Report", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindListening}

	// 5个学习者访问，2个完成 -> 完成率 40.00
	for i := 0; i < 5; i++ {
		student := seedStudent(t, db, fmt.Sprintf("student%d", i))
		seedProgress(t, db, student.ID, ref, i < 2, float64(i), 100)
	}

	report, err := svc.GetLessonAnalytics(ref)
	if err != nil {
		t.Fatalf("GetLessonAnalytics: %v", err)
	}

	if report.Views != 5 {
		t.Errorf("expected 5 views, got %d", report.Views)
	}
	if report.CompletedCount != 2 {
		t.Errorf("expected 2 completed, got %d", report.CompletedCount)
	}
	if report.CompletionRate != 40.0 {
		t.Errorf("expected completion rate 40.0, got %v", report.CompletionRate)
	}
	// 平均分按全部进度行算：(0+1+2+3+4)/5 = 2.00
	if report.AverageScore != 2.0 {
		t.Errorf("expected average score 2.0, got %v", report.AverageScore)
	}
	if report.AverageTimeSpentSeconds != 100.0 {
		t.Errorf("expected average time 100.0, got %v", report.AverageTimeSpentSeconds)
	}
}

func TestGetLessonAnalyticsUnknownLesson(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	_, err := svc.GetLessonAnalytics(model.LessonRef{LessonID: 42, LessonKind: model.LessonKindReading})
	if !errors.Is(err, util.ErrLessonNotFound) {
		t.Errorf("expected ErrLessonNotFound, got %v", err)
	}

	_, err = svc.GetLessonAnalytics(model.LessonRef{LessonID: 42, LessonKind: "video"})
	if !errors.Is(err, util.ErrInvalidLessonKind) {
		t.Errorf("expected ErrInvalidLessonKind, got %v", err)
	}
}

func TestQuestionAnalyticsMostCommonWrong(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	lesson := seedReadingLesson(t, db, "Fables", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindReading}
	q1 := seedQuestion(t, db, ref, "q1", "A", 1)
	_ = seedQuestion(t, db, ref, "q2", "B", 2)

	// q1: 2对3错，错误里 C 出现两次
	records := []model.AnswerRecord{
		{UserID: 1, QuestionID: q1.ID, SelectedOption: "A", IsCorrect: true},
		{UserID: 2, QuestionID: q1.ID, SelectedOption: "C", IsCorrect: false},
		{UserID: 3, QuestionID: q1.ID, SelectedOption: "B", IsCorrect: false},
		{UserID: 4, QuestionID: q1.ID, SelectedOption: "C", IsCorrect: false},
		{UserID: 5, QuestionID: q1.ID, SelectedOption: "A", IsCorrect: true},
	}
	for i := range records {
		records[i].AnsweredAt = time.Now()
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("seed answer record: %v", err)
		}
	}

	report, err := svc.GetLessonAnalytics(ref)
	if err != nil {
		t.Fatalf("GetLessonAnalytics: %v", err)
	}
	if len(report.Questions) != 2 {
		t.Fatalf("expected 2 question stats, got %d", len(report.Questions))
	}

	stat1 := report.Questions[0]
	if stat1.QuestionID != q1.ID {
		t.Fatalf("expected question stats ordered by question order")
	}
	if stat1.TotalAnswers != 5 || stat1.CorrectAnswers != 2 {
		t.Errorf("expected 5 answers / 2 correct, got %d / %d", stat1.TotalAnswers, stat1.CorrectAnswers)
	}
	if stat1.AccuracyRate != 40.0 {
		t.Errorf("expected accuracy 40.0, got %v", stat1.AccuracyRate)
	}
	if stat1.MostCommonWrongAnswer != "C" {
		t.Errorf("expected most common wrong answer C, got %q", stat1.MostCommonWrongAnswer)
	}

	// q2 无作答记录
	stat2 := report.Questions[1]
	if stat2.TotalAnswers != 0 {
		t.Errorf("expected 0 answers, got %d", stat2.TotalAnswers)
	}
	if stat2.AccuracyRate != 0.0 {
		t.Errorf("expected accuracy 0.0, got %v", stat2.AccuracyRate)
	}
	if stat2.MostCommonWrongAnswer != "N/A" {
		t.Errorf("expected N/A wrong answer, got %q", stat2.MostCommonWrongAnswer)
	}
}

func TestQuestionAnalyticsWrongAnswerTieBreak(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	lesson := seedReadingLesson(t, db, "Tie Break", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindReading}
	q := seedQuestion(t, db, ref, "q", "A", 1)

	// B 和 C 各错一次，取先出现的 B
	for _, sel := range []string{"B", "C"} {
		rec := model.AnswerRecord{UserID: 1, QuestionID: q.ID, SelectedOption: sel, AnsweredAt: time.Now()}
		if err := db.Create(&rec).Error; err != nil {
			t.Fatalf("seed answer record: %v", err)
		}
	}

	report, err := svc.GetLessonAnalytics(ref)
	if err != nil {
		t.Fatalf("GetLessonAnalytics: %v", err)
	}
	if got := report.Questions[0].MostCommonWrongAnswer; got != "B" {
		t.Errorf("expected tie broken by first occurrence (B), got %q", got)
	}
}

func TestGetWeeklyActivitySeries(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	series, err := svc.GetWeeklyActivity()
	if err != nil {
		t.Fatalf("GetWeeklyActivity: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("expected 7 daily entries, got %d", len(series))
	}

	// 最旧的在前，最后一项是今天
	for i := 1; i < len(series); i++ {
		if series[i-1].Date >= series[i].Date {
			t.Errorf("expected ascending dates, got %s before %s", series[i-1].Date, series[i].Date)
		}
	}
	if today := time.Now().Format(util.DateFormat); series[6].Date != today {
		t.Errorf("expected last entry %s, got %s", today, series[6].Date)
	}
}

func TestGetSystemSummaryCountsTodayActivity(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	student := seedStudent(t, db, "frank")
	lesson := seedListeningLesson(t, db, "Published", true)
	seedListeningLesson(t, db, "Draft", false)
	seedReadingLesson(t, db, "Reading", true)
	ref := model.LessonRef{LessonID: lesson.ID, LessonKind: model.LessonKindListening}
	seedProgress(t, db, student.ID, ref, true, 8.0, 90)

	summary, err := svc.GetSystemSummary()
	if err != nil {
		t.Fatalf("GetSystemSummary: %v", err)
	}

	if summary.ActiveStudents != 1 {
		t.Errorf("expected 1 active student, got %d", summary.ActiveStudents)
	}
	if summary.PublishedListeningLessons != 1 {
		t.Errorf("expected 1 published listening lesson, got %d", summary.PublishedListeningLessons)
	}
	if summary.PublishedReadingLessons != 1 {
		t.Errorf("expected 1 published reading lesson, got %d", summary.PublishedReadingLessons)
	}
	if summary.ActiveStudentsToday != 1 {
		t.Errorf("expected 1 active student today, got %d", summary.ActiveStudentsToday)
	}
	if summary.LessonsCompletedToday != 1 {
		t.Errorf("expected 1 lesson completed today, got %d", summary.LessonsCompletedToday)
	}
	if len(summary.WeeklyActivity) != 7 {
		t.Errorf("expected embedded weekly activity, got %d entries", len(summary.WeeklyActivity))
	}
}

func TestGetStudentReport(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	student := seedStudent(t, db, "grace")
	listening := seedListeningLesson(t, db, "L1", true)
	reading := seedReadingLesson(t, db, "R1", true)
	lref := model.LessonRef{LessonID: listening.ID, LessonKind: model.LessonKindListening}
	rref := model.LessonRef{LessonID: reading.ID, LessonKind: model.LessonKindReading}

	seedProgress(t, db, student.ID, lref, true, 8.0, 120)
	seedProgress(t, db, student.ID, rref, true, 6.0, 60)

	report, err := svc.GetStudentReport(student.ID)
	if err != nil {
		t.Fatalf("GetStudentReport: %v", err)
	}

	if report.CompletedLessons != 2 {
		t.Errorf("expected 2 completed lessons, got %d", report.CompletedLessons)
	}
	if report.CompletedListening != 1 || report.CompletedReading != 1 {
		t.Errorf("expected 1 listening + 1 reading, got %d / %d",
			report.CompletedListening, report.CompletedReading)
	}
	if report.AverageScore != 7.0 {
		t.Errorf("expected average score 7.0, got %v", report.AverageScore)
	}
	if report.TotalTimeStudiedSeconds != 180 {
		t.Errorf("expected 180 seconds studied, got %d", report.TotalTimeStudiedSeconds)
	}
	if len(report.Lessons) != 2 {
		t.Errorf("expected 2 lesson details, got %d", len(report.Lessons))
	}
}

func TestGetStudentReportEmptyProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	student := seedStudent(t, db, "henry")

	report, err := svc.GetStudentReport(student.ID)
	if err != nil {
		t.Fatalf("GetStudentReport: %v", err)
	}

	if report.CompletedLessons != 0 {
		t.Errorf("expected 0 completed lessons, got %d", report.CompletedLessons)
	}
	if report.AverageScore != 0.0 {
		t.Errorf("expected average score 0.0, got %v", report.AverageScore)
	}
	// 没有任何进度时最近活动回退到注册时间
	if !report.LastActivity.Equal(student.CreatedAt) {
		t.Errorf("expected last activity %v, got %v", student.CreatedAt, report.LastActivity)
	}
	if len(report.Lessons) != 0 {
		t.Errorf("expected no lesson details, got %d", len(report.Lessons))
	}
}

func TestGetStudentReportRejectsNonStudents(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	teacher := &model.User{
		Name: "teach", Email: "teach@example.com", Password: "hashed",
		Role: model.Teacher, IsActive: true,
	}
	if err := db.Create(teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	if _, err := svc.GetStudentReport(teacher.ID); !errors.Is(err, util.ErrNotAStudent) {
		t.Errorf("expected ErrNotAStudent, got %v", err)
	}
	if _, err := svc.GetStudentReport(9999); !errors.Is(err, util.ErrLearnerNotFound) {
		t.Errorf("expected ErrLearnerNotFound, got %v", err)
	}
}

func TestGetAllLessonsAnalyticsSorted(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnalyticsService(db)

	low := seedListeningLesson(t, db, "Low Completion", true)
	high := seedReadingLesson(t, db, "High Completion", true)
	lowRef := model.LessonRef{LessonID: low.ID, LessonKind: model.LessonKindListening}
	highRef := model.LessonRef{LessonID: high.ID, LessonKind: model.LessonKindReading}

	s1 := seedStudent(t, db, "ivan")
	s2 := seedStudent(t, db, "judy")
	seedProgress(t, db, s1.ID, lowRef, false, 0, 10)
	seedProgress(t, db, s2.ID, lowRef, true, 10, 30)
	seedProgress(t, db, s1.ID, highRef, true, 9, 40)

	reports, err := svc.GetAllLessonsAnalytics()
	if err != nil {
		t.Fatalf("GetAllLessonsAnalytics: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 lesson reports, got %d", len(reports))
	}
	if reports[0].Title != "High Completion" {
		t.Errorf("expected completion-rate descending order, got %q first", reports[0].Title)
	}
}
