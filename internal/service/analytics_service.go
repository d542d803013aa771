package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

// AnalyticsService 无状态聚合引擎：每个报表都按当前库内数据即时计算，
// 不做缓存也不做增量维护
type AnalyticsService struct {
	UserRepo     *repository.UserRepository
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRecordRepository
	ProgressRepo *repository.ProgressRepository
	VocabRepo    *repository.VocabularyRepository
	DB           *gorm.DB
}

func NewAnalyticsService(
	userRepo *repository.UserRepository,
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRecordRepository,
	progressRepo *repository.ProgressRepository,
	vocabRepo *repository.VocabularyRepository,
	db *gorm.DB,
) *AnalyticsService {
	return &AnalyticsService{
		UserRepo:     userRepo,
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		ProgressRepo: progressRepo,
		VocabRepo:    vocabRepo,
		DB:           db,
	}
}

type DailyActivity struct {
	Date             string  `json:"date"`
	ActiveStudents   int     `json:"activeStudents"`
	LessonsCompleted int64   `json:"lessonsCompleted"`
	NewRegistrations int64   `json:"newRegistrations"`
	AverageScore     float64 `json:"averageScore"`
}

type SystemSummary struct {
	ActiveStudents            int64           `json:"activeStudents"`
	ActiveTeachers            int64           `json:"activeTeachers"`
	PublishedListeningLessons int64           `json:"publishedListeningLessons"`
	PublishedReadingLessons   int64           `json:"publishedReadingLessons"`
	TotalQuestions            int64           `json:"totalQuestions"`
	TotalVocabulary           int64           `json:"totalVocabulary"`
	ActiveStudentsToday       int             `json:"activeStudentsToday"`
	NewRegistrationsToday     int64           `json:"newRegistrationsToday"`
	LessonsCompletedToday     int64           `json:"lessonsCompletedToday"`
	WeeklyActivity            []DailyActivity `json:"weeklyActivity"`
}

type QuestionAnalytics struct {
	QuestionID            uint    `json:"questionId"`
	Content               string  `json:"content"`
	TotalAnswers          int     `json:"totalAnswers"`
	CorrectAnswers        int     `json:"correctAnswers"`
	AccuracyRate          float64 `json:"accuracyRate"`
	CorrectAnswer         string  `json:"correctAnswer"`
	MostCommonWrongAnswer string  `json:"mostCommonWrongAnswer"`
}

type LessonAnalytics struct {
	LessonID                uint                `json:"lessonId"`
	LessonKind              model.LessonKind    `json:"lessonKind"`
	Title                   string              `json:"title"`
	Level                   string              `json:"level"`
	CategoryName            string              `json:"categoryName"`
	Views                   int                 `json:"views"`
	CompletedCount          int                 `json:"completedCount"`
	CompletionRate          float64             `json:"completionRate"`
	AverageScore            float64             `json:"averageScore"`
	AverageTimeSpentSeconds float64             `json:"averageTimeSpentSeconds"`
	TotalQuestions          int                 `json:"totalQuestions"`
	Questions               []QuestionAnalytics `json:"questions"`
}

type StudentLessonDetail struct {
	LessonID         uint             `json:"lessonId"`
	LessonKind       model.LessonKind `json:"lessonKind"`
	Title            string           `json:"title"`
	Level            string           `json:"level"`
	CategoryName     string           `json:"categoryName"`
	IsCompleted      bool             `json:"isCompleted"`
	Score            float64          `json:"score"`
	TimeSpentSeconds int              `json:"timeSpentSeconds"`
	CorrectAnswers   int64            `json:"correctAnswers"`
	TotalQuestions   int              `json:"totalQuestions"`
	CompletedAt      *time.Time       `json:"completedAt"`
}

type StudentReport struct {
	UserID                  uint                  `json:"userId"`
	Name                    string                `json:"name"`
	Email                   string                `json:"email"`
	CompletedLessons        int64                 `json:"completedLessons"`
	CompletedListening      int64                 `json:"completedListening"`
	CompletedReading        int64                 `json:"completedReading"`
	AverageScore            float64               `json:"averageScore"`
	TotalTimeStudiedSeconds int64                 `json:"totalTimeStudiedSeconds"`
	VocabularyLearned       int64                 `json:"vocabularyLearned"`
	LastActivity            time.Time             `json:"lastActivity"`
	Lessons                 []StudentLessonDetail `json:"lessons"`
}

func collaboratorErr(err error) error {
	return fmt.Errorf("%w: %v", util.ErrCollaboratorUnavailable, err)
}

// GetSystemSummary 系统总览：师生数量、两套目录的已发布课程数、
// 题目/词汇总量、当天三项指标，以及内嵌的近7天活跃序列
func (s *AnalyticsService) GetSystemSummary() (*SystemSummary, error) {
	activeStudents, err := s.UserRepo.CountActiveByRole(model.Student)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	activeTeachers, err := s.UserRepo.CountActiveByRole(model.Teacher)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	listeningCount, err := s.LessonRepo.CountPublished(model.LessonKindListening)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	readingCount, err := s.LessonRepo.CountPublished(model.LessonKindReading)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	totalQuestions, err := s.QuestionRepo.CountAll()
	if err != nil {
		return nil, collaboratorErr(err)
	}
	totalVocabulary, err := s.VocabRepo.CountAll()
	if err != nil {
		return nil, collaboratorErr(err)
	}

	todayStart, todayEnd := dayBounds(time.Now())
	activeToday, err := s.ProgressRepo.UserIDsWithActivityBetween(todayStart, todayEnd)
	if err != nil {
		return nil, err
	}
	newToday, err := s.UserRepo.CountRegisteredBetween(todayStart, todayEnd)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	completedToday, err := s.ProgressRepo.CountCompletedBetween(todayStart, todayEnd)
	if err != nil {
		return nil, err
	}

	weekly, err := s.GetWeeklyActivity()
	if err != nil {
		return nil, err
	}

	return &SystemSummary{
		ActiveStudents:            activeStudents,
		ActiveTeachers:            activeTeachers,
		PublishedListeningLessons: listeningCount,
		PublishedReadingLessons:   readingCount,
		TotalQuestions:            totalQuestions,
		TotalVocabulary:           totalVocabulary,
		ActiveStudentsToday:       len(activeToday),
		NewRegistrationsToday:     newToday,
		LessonsCompletedToday:     completedToday,
		WeeklyActivity:            weekly,
	}, nil
}

// GetWeeklyActivity 近7个自然日（含今天）的活跃序列，最旧的在前
func (s *AnalyticsService) GetWeeklyActivity() ([]DailyActivity, error) {
	now := time.Now()
	result := make([]DailyActivity, 0, 7)

	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		start, end := dayBounds(day)

		activeIDs, err := s.ProgressRepo.UserIDsWithActivityBetween(start, end)
		if err != nil {
			return nil, err
		}
		completed, err := s.ProgressRepo.CountCompletedBetween(start, end)
		if err != nil {
			return nil, err
		}
		registered, err := s.UserRepo.CountRegisteredBetween(start, end)
		if err != nil {
			return nil, collaboratorErr(err)
		}
		avgScore, err := s.ProgressRepo.AverageScoreCompletedBetween(start, end)
		if err != nil {
			return nil, err
		}

		result = append(result, DailyActivity{
			Date:             day.Format(util.DateFormat),
			ActiveStudents:   len(activeIDs),
			LessonsCompleted: completed,
			NewRegistrations: registered,
			AverageScore:     util.Round2(avgScore),
		})
	}

	return result, nil
}

// GetLessonAnalytics 单课程分析：浏览数=进度行数，完成率/平均分/平均用时，
// 以及逐题的作答统计
func (s *AnalyticsService) GetLessonAnalytics(ref model.LessonRef) (*LessonAnalytics, error) {
	if !ref.LessonKind.Valid() {
		return nil, util.ErrInvalidLessonKind
	}

	meta, err := s.LessonRepo.GetLessonMeta(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, collaboratorErr(err)
	}

	rows, err := s.ProgressRepo.FindByLesson(ref)
	if err != nil {
		return nil, err
	}

	views := len(rows)
	completedCount := 0
	var scoreSum, timeSum float64
	for _, row := range rows {
		if row.IsCompleted {
			completedCount++
		}
		scoreSum += row.Score
		timeSum += float64(row.TimeSpentSeconds)
	}

	completionRate := 0.0
	avgScore := 0.0
	avgTime := 0.0
	if views > 0 {
		completionRate = util.Round2(float64(completedCount) / float64(views) * 100)
		avgScore = util.Round2(scoreSum / float64(views))
		avgTime = util.Round2(timeSum / float64(views))
	}

	questions, err := s.QuestionRepo.FindByLesson(ref)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	questionStats, err := s.buildQuestionAnalytics(questions)
	if err != nil {
		return nil, err
	}

	return &LessonAnalytics{
		LessonID:                meta.LessonID,
		LessonKind:              meta.LessonKind,
		Title:                   meta.Title,
		Level:                   meta.Level,
		CategoryName:            meta.CategoryName,
		Views:                   views,
		CompletedCount:          completedCount,
		CompletionRate:          completionRate,
		AverageScore:            avgScore,
		AverageTimeSpentSeconds: avgTime,
		TotalQuestions:          len(questions),
		Questions:               questionStats,
	}, nil
}

// buildQuestionAnalytics 逐题统计作答量、正确率和最高频错误选项。
// 错误选项并列时取作答记录中先出现的那个
func (s *AnalyticsService) buildQuestionAnalytics(questions []model.Question) ([]QuestionAnalytics, error) {
	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	records, err := s.AnswerRepo.FindByQuestionIDs(questionIDs)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uint][]model.AnswerRecord, len(questions))
	for _, rec := range records {
		byQuestion[rec.QuestionID] = append(byQuestion[rec.QuestionID], rec)
	}

	stats := make([]QuestionAnalytics, 0, len(questions))
	for _, q := range questions {
		recs := byQuestion[q.ID]
		correct := 0
		wrongCounts := make(map[string]int)
		for _, rec := range recs {
			if rec.IsCorrect {
				correct++
			} else {
				wrongCounts[rec.SelectedOption]++
			}
		}

		accuracy := 0.0
		if len(recs) > 0 {
			accuracy = util.Round2(float64(correct) / float64(len(recs)) * 100)
		}

		mostCommonWrong := "N/A"
		bestCount := 0
		for _, rec := range recs {
			if rec.IsCorrect {
				continue
			}
			if wrongCounts[rec.SelectedOption] > bestCount {
				bestCount = wrongCounts[rec.SelectedOption]
				mostCommonWrong = rec.SelectedOption
			}
		}

		stats = append(stats, QuestionAnalytics{
			QuestionID:            q.ID,
			Content:               q.Content,
			TotalAnswers:          len(recs),
			CorrectAnswers:        correct,
			AccuracyRate:          accuracy,
			CorrectAnswer:         q.CorrectAnswer,
			MostCommonWrongAnswer: mostCommonWrong,
		})
	}

	return stats, nil
}

// GetAllLessonsAnalytics 两套目录全部已发布课程的分析，按完成率降序。
// 任何一门课程的元数据查询失败都会中止整份报表，避免排名失真
func (s *AnalyticsService) GetAllLessonsAnalytics() ([]LessonAnalytics, error) {
	var all []LessonAnalytics

	for _, kind := range []model.LessonKind{model.LessonKindListening, model.LessonKindReading} {
		refs, err := s.LessonRepo.ListPublished(kind)
		if err != nil {
			return nil, collaboratorErr(err)
		}
		for _, ref := range refs {
			analytics, err := s.GetLessonAnalytics(ref)
			if err != nil {
				return nil, err
			}
			all = append(all, *analytics)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CompletionRate > all[j].CompletionRate
	})

	return all, nil
}

// GetStudentReport 单个学生的学习报告；目标用户必须是学生角色
func (s *AnalyticsService) GetStudentReport(userID uint) (*StudentReport, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearnerNotFound
		}
		return nil, collaboratorErr(err)
	}
	if user.Role != model.Student {
		return nil, util.ErrNotAStudent
	}

	return s.buildStudentReport(user)
}

func (s *AnalyticsService) buildStudentReport(user *model.User) (*StudentReport, error) {
	rows, err := s.ProgressRepo.FindByUser(user.ID)
	if err != nil {
		return nil, err
	}

	completedListening, err := s.ProgressRepo.CountCompletedByUserAndKind(user.ID, model.LessonKindListening)
	if err != nil {
		return nil, err
	}
	completedReading, err := s.ProgressRepo.CountCompletedByUserAndKind(user.ID, model.LessonKindReading)
	if err != nil {
		return nil, err
	}

	avgScore, err := s.ProgressRepo.AverageScoreByUser(user.ID)
	if err != nil {
		return nil, err
	}
	totalTime, err := s.ProgressRepo.TotalTimeByUser(user.ID)
	if err != nil {
		return nil, err
	}

	vocabLearned, err := s.VocabRepo.CountLearnedByUser(user.ID)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	// 最近活动时间：进度行里最新的 createdAt，没有进度时回退到注册时间
	lastActivity := user.CreatedAt
	for _, row := range rows {
		if row.CreatedAt.After(lastActivity) {
			lastActivity = row.CreatedAt
		}
	}

	details := make([]StudentLessonDetail, 0, len(rows))
	for _, row := range rows {
		meta, err := s.LessonRepo.GetLessonMeta(row.Ref())
		if err != nil {
			return nil, collaboratorErr(err)
		}
		questions, err := s.QuestionRepo.FindByLesson(row.Ref())
		if err != nil {
			return nil, collaboratorErr(err)
		}
		questionIDs := make([]uint, len(questions))
		for i, q := range questions {
			questionIDs[i] = q.ID
		}
		correct, err := s.AnswerRepo.CountCorrectByUserAndQuestions(user.ID, questionIDs)
		if err != nil {
			return nil, err
		}

		details = append(details, StudentLessonDetail{
			LessonID:         meta.LessonID,
			LessonKind:       meta.LessonKind,
			Title:            meta.Title,
			Level:            meta.Level,
			CategoryName:     meta.CategoryName,
			IsCompleted:      row.IsCompleted,
			Score:            row.Score,
			TimeSpentSeconds: row.TimeSpentSeconds,
			CorrectAnswers:   correct,
			TotalQuestions:   len(questions),
			CompletedAt:      row.CompletedAt,
		})
	}

	return &StudentReport{
		UserID:                  user.ID,
		Name:                    user.Name,
		Email:                   user.Email,
		CompletedLessons:        completedListening + completedReading,
		CompletedListening:      completedListening,
		CompletedReading:        completedReading,
		AverageScore:            util.Round2(avgScore),
		TotalTimeStudiedSeconds: totalTime,
		VocabularyLearned:       vocabLearned,
		LastActivity:            lastActivity,
		Lessons:                 details,
	}, nil
}

// GetAllStudentReports 全部在读学生的报告，顺序不保证
func (s *AnalyticsService) GetAllStudentReports() ([]StudentReport, error) {
	students, err := s.UserRepo.FindActiveByRole(model.Student)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	reports := make([]StudentReport, 0, len(students))
	for i := range students {
		report, err := s.buildStudentReport(&students[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// dayBounds 返回本地自然日 [00:00:00, 次日00:00:00) 的边界
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
