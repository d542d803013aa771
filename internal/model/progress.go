package model

import "time"

// LessonProgress 每个 (UserID, LessonID, LessonKind) 键至多一行，
// 由唯一索引加原子 insert-or-update 保证
// swagger:model
type LessonProgress struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID         uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	LessonKind       LessonKind `gorm:"uniqueIndex:idx_user_lesson;size:20;not null" json:"lessonKind"`
	IsCompleted      bool       `gorm:"default:false" json:"isCompleted"`
	Score            float64    `gorm:"type:decimal(4,2);default:0" json:"score"`
	TimeSpentSeconds int        `gorm:"default:0" json:"timeSpentSeconds"`
	CompletedAt      *time.Time `json:"completedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

func (p *LessonProgress) Ref() LessonRef {
	return LessonRef{LessonID: p.LessonID, LessonKind: p.LessonKind}
}
