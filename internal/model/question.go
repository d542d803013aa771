package model

import "encoding/json"

// Question 归属于唯一的 (LessonID, LessonKind) 课程引用
// swagger:model
type Question struct {
	BaseModel
	LessonID      uint            `gorm:"index:idx_question_lesson" json:"lessonId"`
	LessonKind    LessonKind      `gorm:"size:20;index:idx_question_lesson" json:"lessonKind"`
	Content       string          `gorm:"type:text;not null" json:"content"`
	Options       json.RawMessage `gorm:"type:json" json:"options"`
	CorrectAnswer string          `gorm:"size:255;not null" json:"correctAnswer"`
	Points        int             `gorm:"default:1" json:"points"`
	Order         int             `gorm:"default:0" json:"order"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
