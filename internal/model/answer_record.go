package model

import "time"

// AnswerRecord 学习者对单道题的一次作答，只追加，不更新不删除
// swagger:model
type AnswerRecord struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	QuestionID     uint      `gorm:"index;not null" json:"questionId"`
	SelectedOption string    `gorm:"size:255" json:"selectedOption"`
	IsCorrect      bool      `gorm:"default:false" json:"isCorrect"`
	AnsweredAt     time.Time `json:"answeredAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
