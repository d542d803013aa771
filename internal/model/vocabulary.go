package model

import "time"

// swagger:model
type Vocabulary struct {
	BaseModel
	Word          string   `gorm:"size:100;not null;index" json:"word"`
	Meaning       string   `gorm:"size:255;not null" json:"meaning"`
	Pronunciation string   `gorm:"size:100" json:"pronunciation"`
	Example       string   `gorm:"type:text" json:"example"`
	Level         string   `gorm:"size:20" json:"level"`
	CategoryID    uint     `gorm:"index" json:"categoryId"`
	Category      Category `gorm:"foreignKey:CategoryID" json:"category"`
}

func (Vocabulary) TableName() string {
	return "vocabularies"
}

// VocabularyProgress 学习者已掌握的词汇，每个 (UserID, VocabularyID) 一行
type VocabularyProgress struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"uniqueIndex:idx_user_vocab;not null" json:"userId"`
	VocabularyID uint      `gorm:"uniqueIndex:idx_user_vocab;not null" json:"vocabularyId"`
	LearnedAt    time.Time `json:"learnedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (VocabularyProgress) TableName() string {
	return "vocabulary_progress"
}
