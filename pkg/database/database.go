package database

import (
	"fmt"
	"log"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

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
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认课程分类
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []model.Category{
			{Name: "Daily Conversation", Description: "日常会话"},
			{Name: "Business", Description: "商务英语"},
			{Name: "Travel", Description: "旅行场景"},
			{Name: "News", Description: "新闻听读"},
			{Name: "Exam Preparation", Description: "考试备考"},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}

	return db, nil
}
