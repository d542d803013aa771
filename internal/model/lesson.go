package model

// LessonKind 区分听力课程和阅读课程两套目录
type LessonKind string

const (
	LessonKindListening LessonKind = "listening"
	LessonKindReading   LessonKind = "reading"
)

func (k LessonKind) Valid() bool {
	return k == LessonKindListening || k == LessonKindReading
}

// LessonRef 跨目录的课程引用键，调用方只构造/匹配这个键，不再分支判断
type LessonRef struct {
	LessonID   uint       `json:"lessonId"`
	LessonKind LessonKind `json:"lessonKind"`
}

type Category struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

// swagger:model
type ListeningLesson struct {
	BaseModel
	Title                string   `gorm:"size:200;not null" json:"title"`
	Description          string   `gorm:"type:text" json:"description"`
	Level                string   `gorm:"size:20" json:"level"`
	CategoryID           uint     `gorm:"index" json:"categoryId"`
	Category             Category `gorm:"foreignKey:CategoryID" json:"category"`
	AudioURL             string   `gorm:"size:500" json:"audioUrl"`
	AudioDurationSeconds int      `gorm:"default:0" json:"audioDurationSeconds"`
	Transcript           string   `gorm:"type:text" json:"transcript"`
	IsPublished          bool     `gorm:"default:false;index" json:"isPublished"`
}

func (ListeningLesson) TableName() string {
	return "listening_lessons"
}

// swagger:model
type ReadingLesson struct {
	BaseModel
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Level       string   `gorm:"size:20" json:"level"`
	CategoryID  uint     `gorm:"index" json:"categoryId"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"category"`
	Content     string   `gorm:"type:text" json:"content"`
	IsPublished bool     `gorm:"default:false;index" json:"isPublished"`
}

func (ReadingLesson) TableName() string {
	return "reading_lessons"
}

// LessonMeta 目录适配层对外暴露的课程元信息
type LessonMeta struct {
	LessonID     uint       `json:"lessonId"`
	LessonKind   LessonKind `json:"lessonKind"`
	Title        string     `json:"title"`
	Level        string     `json:"level"`
	CategoryName string     `json:"categoryName"`
}
