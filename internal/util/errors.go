package util

import "errors"

var (
	ErrUserNotFound            = errors.New("用户不存在")
	ErrEmailRegistered         = errors.New("该邮箱已被注册")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrLessonNotFound          = errors.New("lesson not found")
	ErrInvalidLessonKind       = errors.New("invalid lesson kind")
	ErrLearnerNotFound         = errors.New("learner not found")
	ErrNotAStudent             = errors.New("user is not a student")
	ErrQuestionNotFound        = errors.New("question not found")
	ErrVocabularyNotFound      = errors.New("vocabulary not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)
