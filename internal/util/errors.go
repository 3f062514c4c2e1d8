package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrUserInactive     = errors.New("账号尚未激活，请先通过邮件设置密码")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrNoQuestions      = errors.New("题库中没有符合条件的题目")
	ErrInvalidChapter   = errors.New("invalid chapter")
	ErrInvalidChoice    = errors.New("correct choice must be between 1 and 4")
	ErrPermissionDenied = errors.New("permission denied")
)
