package service

import (
	"context"
	"errors"

	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Email    *EmailService
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, email *EmailService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Email:    email,
		Cfg:      cfg,
	}
}

// Register 注册新账号。账号建成时未激活、无密码，
// 密码通过激活邮件里的签名令牌设置，设置成功才能登录
func (s *AuthService) Register(ctx context.Context, email, nickname string) error {
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := &model.User{
		Email:    email,
		Nickname: nickname,
		IsActive: false,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	token, err := util.GenerateEmailToken(user.ID, util.TokenPurposeActivate, s.Cfg.JWT.Secret, s.Cfg.JWT.EmailTokenHours)
	if err != nil {
		return err
	}

	if err := s.Email.SendActivationEmail(ctx, user.Email, user.Nickname, token); err != nil {
		// 注册本身已成功，邮件失败只记日志，用户可重新请求
		logger.Log.Error("failed to send activation email",
			zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

// Activate 用激活令牌设置密码并激活账号
func (s *AuthService) Activate(token, password string) error {
	claims, err := util.ParseEmailToken(token, util.TokenPurposeActivate, s.Cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidToken
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return util.ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	user.IsActive = true
	return s.UserRepo.Update(user)
}

// Login 登录。未激活的账号不能登录
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if !user.IsActive {
		return "", util.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("userID", user.ID), zap.Error(err))
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// RequestPasswordReset 发送重置密码邮件。邮箱不存在也返回成功，不暴露注册状态
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := util.GenerateEmailToken(user.ID, util.TokenPurposeReset, s.Cfg.JWT.Secret, s.Cfg.JWT.EmailTokenHours)
	if err != nil {
		return err
	}

	if err := s.Email.SendPasswordResetEmail(ctx, user.Email, user.Nickname, token); err != nil {
		logger.Log.Error("failed to send password reset email",
			zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

// ResetPassword 用重置令牌改密码
func (s *AuthService) ResetPassword(token, password string) error {
	claims, err := util.ParseEmailToken(token, util.TokenPurposeReset, s.Cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidToken
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return util.ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}
