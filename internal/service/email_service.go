package service

import (
	"context"
	"fmt"

	appconfig "exam_prep_backend/internal/config"
	"exam_prep_backend/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailService 通过 Amazon SES 发送激活和重置密码邮件。
// 未配置发件地址时服务降级为禁用，所有发送调用直接跳过
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	baseURL   string
	enabled   bool
}

func NewEmailService(cfg *appconfig.Config) (*EmailService, error) {
	if cfg.Email.FromEmail == "" {
		logger.Log.Info("Email service disabled: email.from_email not configured")
		return &EmailService{enabled: false}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Email.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Log.Info("Email service enabled",
		zap.String("from", cfg.Email.FromEmail),
		zap.String("region", cfg.Email.Region))

	return &EmailService{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.Email.FromEmail,
		fromName:  cfg.Email.FromName,
		baseURL:   cfg.Server.BaseURL,
		enabled:   true,
	}, nil
}

func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendActivationEmail 发送带签名激活令牌的注册确认邮件
func (s *EmailService) SendActivationEmail(ctx context.Context, toEmail, toName, token string) error {
	link := fmt.Sprintf("%s/activate?token=%s", s.baseURL, token)
	subject := "【备考平台】账号激活"
	body := fmt.Sprintf(
		"%s 您好：\n\n感谢注册备考平台。请在24小时内打开以下链接设置密码并激活账号：\n\n%s\n\n如果这不是您本人的操作，请忽略本邮件。",
		displayName(toName, toEmail), link)

	return s.send(ctx, toEmail, subject, body)
}

// SendPasswordResetEmail 发送重置密码邮件
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	subject := "【备考平台】重置密码"
	body := fmt.Sprintf(
		"%s 您好：\n\n请在24小时内打开以下链接重置密码：\n\n%s\n\n如果这不是您本人的操作，请忽略本邮件。",
		displayName(toName, toEmail), link)

	return s.send(ctx, toEmail, subject, body)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, body string) error {
	if !s.enabled {
		logger.Log.Info("Skipping email send (service disabled)", zap.String("to", toEmail))
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
