package database

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
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

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Question{},
			&model.QuizResult{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	// 没有管理员时创建默认管理员，密码务必在首次登录后修改
	var adminCount int64
	db.Model(&model.User{}).Where("is_admin = ?", true).Count(&adminCount)
	if adminCount == 0 && cfg.AdminEmail != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		admin := &model.User{
			Email:    cfg.AdminEmail,
			Password: string(hashed),
			IsAdmin:  true,
			IsActive: true,
			Nickname: "管理员",
		}
		if err := db.Create(admin).Error; err != nil {
			return nil, err
		}
		log.Printf("Default admin account created: %s", cfg.AdminEmail)
	}

	return db, nil
}
