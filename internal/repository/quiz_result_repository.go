package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// QuizResultRepository 只有插入和查询：测验记录一经写入不再修改或删除
type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) Create(tx *gorm.DB, result *model.QuizResult) error {
	return tx.Create(result).Error
}

// FindByUserWithPagination 某用户的历史记录，新→旧分页
func (r *QuizResultRepository) FindByUserWithPagination(userID uint, page, limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	offset := (page - 1) * limit
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	return results, err
}

// FindByUserSince 某用户自 since 以来的全部记录
func (r *QuizResultRepository) FindByUserSince(userID uint, since time.Time) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND created_at >= ?", userID, since).Find(&results).Error
	return results, err
}

// FindRecentByExamType 按测验类型取最近 limit 条，新→旧
func (r *QuizResultRepository) FindRecentByExamType(userID uint, examType string, limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND exam_type = ?", userID, examType).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func (r *QuizResultRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizResult{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
