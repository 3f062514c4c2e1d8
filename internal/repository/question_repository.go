package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindByIDs 按ID集合查题。返回顺序由存储决定，调用方需要按提交顺序自行重排
func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByCategory(category string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("category = ?", category).Find(&questions).Error
	return questions, err
}

// FindAllSections 所有章节题（任意章），即 category 形如 sectionN 的题
func (r *QuestionRepository) FindAllSections() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("category LIKE ?", model.CategorySectionPrefix+"%").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// FindWithPagination 管理端题目列表，category 为空时不过滤
func (r *QuestionRepository) FindWithPagination(category string, page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.Model(&model.Question{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&questions).Error
	return questions, total, err
}

// IncrementStats 累加单题的出题/答对计数（同一事务内由调用方传入 tx）
func (r *QuestionRepository) IncrementStats(tx *gorm.DB, questionID uint, correct bool) error {
	updates := map[string]interface{}{
		"total_count": gorm.Expr("total_count + 1"),
	}
	if correct {
		updates["correct_count"] = gorm.Expr("correct_count + 1")
	}
	return tx.Model(&model.Question{}).Where("id = ?", questionID).Updates(updates).Error
}
