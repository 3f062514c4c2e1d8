package service

import (
	"errors"
	"fmt"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionRequest struct {
	Content   string `json:"content" binding:"required"`
	Choice1   string `json:"choice1" binding:"required"`
	Choice2   string `json:"choice2" binding:"required"`
	Choice3   string `json:"choice3" binding:"required"`
	Choice4   string `json:"choice4" binding:"required"`
	Correct   int    `json:"correct" binding:"required"`
	Category  string `json:"category" binding:"required"`
	Rationale string `json:"rationale"`
	Reference string `json:"reference"`
}

func validateQuestionRequest(req QuestionRequest) error {
	if req.Correct < 1 || req.Correct > 4 {
		return util.ErrInvalidChoice
	}
	if req.Category != model.CategoryPractice {
		if _, ok := model.ParseSectionCategory(req.Category); !ok {
			return fmt.Errorf("category must be %s or %s1~%s%d",
				model.CategoryPractice, model.CategorySectionPrefix, model.CategorySectionPrefix, model.SectionCount)
		}
	}
	return nil
}

func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	q := &model.Question{
		Content:   req.Content,
		Choice1:   req.Choice1,
		Choice2:   req.Choice2,
		Choice3:   req.Choice3,
		Choice4:   req.Choice4,
		Correct:   req.Correct,
		Category:  req.Category,
		Rationale: req.Rationale,
		Reference: req.Reference,
	}
	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	return s.Repo.FindByID(id)
}

func (s *QuestionService) List(category string, page, limit int) ([]model.Question, int64, error) {
	return s.Repo.FindWithPagination(category, page, limit)
}

// Update 编辑题目。出题/答对计数不走这个口子，只能由判分累加
func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	q, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	q.Content = req.Content
	q.Choice1 = req.Choice1
	q.Choice2 = req.Choice2
	q.Choice3 = req.Choice3
	q.Choice4 = req.Choice4
	q.Correct = req.Correct
	q.Category = req.Category
	q.Rationale = req.Rationale
	q.Reference = req.Reference

	if err := s.Repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete 删除题目。历史测验记录里的题目ID是值快照，不回写
func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return err
	}
	return s.Repo.Delete(id)
}
