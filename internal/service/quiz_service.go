package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockQuestionCount 随机模拟/弱点模拟的固定题数
const MockQuestionCount = 40

type QuizService struct {
	QuestionRepo *repository.QuestionRepository
	ResultRepo   *repository.QuizResultRepository
	UserRepo     *repository.UserRepository
	DB           *gorm.DB
}

func NewQuizService(
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.QuizResultRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		QuestionRepo: questionRepo,
		ResultRepo:   resultRepo,
		UserRepo:     userRepo,
		DB:           db,
	}
}

// QuizQuestion 发给考生的题目，不含答案和解析
type QuizQuestion struct {
	ID      uint     `json:"id"`
	Content string   `json:"content"`
	Choices []string `json:"choices"`
}

// StartQuizResponse 出题结果。QuestionIDs 是本次出题顺序的规范列表，
// 客户端提交答案时必须原样回传（存储层的查询顺序不保证和出题顺序一致）
type StartQuizResponse struct {
	ExamType    string         `json:"examType"`
	QuestionIDs []uint         `json:"questionIds"`
	Questions   []QuizQuestion `json:"questions"`
}

// StartSection 章节测验。chapter 为 0 表示全章节
func (s *QuizService) StartSection(chapter int) (*StartQuizResponse, error) {
	var pool []model.Question
	var examType string
	var err error

	if chapter == 0 {
		pool, err = s.QuestionRepo.FindAllSections()
		examType = model.ExamTypeAllSections
	} else {
		if chapter < 1 || chapter > model.SectionCount {
			return nil, util.ErrInvalidChapter
		}
		examType = model.SectionCategory(chapter)
		pool, err = s.QuestionRepo.FindByCategory(examType)
	}
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	return buildStartResponse(examType, sampleWithoutReplacement(pool, len(pool))), nil
}

// StartPractice 自由练习。count <= 0 表示全部题目
func (s *QuizService) StartPractice(count int) (*StartQuizResponse, error) {
	pool, err := s.QuestionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	if count <= 0 {
		return buildStartResponse(model.ExamTypePracticeAll, sampleWithoutReplacement(pool, len(pool))), nil
	}

	examType := fmt.Sprintf("practice%d", count)
	return buildStartResponse(examType, sampleWithoutReplacement(pool, count)), nil
}

// StartRandomMock 随机模拟：全池均匀抽取40题
func (s *QuizService) StartRandomMock() (*StartQuizResponse, error) {
	pool, err := s.QuestionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	return buildStartResponse(model.ExamTypeRandom, sampleWithoutReplacement(pool, MockQuestionCount)), nil
}

// StartWeaknessMock 弱点模拟：按历史正确率从低到高取40题后打乱出题顺序。
// 从未出过的题正确率按0计，排在最前
func (s *QuizService) StartWeaknessMock() (*StartQuizResponse, error) {
	pool, err := s.QuestionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	ranked := rankByWeakness(pool)
	n := MockQuestionCount
	if n > len(ranked) {
		n = len(ranked)
	}
	return buildStartResponse(model.ExamTypeWeakness, sampleWithoutReplacement(ranked[:n], n)), nil
}

// sampleWithoutReplacement 均匀无放回抽取 n 题（n 超过池大小时取整个池），顺序随机
func sampleWithoutReplacement(pool []model.Question, n int) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// rankByWeakness 按历史正确率升序排序，正确率相同按ID升序保证稳定
func rankByWeakness(pool []model.Question) []model.Question {
	ranked := make([]model.Question, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].AccuracyRate(), ranked[j].AccuracyRate()
		if ri != rj {
			return ri < rj
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

func buildStartResponse(examType string, questions []model.Question) *StartQuizResponse {
	resp := &StartQuizResponse{
		ExamType:    examType,
		QuestionIDs: make([]uint, len(questions)),
		Questions:   make([]QuizQuestion, len(questions)),
	}
	for i, q := range questions {
		resp.QuestionIDs[i] = q.ID
		choices := q.Choices()
		resp.Questions[i] = QuizQuestion{
			ID:      q.ID,
			Content: q.Content,
			Choices: choices[:],
		}
	}
	return resp
}

// QuestionScore 单题判分结果，Selected 为 0 表示未作答
type QuestionScore struct {
	Question  model.Question
	Selected  int
	IsCorrect bool
}

// ScoreSubmission 按提交的出题顺序判分。order 里已不存在于 byID 的题目
// （开考后被删除）直接跳过，未作答按答错计。纯函数，不碰存储
func ScoreSubmission(order []uint, byID map[uint]model.Question, answers map[uint]int) ([]QuestionScore, int) {
	scored := make([]QuestionScore, 0, len(order))
	correct := 0

	for _, id := range order {
		q, ok := byID[id]
		if !ok {
			continue
		}
		selected := answers[id]
		isCorrect := selected == q.Correct
		if isCorrect {
			correct++
		}
		scored = append(scored, QuestionScore{
			Question:  q,
			Selected:  selected,
			IsCorrect: isCorrect,
		})
	}

	return scored, correct
}

// AnswerReview 判分后返回给前端的单题回顾
type AnswerReview struct {
	QuestionID   uint     `json:"questionId"`
	Content      string   `json:"content"`
	Choices      []string `json:"choices"`
	Selected     int      `json:"selected"` // 0=未作答
	SelectedText string   `json:"selectedText"`
	Correct      int      `json:"correct"`
	CorrectText  string   `json:"correctText"`
	IsCorrect    bool     `json:"isCorrect"`
	Rationale    string   `json:"rationale"`
	Reference    string   `json:"reference"`
}

type SubmitQuizResponse struct {
	ExamType string         `json:"examType"`
	Score    int            `json:"score"`
	Total    int            `json:"total"`
	Results  []AnswerReview `json:"results"`
}

// Submit 判分并落库。examType 原样写入记录；明细按出题顺序序列化；
// 同一事务内累加每题的出题/答对计数。用户已被删除时跳过落库但仍返回判分结果
func (s *QuizService) Submit(userID uint, examType string, order []uint, answers map[uint]int) (*SubmitQuizResponse, error) {
	questions, err := s.QuestionRepo.FindByIDs(order)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	scored, correct := ScoreSubmission(order, byID, answers)

	details := make([]model.ResultDetail, len(scored))
	reviews := make([]AnswerReview, len(scored))
	for i, sc := range scored {
		details[i] = model.ResultDetail{
			QuestionID: sc.Question.ID,
			Category:   sc.Question.Category,
			IsCorrect:  sc.IsCorrect,
		}
		choices := sc.Question.Choices()
		selectedText := sc.Question.Choice(sc.Selected)
		if selectedText == "" {
			selectedText = "未作答"
		}
		reviews[i] = AnswerReview{
			QuestionID:   sc.Question.ID,
			Content:      sc.Question.Content,
			Choices:      choices[:],
			Selected:     sc.Selected,
			SelectedText: selectedText,
			Correct:      sc.Question.Correct,
			CorrectText:  sc.Question.Choice(sc.Question.Correct),
			IsCorrect:    sc.IsCorrect,
			Rationale:    sc.Question.Rationale,
			Reference:    sc.Question.Reference,
		}
	}

	if err := s.record(userID, examType, scored, details); err != nil {
		return nil, err
	}

	return &SubmitQuizResponse{
		ExamType: examType,
		Score:    correct,
		Total:    len(scored),
		Results:  reviews,
	}, nil
}

// HistoryItem 历史记录列表里的一条，不含每题明细
type HistoryItem struct {
	ID             uint    `json:"id"`
	ExamType       string  `json:"examType"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	Rate           float64 `json:"rate"`
	CreatedAt      string  `json:"createdAt"`
}

// History 按时间新→旧分页返回历史成绩
func (s *QuizService) History(userID uint, page, limit int) ([]HistoryItem, int64, error) {
	total, err := s.ResultRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.ResultRepo.FindByUserWithPagination(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]HistoryItem, len(rows))
	for i, row := range rows {
		items[i] = HistoryItem{
			ID:             row.ID,
			ExamType:       row.ExamType,
			TotalQuestions: row.TotalQuestions,
			CorrectAnswers: row.CorrectAnswers,
			Rate:           percentage(row.CorrectAnswers, row.TotalQuestions),
			CreatedAt:      row.CreatedAt.Format(util.TimeFormat),
		}
	}
	return items, total, nil
}

// record 写入一次测验记录。记录只增不改：历史成绩没有任何更新和删除路径
func (s *QuizService) record(userID uint, examType string, scored []QuestionScore, details []model.ResultDetail) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 会话还在但账号已被删除。已知缺口：结果静默丢弃，只留日志
			logger.Log.Warn("quiz result dropped, user no longer exists",
				zap.Uint("userID", userID),
				zap.String("examType", examType))
			return nil
		}
		return err
	}

	raw, err := model.MarshalDetails(details)
	if err != nil {
		return err
	}

	correct := 0
	for _, sc := range scored {
		if sc.IsCorrect {
			correct++
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		result := &model.QuizResult{
			UserID:         userID,
			ExamType:       examType,
			TotalQuestions: len(scored),
			CorrectAnswers: correct,
			Details:        raw,
		}
		if err := s.ResultRepo.Create(tx, result); err != nil {
			return err
		}

		for _, sc := range scored {
			if err := s.QuestionRepo.IncrementStats(tx, sc.Question.ID, sc.IsCorrect); err != nil {
				return err
			}
		}
		return nil
	})
}
