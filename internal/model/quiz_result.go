package model

import (
	"encoding/json"
)

// 测验类型标签，写入 quiz_results.exam_type
const (
	ExamTypeAllSections = "all"      // 全章节测验（旧数据回退统计时排除）
	ExamTypeRandom      = "random"   // 随机模拟（40题）
	ExamTypeWeakness    = "weakness" // 弱点模拟（40题）
	ExamTypePracticeAll = "practice_all"
)

// QuizResult 一次完成的测验记录，只增不改
type QuizResult struct {
	BaseModel
	UserID         uint   `gorm:"index;not null" json:"userId"`
	ExamType       string `gorm:"size:50;not null" json:"examType"`
	TotalQuestions int    `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int    `gorm:"not null" json:"correctAnswers"`
	Details        string `gorm:"type:text" json:"-"` // 每题结果的JSON串，旧数据可能为空
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// ResultDetail 测验明细中的单题结果。题目ID只作数值快照保存，
// 不做外键关联：对应的题目之后可能被编辑或删除。
type ResultDetail struct {
	QuestionID uint   `json:"q_id"`
	Category   string `json:"category"`
	IsCorrect  bool   `json:"is_correct"`
}

// MarshalDetails 按出题顺序序列化明细
func MarshalDetails(details []ResultDetail) (string, error) {
	b, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseDetails 解析明细JSON。逐条解码，坏条目跳过而不是整体失败；
// 整串无法解析（或为空）时返回 nil，由调用方走旧数据回退逻辑。
func ParseDetails(raw string) []ResultDetail {
	if raw == "" {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	details := make([]ResultDetail, 0, len(entries))
	for _, e := range entries {
		var d ResultDetail
		if err := json.Unmarshal(e, &d); err != nil {
			continue
		}
		details = append(details, d)
	}
	return details
}
