package model

import (
	"fmt"
	"strconv"
	"strings"
)

// 分类标签：sectionN 表示第N章的章节题，practice 表示通用练习题池
const (
	CategorySectionPrefix = "section"
	CategoryPractice      = "practice"
)

// SectionCount 考试大纲的章节数
const SectionCount = 16

// swagger:model Question
type Question struct {
	BaseModel
	Content      string `gorm:"size:300;not null" json:"content"`
	Choice1      string `gorm:"size:200" json:"choice1"`
	Choice2      string `gorm:"size:200" json:"choice2"`
	Choice3      string `gorm:"size:200" json:"choice3"`
	Choice4      string `gorm:"size:200" json:"choice4"`
	Correct      int    `gorm:"not null" json:"correct"` // 正确选项编号 1~4
	Category     string `gorm:"size:50;index" json:"category"`
	Rationale    string `gorm:"type:text" json:"rationale"`
	Reference    string `gorm:"size:300" json:"reference"`
	TotalCount   int    `gorm:"not null;default:0" json:"totalCount"`   // 累计出题次数
	CorrectCount int    `gorm:"not null;default:0" json:"correctCount"` // 累计答对次数
}

func (Question) TableName() string {
	return "questions"
}

// Choices 按选项编号顺序返回四个选项
func (q *Question) Choices() [4]string {
	return [4]string{q.Choice1, q.Choice2, q.Choice3, q.Choice4}
}

// Choice 返回编号对应的选项文本，编号不在 1~4 时返回空串
func (q *Question) Choice(n int) string {
	switch n {
	case 1:
		return q.Choice1
	case 2:
		return q.Choice2
	case 3:
		return q.Choice3
	case 4:
		return q.Choice4
	}
	return ""
}

// AccuracyRate 历史正确率，从未出题时按0处理（让未见过的题排在弱点模式最前）
func (q *Question) AccuracyRate() float64 {
	if q.TotalCount == 0 {
		return 0
	}
	return float64(q.CorrectCount) / float64(q.TotalCount)
}

// SectionCategory 根据章节号生成分类标签
func SectionCategory(chapter int) string {
	return fmt.Sprintf("%s%d", CategorySectionPrefix, chapter)
}

// ParseSectionCategory 从 sectionN 标签解析章节号，非章节标签返回 (0,false)
func ParseSectionCategory(category string) (int, bool) {
	rest, ok := strings.CutPrefix(category, CategorySectionPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > SectionCount {
		return 0, false
	}
	return n, true
}
