package service

import (
	"fmt"
	"math"
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
)

const (
	// WeeklyTrendWeeks 周趋势的桶数。桶按查询时刻的7天偏移对齐，不按日历周
	WeeklyTrendWeeks = 8
	// SectionWindowDays 章节正确率的统计窗口
	SectionWindowDays = 30
	// MockTrendCount 模拟测验趋势取最近几次
	MockTrendCount = 10
)

// 每次请求都从原始记录现算，不做任何缓存或物化。
// 统计对象只是单个用户的个人历史，规模上不需要更多
type AnalyticsService struct {
	ResultRepo *repository.QuizResultRepository
}

func NewAnalyticsService(resultRepo *repository.QuizResultRepository) *AnalyticsService {
	return &AnalyticsService{ResultRepo: resultRepo}
}

// RateSeries 折线图用的平行数组
type RateSeries struct {
	Labels []string  `json:"labels"`
	Rates  []float64 `json:"rates"`
}

// TrendSeries 每次模拟的时间、得分和百分比
type TrendSeries struct {
	Labels []string  `json:"labels"`
	Scores []int     `json:"scores"`
	Rates  []float64 `json:"rates"`
}

type Dashboard struct {
	Weekly   RateSeries  `json:"weekly"`
	Section  RateSeries  `json:"section"`
	Random   TrendSeries `json:"random"`
	Weakness TrendSeries `json:"weakness"`
}

// GetDashboard 组装四个互相独立的统计视图
func (s *AnalyticsService) GetDashboard(userID uint) (*Dashboard, error) {
	now := time.Now()

	weeklyRows, err := s.ResultRepo.FindByUserSince(userID, now.AddDate(0, 0, -7*WeeklyTrendWeeks))
	if err != nil {
		return nil, err
	}

	sectionRows, err := s.ResultRepo.FindByUserSince(userID, now.AddDate(0, 0, -SectionWindowDays))
	if err != nil {
		return nil, err
	}

	randomRows, err := s.ResultRepo.FindRecentByExamType(userID, model.ExamTypeRandom, MockTrendCount)
	if err != nil {
		return nil, err
	}

	weaknessRows, err := s.ResultRepo.FindRecentByExamType(userID, model.ExamTypeWeakness, MockTrendCount)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Weekly:   weeklyTrend(weeklyRows, now),
		Section:  sectionAccuracy(sectionRows, now),
		Random:   mockTrend(randomRows),
		Weakness: mockTrend(weaknessRows),
	}, nil
}

// weeklyTrend 最近8个7天桶的正确率，旧→新。没有答题的桶补0，不缺位
func weeklyTrend(rows []model.QuizResult, now time.Time) RateSeries {
	totals := make([]int, WeeklyTrendWeeks)
	corrects := make([]int, WeeklyTrendWeeks)

	for _, row := range rows {
		age := now.Sub(row.CreatedAt)
		if age < 0 {
			continue
		}
		bucket := int(age.Hours() / (24 * 7))
		if bucket >= WeeklyTrendWeeks {
			continue
		}
		// bucket 0 是最近一周，折线图从旧画到新所以反转下标
		idx := WeeklyTrendWeeks - 1 - bucket
		totals[idx] += row.TotalQuestions
		corrects[idx] += row.CorrectAnswers
	}

	series := RateSeries{
		Labels: make([]string, WeeklyTrendWeeks),
		Rates:  make([]float64, WeeklyTrendWeeks),
	}
	for i := 0; i < WeeklyTrendWeeks; i++ {
		weeksBack := WeeklyTrendWeeks - i
		start := now.AddDate(0, 0, -7*weeksBack)
		series.Labels[i] = start.Format("01/02")
		series.Rates[i] = percentage(corrects[i], totals[i])
	}
	return series
}

// sectionAccuracy 近30天的每章正确率。优先用每题明细（混合章节的测验也能
// 归到正确的章），没有明细的旧记录只在 exam_type 是单章标签时才整行回退
// 归入该章；全章节标签的记录不对应单个章，不参与回退
func sectionAccuracy(rows []model.QuizResult, now time.Time) RateSeries {
	totals := make([]int, model.SectionCount)
	corrects := make([]int, model.SectionCount)
	cutoff := now.AddDate(0, 0, -SectionWindowDays)

	for _, row := range rows {
		if row.CreatedAt.Before(cutoff) {
			continue
		}

		details := model.ParseDetails(row.Details)
		if len(details) > 0 {
			for _, d := range details {
				chapter, ok := model.ParseSectionCategory(d.Category)
				if !ok {
					continue
				}
				totals[chapter-1]++
				if d.IsCorrect {
					corrects[chapter-1]++
				}
			}
			continue
		}

		chapter, ok := model.ParseSectionCategory(row.ExamType)
		if !ok {
			continue
		}
		totals[chapter-1] += row.TotalQuestions
		corrects[chapter-1] += row.CorrectAnswers
	}

	series := RateSeries{
		Labels: make([]string, model.SectionCount),
		Rates:  make([]float64, model.SectionCount),
	}
	for i := 0; i < model.SectionCount; i++ {
		series.Labels[i] = fmt.Sprintf("第%d章", i+1)
		series.Rates[i] = percentage(corrects[i], totals[i])
	}
	return series
}

// mockTrend 输入是按时间新→旧取出的记录，反转成旧→新展示
func mockTrend(rows []model.QuizResult) TrendSeries {
	n := len(rows)
	series := TrendSeries{
		Labels: make([]string, n),
		Scores: make([]int, n),
		Rates:  make([]float64, n),
	}
	for i, row := range rows {
		idx := n - 1 - i
		series.Labels[idx] = row.CreatedAt.Format("01/02 15:04")
		series.Scores[idx] = row.CorrectAnswers
		series.Rates[idx] = percentage(row.CorrectAnswers, row.TotalQuestions)
	}
	return series
}

// percentage 百分比，保留一位小数，无数据时为0
func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
