package service

import (
	"reflect"
	"testing"
	"time"

	"exam_prep_backend/internal/model"
)

func result(examType string, total, correct int, age time.Duration, now time.Time, details string) model.QuizResult {
	r := model.QuizResult{
		UserID:         1,
		ExamType:       examType,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Details:        details,
	}
	r.CreatedAt = now.Add(-age)
	return r
}

func TestWeeklyTrendEmptyBucketsReportZero(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	series := weeklyTrend(nil, now)

	if len(series.Labels) != WeeklyTrendWeeks || len(series.Rates) != WeeklyTrendWeeks {
		t.Fatalf("series lengths = %d/%d, want %d", len(series.Labels), len(series.Rates), WeeklyTrendWeeks)
	}
	for i, rate := range series.Rates {
		if rate != 0 {
			t.Errorf("empty bucket %d rate = %v, want 0", i, rate)
		}
	}
}

func TestWeeklyTrendBucketAssignment(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := []model.QuizResult{
		result("random", 10, 7, time.Hour, now, ""),           // 最近一周 → 最后一个桶
		result("random", 10, 3, 8*24*time.Hour, now, ""),      // 上一周
		result("section1", 20, 20, 8*24*time.Hour, now, ""),   // 同一桶再来一行
		result("random", 10, 5, 100*24*time.Hour, now, ""),    // 超出8周，忽略
		result("random", 10, 5, -time.Hour, now, ""),          // 未来时间，忽略
	}

	series := weeklyTrend(rows, now)

	if got := series.Rates[WeeklyTrendWeeks-1]; got != 70 {
		t.Errorf("latest bucket rate = %v, want 70", got)
	}
	// 上一周：(3+20)/(10+20) = 76.7%
	if got := series.Rates[WeeklyTrendWeeks-2]; got != 76.7 {
		t.Errorf("previous bucket rate = %v, want 76.7", got)
	}
	for i := 0; i < WeeklyTrendWeeks-2; i++ {
		if series.Rates[i] != 0 {
			t.Errorf("bucket %d rate = %v, want 0", i, series.Rates[i])
		}
	}
}

func TestSectionAccuracyPrefersDetails(t *testing.T) {
	now := time.Now()
	// 混合章节的一次测验，明细能把每题归到对应章
	details := `[{"q_id":1,"category":"section1","is_correct":true},` +
		`{"q_id":2,"category":"section1","is_correct":false},` +
		`{"q_id":3,"category":"section2","is_correct":true},` +
		`{"q_id":4,"category":"practice","is_correct":true}]`
	rows := []model.QuizResult{
		result("random", 4, 3, time.Hour, now, details),
	}

	series := sectionAccuracy(rows, now)

	if got := series.Rates[0]; got != 50 {
		t.Errorf("section1 rate = %v, want 50", got)
	}
	if got := series.Rates[1]; got != 100 {
		t.Errorf("section2 rate = %v, want 100", got)
	}
	// practice 分类的题不属于任何章
	for i := 2; i < model.SectionCount; i++ {
		if series.Rates[i] != 0 {
			t.Errorf("section%d rate = %v, want 0", i+1, series.Rates[i])
		}
	}
}

func TestSectionAccuracyLegacyFallback(t *testing.T) {
	now := time.Now()
	rows := []model.QuizResult{
		// 明细为空的旧记录，exam_type 是单章标签：整行归入该章
		result("section4", 10, 7, time.Hour, now, ""),
		// 全章节标签不对应单个章，不参与回退
		result(model.ExamTypeAllSections, 20, 20, time.Hour, now, ""),
		// 练习标签同样不回退
		result("practice10", 10, 10, time.Hour, now, ""),
	}

	series := sectionAccuracy(rows, now)

	if got := series.Rates[3]; got != 70 {
		t.Errorf("section4 rate = %v, want 70", got)
	}
	for i := 0; i < model.SectionCount; i++ {
		if i != 3 && series.Rates[i] != 0 {
			t.Errorf("section%d rate = %v, want 0", i+1, series.Rates[i])
		}
	}
}

func TestSectionAccuracySkipsMalformedEntries(t *testing.T) {
	now := time.Now()
	// 坏条目逐条跳过，好条目照常统计
	details := `[{"q_id":1,"category":"section3","is_correct":true},` +
		`"not-an-object",` +
		`{"q_id":2,"category":"section3","is_correct":false}]`
	rows := []model.QuizResult{
		result("section3", 3, 1, time.Hour, now, details),
	}

	series := sectionAccuracy(rows, now)

	if got := series.Rates[2]; got != 50 {
		t.Errorf("section3 rate = %v, want 50", got)
	}
}

func TestSectionAccuracyWindowExcludesOldRows(t *testing.T) {
	now := time.Now()
	rows := []model.QuizResult{
		result("section1", 10, 10, 40*24*time.Hour, now, ""),
	}

	series := sectionAccuracy(rows, now)

	if got := series.Rates[0]; got != 0 {
		t.Errorf("out-of-window row counted: rate = %v, want 0", got)
	}
}

func TestAggregationIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := []model.QuizResult{
		result("section2", 10, 6, 2*24*time.Hour, now, ""),
		result("random", 40, 31, 9*24*time.Hour, now, ""),
	}

	first := weeklyTrend(rows, now)
	second := weeklyTrend(rows, now)
	if !reflect.DeepEqual(first, second) {
		t.Error("weeklyTrend is not idempotent over identical input")
	}

	firstSection := sectionAccuracy(rows, now)
	secondSection := sectionAccuracy(rows, now)
	if !reflect.DeepEqual(firstSection, secondSection) {
		t.Error("sectionAccuracy is not idempotent over identical input")
	}
}

func TestMockTrendReversesToOldestFirst(t *testing.T) {
	now := time.Now()
	// 仓库按时间新→旧返回
	rows := []model.QuizResult{
		result("random", 40, 30, 1*24*time.Hour, now, ""),
		result("random", 40, 20, 5*24*time.Hour, now, ""),
		result("random", 40, 10, 9*24*time.Hour, now, ""),
	}

	series := mockTrend(rows)

	wantScores := []int{10, 20, 30}
	if !reflect.DeepEqual(series.Scores, wantScores) {
		t.Errorf("scores = %v, want %v", series.Scores, wantScores)
	}
	wantRates := []float64{25, 50, 75}
	if !reflect.DeepEqual(series.Rates, wantRates) {
		t.Errorf("rates = %v, want %v", series.Rates, wantRates)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    float64
	}{
		{"no data", 0, 0, 0},
		{"all correct", 10, 10, 100},
		{"none correct", 0, 10, 0},
		{"rounded to one decimal", 1, 3, 33.3},
		{"two thirds", 2, 3, 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentage(tt.correct, tt.total); got != tt.want {
				t.Errorf("percentage(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}
