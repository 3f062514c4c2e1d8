package service

import (
	"testing"

	"exam_prep_backend/internal/model"
)

func question(id uint, correct int, category string, totalCount, correctCount int) model.Question {
	q := model.Question{
		Content:      "question",
		Correct:      correct,
		Category:     category,
		TotalCount:   totalCount,
		CorrectCount: correctCount,
	}
	q.ID = id
	return q
}

func TestScoreSubmissionPreservesOrder(t *testing.T) {
	byID := map[uint]model.Question{
		1: question(1, 1, "practice", 0, 0),
		2: question(2, 2, "practice", 0, 0),
		3: question(3, 3, "practice", 0, 0),
	}
	// 存储层返回顺序和出题顺序无关，判分必须按提交的顺序重建
	order := []uint{3, 1, 2}

	scored, _ := ScoreSubmission(order, byID, map[uint]int{})

	if len(scored) != 3 {
		t.Fatalf("scored length = %d, want 3", len(scored))
	}
	for i, want := range order {
		if scored[i].Question.ID != want {
			t.Errorf("scored[%d].ID = %d, want %d", i, scored[i].Question.ID, want)
		}
	}
}

func TestScoreSubmissionUnanswered(t *testing.T) {
	byID := map[uint]model.Question{
		1: question(1, 2, "practice", 0, 0),
		2: question(2, 3, "practice", 0, 0),
	}
	answers := map[uint]int{1: 2} // q2 未作答

	scored, correct := ScoreSubmission([]uint{1, 2}, byID, answers)

	if correct != 1 {
		t.Errorf("score = %d, want 1", correct)
	}
	if !scored[0].IsCorrect {
		t.Error("q1 should be correct")
	}
	if scored[1].IsCorrect {
		t.Error("unanswered q2 should be incorrect")
	}
	if scored[1].Selected != 0 {
		t.Errorf("unanswered q2 Selected = %d, want 0", scored[1].Selected)
	}
}

func TestScoreSubmissionDropsDeletedQuestions(t *testing.T) {
	// q2 在开考后被删除：判分和总数都只反映仍然存在的题目
	byID := map[uint]model.Question{
		1: question(1, 1, "practice", 0, 0),
		3: question(3, 2, "practice", 0, 0),
	}
	answers := map[uint]int{1: 1, 2: 4, 3: 1}

	scored, correct := ScoreSubmission([]uint{1, 2, 3}, byID, answers)

	if len(scored) != 2 {
		t.Fatalf("scored length = %d, want 2", len(scored))
	}
	if correct != 1 {
		t.Errorf("score = %d, want 1", correct)
	}
	if scored[0].Question.ID != 1 || scored[1].Question.ID != 3 {
		t.Errorf("scored IDs = [%d %d], want [1 3]", scored[0].Question.ID, scored[1].Question.ID)
	}
}

func TestSampleWithoutReplacementCapsAtPoolSize(t *testing.T) {
	pool := []model.Question{
		question(1, 1, "practice", 0, 0),
		question(2, 1, "practice", 0, 0),
		question(3, 1, "practice", 0, 0),
	}

	sampled := sampleWithoutReplacement(pool, 10)

	if len(sampled) != 3 {
		t.Fatalf("sample size = %d, want 3 (capped by pool)", len(sampled))
	}
	seen := make(map[uint]bool)
	for _, q := range sampled {
		if seen[q.ID] {
			t.Errorf("duplicate question %d in sample", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSampleWithoutReplacementSize(t *testing.T) {
	pool := make([]model.Question, 100)
	for i := range pool {
		pool[i] = question(uint(i+1), 1, "practice", 0, 0)
	}

	sampled := sampleWithoutReplacement(pool, MockQuestionCount)

	if len(sampled) != MockQuestionCount {
		t.Fatalf("sample size = %d, want %d", len(sampled), MockQuestionCount)
	}
	seen := make(map[uint]bool)
	for _, q := range sampled {
		if seen[q.ID] {
			t.Errorf("duplicate question %d in sample", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestRankByWeaknessUnseenFirst(t *testing.T) {
	pool := []model.Question{
		question(1, 1, "practice", 10, 9), // 90%
		question(2, 1, "practice", 0, 0),  // 从未出过，按0%
		question(3, 1, "practice", 10, 2), // 20%
		question(4, 1, "practice", 0, 0),  // 从未出过
		question(5, 1, "practice", 4, 2),  // 50%
	}

	ranked := rankByWeakness(pool)

	// 没出过的题必须排在所有有正确率的题之前
	lastUnseen, firstSeen := -1, len(ranked)
	for i, q := range ranked {
		if q.TotalCount == 0 {
			lastUnseen = i
		} else if i < firstSeen {
			firstSeen = i
		}
	}
	if lastUnseen > firstSeen {
		t.Errorf("unseen question ranked after seen question: ranked order %v", ids(ranked))
	}

	wantOrder := []uint{2, 4, 3, 5, 1}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("ranked order = %v, want %v", ids(ranked), wantOrder)
		}
	}
}

func TestRankByWeaknessDoesNotMutateInput(t *testing.T) {
	pool := []model.Question{
		question(1, 1, "practice", 10, 9),
		question(2, 1, "practice", 0, 0),
	}

	rankByWeakness(pool)

	if pool[0].ID != 1 || pool[1].ID != 2 {
		t.Error("rankByWeakness mutated its input")
	}
}

func TestBuildStartResponseHidesAnswers(t *testing.T) {
	q := question(7, 3, "section2", 0, 0)
	q.Choice1, q.Choice2, q.Choice3, q.Choice4 = "a", "b", "c", "d"
	q.Rationale = "because"

	resp := buildStartResponse("section2", []model.Question{q})

	if resp.ExamType != "section2" {
		t.Errorf("ExamType = %q, want section2", resp.ExamType)
	}
	if len(resp.QuestionIDs) != 1 || resp.QuestionIDs[0] != 7 {
		t.Errorf("QuestionIDs = %v, want [7]", resp.QuestionIDs)
	}
	got := resp.Questions[0]
	if got.ID != 7 || got.Content != "question" {
		t.Errorf("question payload = %+v", got)
	}
	if len(got.Choices) != 4 || got.Choices[2] != "c" {
		t.Errorf("choices = %v", got.Choices)
	}
}

func TestDetailRoundTrip(t *testing.T) {
	byID := map[uint]model.Question{
		1: question(1, 2, "section1", 0, 0),
		2: question(2, 3, "section5", 0, 0),
		3: question(3, 1, "practice", 0, 0),
	}
	answers := map[uint]int{1: 2, 2: 1, 3: 1}

	scored, correct := ScoreSubmission([]uint{1, 2, 3}, byID, answers)

	details := make([]model.ResultDetail, len(scored))
	for i, sc := range scored {
		details[i] = model.ResultDetail{
			QuestionID: sc.Question.ID,
			Category:   sc.Question.Category,
			IsCorrect:  sc.IsCorrect,
		}
	}
	raw, err := model.MarshalDetails(details)
	if err != nil {
		t.Fatalf("MarshalDetails: %v", err)
	}

	parsed := model.ParseDetails(raw)
	if len(parsed) != len(scored) {
		t.Fatalf("parsed %d details, want %d", len(parsed), len(scored))
	}
	parsedCorrect := 0
	for i, d := range parsed {
		if d != details[i] {
			t.Errorf("detail[%d] = %+v, want %+v", i, d, details[i])
		}
		if d.IsCorrect {
			parsedCorrect++
		}
	}
	if parsedCorrect != correct {
		t.Errorf("round-tripped correct count = %d, want %d", parsedCorrect, correct)
	}
}

func ids(questions []model.Question) []uint {
	out := make([]uint, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}
