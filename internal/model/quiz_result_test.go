package model

import (
	"reflect"
	"testing"
)

func TestParseDetailsRoundTrip(t *testing.T) {
	details := []ResultDetail{
		{QuestionID: 7, Category: "section3", IsCorrect: true},
		{QuestionID: 2, Category: "practice", IsCorrect: false},
	}

	raw, err := MarshalDetails(details)
	if err != nil {
		t.Fatalf("MarshalDetails: %v", err)
	}

	got := ParseDetails(raw)
	if !reflect.DeepEqual(got, details) {
		t.Errorf("round trip = %+v, want %+v", got, details)
	}
}

func TestParseDetailsSkipsMalformedEntries(t *testing.T) {
	raw := `[{"q_id":1,"category":"section1","is_correct":true},42,{"q_id":2,"category":"section2","is_correct":false}]`

	got := ParseDetails(raw)

	want := []ResultDetail{
		{QuestionID: 1, Category: "section1", IsCorrect: true},
		{QuestionID: 2, Category: "section2", IsCorrect: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDetails = %+v, want %+v", got, want)
	}
}

func TestParseDetailsUnusableBlob(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"not json", "not json at all"},
		{"json object instead of array", `{"q_id":1}`},
		{"truncated array", `[{"q_id":1,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDetails(tt.raw); got != nil {
				t.Errorf("ParseDetails(%q) = %+v, want nil", tt.raw, got)
			}
		})
	}
}

func TestParseSectionCategory(t *testing.T) {
	tests := []struct {
		category string
		chapter  int
		ok       bool
	}{
		{"section1", 1, true},
		{"section16", 16, true},
		{"section0", 0, false},
		{"section17", 0, false},
		{"section", 0, false},
		{"sectionX", 0, false},
		{"practice", 0, false},
		{"practice10", 0, false},
		{"all", 0, false},
		{"random", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			chapter, ok := ParseSectionCategory(tt.category)
			if chapter != tt.chapter || ok != tt.ok {
				t.Errorf("ParseSectionCategory(%q) = (%d, %v), want (%d, %v)",
					tt.category, chapter, ok, tt.chapter, tt.ok)
			}
		})
	}
}

func TestAccuracyRate(t *testing.T) {
	unseen := Question{}
	if got := unseen.AccuracyRate(); got != 0 {
		t.Errorf("unseen question rate = %v, want 0", got)
	}

	seen := Question{TotalCount: 4, CorrectCount: 3}
	if got := seen.AccuracyRate(); got != 0.75 {
		t.Errorf("rate = %v, want 0.75", got)
	}
}
