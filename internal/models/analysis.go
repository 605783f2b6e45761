package models

import (
	"encoding/json"
	"math"
)

// ScoreDetail is one scored dimension. Score is always within 0..100.
type ScoreDetail struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// UnmarshalJSON accepts fractional model output and rounds it into range.
func (s *ScoreDetail) UnmarshalJSON(data []byte) error {
	var raw struct {
		Score       float64 `json:"score"`
		Explanation string  `json:"explanation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Score = clampScore(raw.Score)
	s.Explanation = raw.Explanation
	return nil
}

// clampScore bounds v before rounding so huge values cannot overflow int.
func clampScore(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(math.Round(v))
}

type Scores struct {
	Compliance     ScoreDetail `json:"compliance"`
	Thumbnail      ScoreDetail `json:"thumbnail"`
	Title          ScoreDetail `json:"title"`
	Description    ScoreDetail `json:"description"`
	SEOOpportunity ScoreDetail `json:"seoOpportunity"`
}

// Issue is a flagged risk. Severity is conventionally low, medium or high.
type Issue struct {
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Evidence string `json:"evidence"`
	Fix      string `json:"fix"`
}

type Keyword struct {
	Phrase     string `json:"phrase"`
	Intent     string `json:"intent"`
	Difficulty string `json:"difficulty"`
}

type ThumbnailVariant struct {
	ID        string `json:"id"`
	Rationale string `json:"rationale"`
}

type Recommendations struct {
	Titles            []string           `json:"titles"`
	Description       string             `json:"description"`
	Hashtags          []string           `json:"hashtags"`
	Keywords          []Keyword          `json:"keywords"`
	ThumbnailVariants []ThumbnailVariant `json:"thumbnailVariants"`
}

// AnalysisResult is the validated output of one analysis call.
type AnalysisResult struct {
	Scores          Scores          `json:"scores"`
	Issues          []Issue         `json:"issues"`
	Recommendations Recommendations `json:"recommendations"`
}

// OverallScore is the mean of the five dimensions rounded to the nearest integer.
func (r *AnalysisResult) OverallScore() int {
	sum := r.Scores.Compliance.Score +
		r.Scores.Thumbnail.Score +
		r.Scores.Title.Score +
		r.Scores.Description.Score +
		r.Scores.SEOOpportunity.Score
	return int(math.Round(float64(sum) / 5))
}

const (
	VerdictSafe   = "safe"
	VerdictReview = "review"
)

// Verdict is "safe" above an overall score of 80, "review" otherwise.
func (r *AnalysisResult) Verdict() string {
	if r.OverallScore() > 80 {
		return VerdictSafe
	}
	return VerdictReview
}

// Normalize replaces nil slices with empty ones so encoded results always carry arrays.
func (r *AnalysisResult) Normalize() {
	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	rec := &r.Recommendations
	if rec.Titles == nil {
		rec.Titles = []string{}
	}
	if rec.Hashtags == nil {
		rec.Hashtags = []string{}
	}
	if rec.Keywords == nil {
		rec.Keywords = []Keyword{}
	}
	if rec.ThumbnailVariants == nil {
		rec.ThumbnailVariants = []ThumbnailVariant{}
	}
}

type AnalyzeResponse struct {
	Result       *AnalysisResult `json:"result"`
	OverallScore int             `json:"overallScore"`
	Verdict      string          `json:"verdict"`
	Sessions     []*Session      `json:"sessions"`
}
