// Package scorecard builds the ward's monthly service-quality report.
package scorecard

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidPeriod is returned for a month outside 1..12 or a non-positive year.
var ErrInvalidPeriod = errors.New("scorecard: invalid period")

const (
	ranking     = "69/168"
	trendPoints = 5
	maxTotal    = 100.0
)

// Criterion is one scored line of the report.
type Criterion struct {
	ID       int     `json:"id"`
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Total    float64 `json:"total"`
	Status   string  `json:"status,omitempty"`
	IsRating bool    `json:"is_rating,omitempty"`
}

// TrendPoint is one month on the trend chart.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Report is the scorecard for one month.
type Report struct {
	Year       int          `json:"year"`
	Month      int          `json:"month"`
	TotalScore float64      `json:"total_score"`
	StatusText string       `json:"status_text"`
	Ranking    string       `json:"ranking"`
	Criteria   []Criterion  `json:"criteria"`
	Trend      []TrendPoint `json:"trend"`
}

// pseudoRandom derives a stable value in [min, max+1) from seed. Fractional
// bounds shift the integer grid rather than narrowing it.
func pseudoRandom(seed int, min, max float64) float64 {
	x := math.Sin(float64(seed)) * 10000
	r := x - math.Floor(x)
	return math.Floor(r*(max-min+1)) + min
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Build computes the report for year and month. The same period always
// yields the same report.
func Build(year, month int) (Report, error) {
	if month < 1 || month > 12 || year <= 0 {
		return Report{}, fmt.Errorf("%w: %d/%d", ErrInvalidPeriod, month, year)
	}
	seed := year*1000 + month

	criteria := []Criterion{
		{ID: 1, Label: "Công khai, Minh bạch", Score: pseudoRandom(seed+1, 18, 18), Total: 18, Status: "Hoàn thành 100%"},
		{ID: 2, Label: "Tiến độ giải quyết", Score: pseudoRandom(seed+2, 19.91, 20), Total: 20,
			Status: fmt.Sprintf("Sớm hạn trên %.0f%%", pseudoRandom(seed+2, 98, 100))},
		{ID: 3, Label: "Dịch vụ trực tuyến", Score: pseudoRandom(seed+3, 19.09, 20), Total: 22,
			Status: fmt.Sprintf("DV công: %.0f%%", pseudoRandom(seed+3, 90, 95))},
		{ID: 4, Label: "Mức độ hài lòng", Score: round1(pseudoRandom(seed+4, 170, 180) / 10), Total: 18, IsRating: true},
		{ID: 5, Label: "Số hóa hồ sơ", Score: pseudoRandom(seed+5, 18.35, 22), Total: 22, Status: "Hoàn thành 100%"},
	}

	var sum float64
	for _, c := range criteria {
		sum += c.Score
	}
	total := round1(math.Min(sum, maxTotal))

	trend := make([]TrendPoint, trendPoints)
	for i := range trend {
		back := trendPoints - 1 - i
		m := (month-back-1+12)%12 + 1
		value := total
		if back > 0 {
			value = pseudoRandom(seed-back*7, 85, 95)
		}
		trend[i] = TrendPoint{Label: fmt.Sprintf("T%d", m), Value: value}
	}

	return Report{
		Year:       year,
		Month:      month,
		TotalScore: total,
		StatusText: StatusText(total),
		Ranking:    ranking,
		Criteria:   criteria,
		Trend:      trend,
	}, nil
}

// BuildFor computes the report for the month containing t.
func BuildFor(t time.Time) Report {
	r, _ := Build(t.Year(), int(t.Month()))
	return r
}

// StatusText grades a total score.
func StatusText(score float64) string {
	switch {
	case score == 0:
		return "Chưa có dữ liệu"
	case score >= 95:
		return "Xuất sắc"
	case score >= 90:
		return "Tốt"
	default:
		return "Khá"
	}
}
