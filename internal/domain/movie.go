package domain

import (
	"math"
	"time"
)

// Rating bounds enforced by the store's CHECK constraint.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// Movie is a catalog entry. Genre is free text compared by exact equality.
type Movie struct {
	ID        int64     `json:"movie_id"`
	Name      string    `json:"movie_name"`
	Genre     string    `json:"genre"`
	Rating    float64   `json:"ratings"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRating reports whether r is within bounds with at most one decimal place.
func ValidRating(r float64) bool {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return false
	}
	return math.Abs(r*10-math.Round(r*10)) < 1e-9
}

// MovieWithPopularity is a recommendation item: a movie plus its like count.
type MovieWithPopularity struct {
	ID        int64   `json:"movie_id"`
	Name      string  `json:"movie_name"`
	Genre     string  `json:"genre"`
	Rating    float64 `json:"ratings"`
	LikeCount int     `json:"like_count"`
}

// RanksAbove reports whether m sorts strictly before o: more likes first, then higher rating.
func (m MovieWithPopularity) RanksAbove(o MovieWithPopularity) bool {
	if m.LikeCount != o.LikeCount {
		return m.LikeCount > o.LikeCount
	}
	return m.Rating > o.Rating
}
