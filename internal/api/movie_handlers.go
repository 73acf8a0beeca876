package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelrank/reelrank-server/internal/domain"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies",
		Summary:     "List movies",
		Description: "Returns the whole catalog",
		Tags:        []string{"Movies"},
	}, s.handleListMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Get movie",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}/recommendations",
		Summary:     "Recommend similar movies",
		Description: "Returns movies of the same genre, most liked first, then highest rated",
		Tags:        []string{"Movies"},
	}, s.handleGetRecommendations)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/movies/{id}/like",
		Summary:     "Like or unlike a movie",
		Description: "Flips the caller's like on the movie",
		Tags:        []string{"Movies"},
		Security:    bearerAuth,
	}, s.handleToggleLike)
}

// === DTOs ===

// MovieResponse is a catalog entry.
type MovieResponse struct {
	ID        int64     `json:"movie_id" doc:"Movie ID"`
	Name      string    `json:"movie_name" doc:"Title"`
	Genre     string    `json:"genre" doc:"Genre"`
	Rating    float64   `json:"ratings" doc:"Rating between 0 and 10"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// RecommendationResponse is a ranked movie with its like count.
type RecommendationResponse struct {
	ID        int64   `json:"movie_id" doc:"Movie ID"`
	Name      string  `json:"movie_name" doc:"Title"`
	Genre     string  `json:"genre" doc:"Genre"`
	Rating    float64 `json:"ratings" doc:"Rating between 0 and 10"`
	LikeCount int     `json:"like_count" doc:"Number of users who like this movie"`
}

// MovieIDInput identifies a movie by path.
type MovieIDInput struct {
	ID int64 `path:"id" doc:"Movie ID"`
}

// ListMoviesOutput wraps the catalog for Huma.
type ListMoviesOutput struct {
	Body []MovieResponse
}

// MovieOutput wraps a movie for Huma.
type MovieOutput struct {
	Body MovieResponse
}

// RecommendationsInput selects the seed movie and list size.
type RecommendationsInput struct {
	ID    int64 `path:"id" doc:"Seed movie ID"`
	Limit int   `query:"limit" default:"10" doc:"Maximum items; non-positive means 10, capped at 50"`
}

// RecommendationsOutput wraps the ranked list for Huma.
type RecommendationsOutput struct {
	Body []RecommendationResponse
}

// LikeResponse reports the state after a toggle.
type LikeResponse struct {
	MovieID int64  `json:"movie_id" doc:"Movie ID"`
	Outcome string `json:"outcome" enum:"liked,unliked" doc:"Resulting state"`
	Message string `json:"message" doc:"Status message"`
}

// LikeOutput wraps the toggle result for Huma.
type LikeOutput struct {
	Body LikeResponse
}

// === Handlers ===

func (s *Server) handleListMovies(ctx context.Context, _ *struct{}) (*ListMoviesOutput, error) {
	movies, err := s.services.Catalog.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, mapMovie(&movies[i]))
	}
	return &ListMoviesOutput{Body: out}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *MovieIDInput) (*MovieOutput, error) {
	m, err := s.services.Catalog.GetMovie(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: mapMovie(m)}, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, input *RecommendationsInput) (*RecommendationsOutput, error) {
	items, err := s.services.Recommendation.Recommend(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]RecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, RecommendationResponse{
			ID:        it.ID,
			Name:      it.Name,
			Genre:     it.Genre,
			Rating:    it.Rating,
			LikeCount: it.LikeCount,
		})
	}
	return &RecommendationsOutput{Body: out}, nil
}

func (s *Server) handleToggleLike(ctx context.Context, input *MovieIDInput) (*LikeOutput, error) {
	username, err := GetUsername(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := s.services.Engagement.ToggleLike(ctx, username, input.ID)
	if err != nil {
		return nil, err
	}

	return &LikeOutput{Body: LikeResponse{
		MovieID: input.ID,
		Outcome: string(outcome),
		Message: outcome.Message(),
	}}, nil
}

// === Helpers ===

func mapMovie(m *domain.Movie) MovieResponse {
	return MovieResponse{
		ID:        m.ID,
		Name:      m.Name,
		Genre:     m.Genre,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
	}
}
