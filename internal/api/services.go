package api

import (
	"github.com/reelrank/reelrank-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth           *service.AuthService
	Catalog        *service.CatalogService
	Engagement     *service.EngagementService
	Recommendation *service.RecommendationService
}
