package server

import (
	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/matching"
	"cv-shortlisting-backend/internal/shared/server/respond"
	"cv-shortlisting-backend/internal/skills"
)

// matchingConfigResponse exposes the active keyword criteria so operators
// can verify what a running instance will shortlist against.
type matchingConfigResponse struct {
	Mode      matching.Mode `json:"mode"`
	Threshold int           `json:"threshold"`
	Required  []string      `json:"requiredKeywords"`
	Optional  []string      `json:"optionalKeywords"`
	Excluded  []string      `json:"excludedKeywords"`
}

type taxonomyResponse struct {
	Skills     int                 `json:"skills"`
	Categories map[string][]string `json:"categories"`
}

func registerConfigRoutes(rg *gin.RouterGroup, criteria matching.Config, taxonomy *skills.Taxonomy) {
	rg.GET("/config/matching", func(c *gin.Context) {
		respond.OK(c, matchingConfigResponse{
			Mode:      criteria.Mode,
			Threshold: criteria.Threshold,
			Required:  criteria.Required,
			Optional:  criteria.Optional,
			Excluded:  criteria.Excluded,
		})
	})
	rg.GET("/config/skills", func(c *gin.Context) {
		respond.OK(c, taxonomyResponse{
			Skills:     taxonomy.Size(),
			Categories: taxonomy.Categories(),
		})
	})
}
