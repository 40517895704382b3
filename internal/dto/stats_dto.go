package dto

import "time"

type CountBucketResponse struct {
	Label string  `json:"label"`
	Color *string `json:"color,omitempty"`
	Count int64   `json:"count"`
}

type RecentPromptResponse struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalPrompts  int64                  `json:"total_prompts"`
	FavoriteCount int64                  `json:"favorite_count"`
	AverageRating float64                `json:"average_rating"`
	TotalUsage    int64                  `json:"total_usage"`
	ByTool        []CountBucketResponse  `json:"by_tool"`
	ByCategory    []CountBucketResponse  `json:"by_category"`
	ByStatus      []CountBucketResponse  `json:"by_status"`
	Recent        []RecentPromptResponse `json:"recent"`
	// Fallback is set when the figures are a zeroed placeholder.
	Fallback bool `json:"fallback"`
}

// EmptyStats is served when aggregation fails.
func EmptyStats() *StatsResponse {
	return &StatsResponse{
		ByTool:     []CountBucketResponse{},
		ByCategory: []CountBucketResponse{},
		ByStatus:   []CountBucketResponse{},
		Recent:     []RecentPromptResponse{},
		Fallback:   true,
	}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
