package handler

import "github.com/ReyWins/happeningnow-news-core/internal/model"

type NewsResponse struct {
	Sections []model.Section `json:"sections"`
	Meta     map[string]any  `json:"meta,omitempty"`
	Debug    DebugResponse   `json:"debug"`
}

type DebugResponse struct {
	Q          string   `json:"q"`
	Invalid    bool     `json:"invalid,omitempty"`
	Categories []string `json:"categories,omitempty"`
	FullURL    string   `json:"fullUrl,omitempty"`
}

type CategoryResponse struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	Default  bool     `json:"default"`
}

type CategoriesResponse struct {
	Categories  []CategoryResponse `json:"categories"`
	DefaultIDs  []string           `json:"defaultIds"`
	MaxSelected int                `json:"maxSelected"`
}

type ProbeResponse struct {
	Adapter   string          `json:"adapter"`
	Q         string          `json:"q"`
	Count     int             `json:"count"`
	ElapsedMs int64           `json:"elapsedMs"`
	Sections  []model.Section `json:"sections"`
}
