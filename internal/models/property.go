package models

import "time"

// PropertyRecord is the canonical listing shape shared by every platform
// adapter. Price fields are in manwon (10,000 KRW); Price means sale price,
// jeonse deposit or monthly-rent deposit depending on TradeType. Price 0
// means "no price info", not a free listing.
type PropertyRecord struct {
	ID          string    `json:"id"`
	Platform    string    `json:"platform"`
	Title       string    `json:"title"`
	Building    string    `json:"building,omitempty"`
	Address     string    `json:"address"`
	Price       int       `json:"price"`
	PriceString string    `json:"price_string"`
	MonthlyRent int       `json:"monthly_rent"`
	Area        float64   `json:"area"`
	AreaPyeong  int       `json:"area_pyeong"`
	Floor       string    `json:"floor"`
	Type        string    `json:"type"`
	TradeType   string    `json:"trade_type"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description,omitempty"`
	ConfirmDate string    `json:"confirm_date,omitempty"`
	URL         string    `json:"url"`
	CollectedAt time.Time `json:"collected_at"`

	// Distance is the Euclidean degree distance from the query centroid.
	// Used for provider-side relevance filtering only, never for stats.
	Distance float64 `json:"distance,omitempty"`
}

// PriceRange carries nil sentinels when no record has a positive price;
// a legitimate zero never appears here.
type PriceRange struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
	Avg *int `json:"avg"`
}

// StatsSummary aggregates a listing result set across platforms.
type StatsSummary struct {
	ByPlatform map[string]int `json:"byPlatform"`
	ByType     map[string]int `json:"byType"`
	PriceRange PriceRange     `json:"priceRange"`
}

// ProviderError records one adapter's failure without failing the aggregate.
type ProviderError struct {
	ProviderName string `json:"providerName"`
	Message      string `json:"message"`
}

// AggregateResult is the merged multi-platform search response.
// Errors stays nil (JSON null) when every adapter succeeded.
type AggregateResult struct {
	Query      string           `json:"query"`
	Platforms  []string         `json:"platforms"`
	TotalCount int              `json:"totalCount"`
	Properties []PropertyRecord `json:"properties"`
	Stats      StatsSummary     `json:"stats"`
	Cached     bool             `json:"cached"`
	Timestamp  time.Time        `json:"timestamp"`
	Errors     []ProviderError  `json:"errors"`
}

// SearchResult is the offline-dataset keyword search response.
type SearchResult struct {
	Query      string           `json:"query"`
	TotalCount int              `json:"totalCount"`
	Properties []PropertyRecord `json:"properties"`
	Stats      StatsSummary     `json:"stats"`
}

// GeocodeResult is always a success from the caller's point of view; the
// Source field communicates confidence (naver, backup or default).
type GeocodeResult struct {
	Success      bool    `json:"success"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Radius       int     `json:"radius"`
	Source       string  `json:"source"`
	RoadAddress  string  `json:"roadAddress,omitempty"`
	JibunAddress string  `json:"jibunAddress,omitempty"`
	Note         string  `json:"note,omitempty"`
}
