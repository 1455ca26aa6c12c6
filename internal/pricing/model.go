package pricing

// Offer is one shopping result normalized for ranking.
type Offer struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"reviewCount"`
	DeliveryDays int     `json:"deliveryDays"`
	Source       string  `json:"source"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	ProductURL   string  `json:"productUrl,omitempty"`

	Quantity           float64 `json:"quantity"`
	QuantityUnit       string  `json:"quantityUnit"`
	NormalizedQuantity float64 `json:"-"`
	PricePerUnit       float64 `json:"pricePerUnit"`

	PriceScore    float64 `json:"-"`
	RatingScore   float64 `json:"-"`
	ReviewScore   float64 `json:"-"`
	DeliveryScore float64 `json:"-"`
	OverallScore  float64 `json:"recommendationScore"`
}

// SortCriteria selects the ordering of ranked offers.
type SortCriteria string

const (
	SortPriceLowToHigh      SortCriteria = "price_asc"
	SortPriceHighToLow      SortCriteria = "price_desc"
	SortRatingHighToLow     SortCriteria = "rating_desc"
	SortReviewsHighToLow    SortCriteria = "reviews_desc"
	SortDeliveryFastest     SortCriteria = "delivery_asc"
	SortRecommendationScore SortCriteria = "recommendation_desc"
)

// ParseSortCriteria maps a query value onto a known criteria, defaulting to
// the recommendation score.
func ParseSortCriteria(raw string) SortCriteria {
	switch SortCriteria(raw) {
	case SortPriceLowToHigh, SortPriceHighToLow, SortRatingHighToLow, SortReviewsHighToLow, SortDeliveryFastest, SortRecommendationScore:
		return SortCriteria(raw)
	default:
		return SortRecommendationScore
	}
}
