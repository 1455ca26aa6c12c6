package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Weights controls the relative importance of each scoring dimension.
type Weights struct {
	Price    float64
	Rating   float64
	Reviews  float64
	Delivery float64
}

// DefaultWeights favors price, then rating, with reviews and delivery
// splitting the remainder.
func DefaultWeights() Weights {
	return Weights{
		Price:    0.35,
		Rating:   0.25,
		Reviews:  0.20,
		Delivery: 0.20,
	}
}

// RecommendationEngine scores offers across price, rating, review volume,
// and delivery speed, then ranks by the requested criteria.
type RecommendationEngine struct {
	Weights Weights
}

// NewRecommendationEngine constructs an engine with default weights.
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{Weights: DefaultWeights()}
}

// Rank annotates each offer with its parsed quantity, computes normalized
// scores across the candidate set, sorts by the criteria, and truncates to
// limit.
func (e *RecommendationEngine) Rank(offers []Offer, sortBy SortCriteria, limit int) []Offer {
	if limit <= 0 {
		limit = 5
	}

	ranked := make([]Offer, len(offers))
	copy(ranked, offers)
	for i := range ranked {
		o := &ranked[i]
		if o.NormalizedQuantity <= 0 {
			qty, unit := ExtractQuantity(o.Title)
			o.Quantity = qty
			o.QuantityUnit = unit
			o.NormalizedQuantity = NormalizeQuantity(qty, unit)
		}
		if o.NormalizedQuantity > 0 {
			o.PricePerUnit = o.Price / o.NormalizedQuantity
		} else {
			o.PricePerUnit = o.Price
		}
	}

	e.score(ranked)

	switch sortBy {
	case SortPriceLowToHigh:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Price < ranked[j].Price })
	case SortPriceHighToLow:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Price > ranked[j].Price })
	case SortRatingHighToLow:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rating > ranked[j].Rating })
	case SortReviewsHighToLow:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ReviewCount > ranked[j].ReviewCount })
	case SortDeliveryFastest:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].DeliveryDays < ranked[j].DeliveryDays })
	default:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].OverallScore > ranked[j].OverallScore })
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// score fills the per-dimension scores using min-max normalization over the
// candidate set. Price and delivery are inverted so lower is better; review
// volume uses log scaling so huge counts do not drown out ratings.
func (e *RecommendationEngine) score(offers []Offer) {
	if len(offers) == 0 {
		return
	}

	priceMin, priceMax := math.Inf(1), math.Inf(-1)
	ratingMin, ratingMax := math.Inf(1), math.Inf(-1)
	reviewMax := 0
	deliveryMin, deliveryMax := math.MaxInt32, 0

	for _, o := range offers {
		if o.Price > 0 {
			priceMin = math.Min(priceMin, o.Price)
			priceMax = math.Max(priceMax, o.Price)
		}
		ratingMin = math.Min(ratingMin, o.Rating)
		ratingMax = math.Max(ratingMax, o.Rating)
		if o.ReviewCount > reviewMax {
			reviewMax = o.ReviewCount
		}
		if o.DeliveryDays < deliveryMin {
			deliveryMin = o.DeliveryDays
		}
		if o.DeliveryDays > deliveryMax {
			deliveryMax = o.DeliveryDays
		}
	}

	for i := range offers {
		o := &offers[i]

		if priceMax > priceMin {
			o.PriceScore = 1 - (o.Price-priceMin)/(priceMax-priceMin)
		} else {
			o.PriceScore = 1
		}

		if ratingMax > ratingMin {
			o.RatingScore = (o.Rating - ratingMin) / (ratingMax - ratingMin)
		} else {
			o.RatingScore = 1
		}

		if reviewMax > 0 {
			o.ReviewScore = math.Log(float64(o.ReviewCount)+1) / math.Log(float64(reviewMax)+1)
		} else {
			o.ReviewScore = 1
		}

		if deliveryMax > deliveryMin {
			o.DeliveryScore = 1 - float64(o.DeliveryDays-deliveryMin)/float64(deliveryMax-deliveryMin)
		} else {
			o.DeliveryScore = 1
		}

		o.OverallScore = o.PriceScore*e.Weights.Price +
			o.RatingScore*e.Weights.Rating +
			o.ReviewScore*e.Weights.Reviews +
			o.DeliveryScore*e.Weights.Delivery
	}
}

// Reason summarizes why an offer ranked where it did.
func Reason(rank int, o Offer) string {
	parts := make([]string, 0, 2)
	switch {
	case o.PriceScore > 0.7:
		parts = append(parts, "excellent price")
	case o.PriceScore > 0.5:
		parts = append(parts, "good value")
	}
	switch {
	case o.RatingScore > 0.8:
		parts = append(parts, "high customer rating")
	case o.RatingScore > 0.6:
		parts = append(parts, "good reviews")
	}
	if len(parts) < 2 {
		switch {
		case o.DeliveryScore > 0.8:
			parts = append(parts, "fast delivery")
		case o.DeliveryScore > 0.6:
			parts = append(parts, "reasonable delivery")
		}
	}
	if len(parts) < 2 && o.ReviewScore > 0.7 {
		parts = append(parts, "well-reviewed")
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	if len(parts) == 0 {
		return fmt.Sprintf("#%d balanced option", rank)
	}
	return fmt.Sprintf("#%d choice for %s", rank, strings.Join(parts, ", "))
}
