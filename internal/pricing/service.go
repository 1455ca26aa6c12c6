package pricing

import (
	"context"
	"errors"
)

// ErrNoAPIKey is returned when price comparison is requested without a
// configured search key.
var ErrNoAPIKey = errors.New("price comparison is not configured")

const quantityTolerance = 0.3

// RankedOffer is an offer with its rank explanation.
type RankedOffer struct {
	Offer
	Reason string `json:"reason"`
}

// Searcher finds candidate offers for a product query.
type Searcher interface {
	Search(ctx context.Context, productName, quantity string) ([]Offer, error)
}

// Service compares retail prices for a product across shopping listings.
type Service struct {
	Search Searcher
	Engine *RecommendationEngine
}

// Compare searches for the product, optionally filters by quantity, and
// returns ranked offers.
func (s *Service) Compare(ctx context.Context, productName, quantitySpec string, sortBy SortCriteria, limit int) ([]RankedOffer, error) {
	if s.Search == nil {
		return nil, ErrNoAPIKey
	}
	if productName == "" {
		return nil, errors.New("product name is required")
	}

	offers, err := s.Search.Search(ctx, productName, quantitySpec)
	if err != nil {
		return nil, err
	}

	if qty, unit, ok := ParseQuantitySpec(quantitySpec); ok {
		filtered := FilterByQuantity(offers, qty, unit, quantityTolerance)
		// A too-strict filter that drops everything is worse than showing
		// mismatched sizes.
		if len(filtered) > 0 {
			offers = filtered
		}
	}

	engine := s.Engine
	if engine == nil {
		engine = NewRecommendationEngine()
	}
	ranked := engine.Rank(offers, sortBy, limit)

	out := make([]RankedOffer, 0, len(ranked))
	for i, o := range ranked {
		out = append(out, RankedOffer{Offer: o, Reason: Reason(i+1, o)})
	}
	return out, nil
}
