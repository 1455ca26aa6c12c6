package pricing

import (
	"math"
	"strings"
	"testing"
)

func rankFixture() []Offer {
	return []Offer{
		{Title: "Cheap slow", Price: 100, Rating: 3.6, ReviewCount: 20, DeliveryDays: 5, Source: "shopclues"},
		{Title: "Premium fast", Price: 400, Rating: 4.8, ReviewCount: 900, DeliveryDays: 1, Source: "amazon"},
		{Title: "Middle ground", Price: 250, Rating: 4.2, ReviewCount: 300, DeliveryDays: 2, Source: "flipkart"},
	}
}

func TestRankByPriceAscending(t *testing.T) {
	engine := NewRecommendationEngine()
	ranked := engine.Rank(rankFixture(), SortPriceLowToHigh, 5)

	if len(ranked) != 3 {
		t.Fatalf("len = %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Price < ranked[i-1].Price {
			t.Fatalf("not sorted by price: %v then %v", ranked[i-1].Price, ranked[i].Price)
		}
	}
}

func TestRankByRecommendationScoresEveryDimension(t *testing.T) {
	engine := NewRecommendationEngine()
	ranked := engine.Rank(rankFixture(), SortRecommendationScore, 5)

	for _, o := range ranked {
		if o.OverallScore < 0 || o.OverallScore > 1 {
			t.Fatalf("score out of range: %+v", o)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].OverallScore > ranked[i-1].OverallScore {
			t.Fatalf("not sorted by score: %v then %v", ranked[i-1].OverallScore, ranked[i].OverallScore)
		}
	}

	// The cheapest offer gets the full price score, the priciest gets zero.
	var cheapest, priciest Offer
	for _, o := range ranked {
		switch o.Price {
		case 100:
			cheapest = o
		case 400:
			priciest = o
		}
	}
	if cheapest.PriceScore != 1 || priciest.PriceScore != 0 {
		t.Fatalf("price scores = %v, %v", cheapest.PriceScore, priciest.PriceScore)
	}
}

func TestRankComputesPricePerUnit(t *testing.T) {
	engine := NewRecommendationEngine()
	ranked := engine.Rank([]Offer{{Title: "Detergent 500ml", Price: 250}}, SortRecommendationScore, 5)

	if got := ranked[0].PricePerUnit; math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("price per unit = %v, want 0.5", got)
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	offers := make([]Offer, 8)
	for i := range offers {
		offers[i] = Offer{Title: "Item", Price: float64(100 + i)}
	}
	ranked := NewRecommendationEngine().Rank(offers, SortRecommendationScore, 3)
	if len(ranked) != 3 {
		t.Fatalf("len = %d, want 3", len(ranked))
	}
}

func TestRankSingleOfferGetsFullScores(t *testing.T) {
	ranked := NewRecommendationEngine().Rank([]Offer{{Title: "Only one", Price: 99, Rating: 4.0, ReviewCount: 10, DeliveryDays: 2}}, SortRecommendationScore, 5)
	o := ranked[0]
	if o.PriceScore != 1 || o.RatingScore != 1 || o.DeliveryScore != 1 {
		t.Fatalf("scores = %+v", o)
	}
}

func TestReasonNamesStrengths(t *testing.T) {
	r := Reason(1, Offer{PriceScore: 0.9, RatingScore: 0.9})
	if !strings.Contains(r, "#1") || !strings.Contains(r, "excellent price") || !strings.Contains(r, "high customer rating") {
		t.Fatalf("reason = %q", r)
	}

	if got := Reason(3, Offer{}); got != "#3 balanced option" {
		t.Fatalf("reason = %q", got)
	}
}

func TestParseSortCriteriaDefaultsToRecommended(t *testing.T) {
	if got := ParseSortCriteria("price_asc"); got != SortPriceLowToHigh {
		t.Fatalf("got %q", got)
	}
	if got := ParseSortCriteria("nonsense"); got != SortRecommendationScore {
		t.Fatalf("got %q", got)
	}
	if got := ParseSortCriteria(""); got != SortRecommendationScore {
		t.Fatalf("got %q", got)
	}
}
