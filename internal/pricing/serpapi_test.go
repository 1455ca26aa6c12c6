package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSerpClientSearchNormalizesOffers(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"shopping_results": [
				{"title": "Tide 500ml", "extracted_price": 250.0, "source": "Amazon.in", "rating": 4.3, "reviews": 812, "product_link": "https://example.com/tide"},
				{"title": "Tide 1l", "price": "Rs 480.00", "source": "ShopClues"},
				{"title": "Free sample", "extracted_price": 0, "price": ""}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	client := NewSerpClient("test-key")
	client.BaseURL = srv.URL

	offers, err := client.Search(context.Background(), "Tide Detergent", "500ml")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotQuery["engine"] != "google_shopping" {
		t.Fatalf("engine = %q", gotQuery["engine"])
	}
	if gotQuery["gl"] != "in" || gotQuery["hl"] != "en" {
		t.Fatalf("locale params = %v", gotQuery)
	}
	if want := "Tide Detergent 500ml buy online india"; gotQuery["q"] != want {
		t.Fatalf("q = %q, want %q", gotQuery["q"], want)
	}

	// The zero-price listing is dropped.
	if len(offers) != 2 {
		t.Fatalf("offers = %d, want 2", len(offers))
	}

	first := offers[0]
	if first.Price != 250 || first.Rating != 4.3 || first.ReviewCount != 812 {
		t.Fatalf("first offer = %+v", first)
	}
	if first.DeliveryDays != 1 {
		t.Fatalf("amazon delivery days = %d, want 1", first.DeliveryDays)
	}

	second := offers[1]
	if second.Price != 480 {
		t.Fatalf("parsed price = %v, want 480", second.Price)
	}
	if second.DeliveryDays != 5 {
		t.Fatalf("shopclues delivery days = %d, want 5", second.DeliveryDays)
	}
	// Missing rating data gets deterministic stand-ins.
	if second.Rating < 3.5 || second.Rating > 5.0 {
		t.Fatalf("synthetic rating = %v", second.Rating)
	}
	if second.ReviewCount < 10 {
		t.Fatalf("synthetic reviews = %d", second.ReviewCount)
	}
}

func TestSerpClientSearchPropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Invalid API key"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewSerpClient("bad-key")
	client.BaseURL = srv.URL

	_, err := client.Search(context.Background(), "Tide", "")
	if err == nil || !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("err = %v", err)
	}
}

func TestSerpClientSearchRequiresKey(t *testing.T) {
	client := NewSerpClient("")
	if _, err := client.Search(context.Background(), "Tide", ""); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestSyntheticRatingStaysInRange(t *testing.T) {
	for _, title := range []string{"a", "b", "some very long product title 123"} {
		r := syntheticRating(title)
		if r < 3.5 || r > 5.0 {
			t.Fatalf("rating %v out of range for %q", r, title)
		}
		if syntheticRating(title) != r {
			t.Fatalf("rating not deterministic for %q", title)
		}
	}
}
