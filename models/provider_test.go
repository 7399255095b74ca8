package models

import "testing"

func TestApplyRating(t *testing.T) {
	var p ProviderProfile

	p.ApplyRating(4)
	if p.Rating != 4 || p.RatingCount != 1 {
		t.Fatalf("after first rating: %v (%d reviews)", p.Rating, p.RatingCount)
	}

	p.ApplyRating(2)
	if p.Rating != 3 || p.RatingCount != 2 {
		t.Fatalf("after second rating: %v (%d reviews)", p.Rating, p.RatingCount)
	}

	p.ApplyRating(5)
	if p.RatingCount != 3 {
		t.Fatalf("RatingCount = %d, want 3", p.RatingCount)
	}
	if want := (4.0 + 2.0 + 5.0) / 3.0; p.Rating != want {
		t.Fatalf("Rating = %v, want %v", p.Rating, want)
	}
}
