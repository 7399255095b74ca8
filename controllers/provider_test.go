package controllers

import "testing"

func TestClampPagination(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 10, 1, 10},
		{3, 25, 3, 25},
		{0, 0, 1, 10}, // non-numeric query values parse to zero
		{-2, -5, 1, 10},
		{2, 100, 2, 100},
		{2, 500, 2, 10},
	}
	for _, tc := range cases {
		page, limit := clampPagination(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("clampPagination(%d, %d) = %d, %d, want %d, %d",
				tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
