package paging

import (
	"net/http/httptest"
	"testing"
)

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		shown int
		want  Range
	}{
		{
			name:  "no results",
			start: 1,
			shown: 0,
			want:  Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1},
		},
		{
			name:  "first page full",
			start: 1,
			shown: PageSize,
			want:  Range{Start: 1, End: PageSize, PrevStart: 1, NextStart: PageSize + 1},
		},
		{
			name:  "first page partial",
			start: 1,
			shown: 10,
			want:  Range{Start: 1, End: 10, PrevStart: 1, NextStart: 11},
		},
		{
			name:  "middle page",
			start: 101,
			shown: 50,
			want:  Range{Start: 101, End: 150, PrevStart: 51, NextStart: 151},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.start, tt.shown)
			if got != tt.want {
				t.Errorf("ComputeRange(%d, %d) = %+v, want %+v", tt.start, tt.shown, got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	rows := make([]int, 25)
	for i := range rows {
		rows[i] = i + 1
	}

	tests := []struct {
		name             string
		start, size      int
		wantFirst        int
		wantLen          int
		wantPrev, wantNx bool
	}{
		{"first page", 1, 10, 1, 10, false, true},
		{"second page", 11, 10, 11, 10, true, true},
		{"last partial page", 21, 10, 21, 5, true, false},
		{"past the end", 40, 10, 0, 0, true, false},
		{"zero size uses default", 1, 0, 1, 25, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, rg := Slice(rows, tt.start, tt.size)
			if len(page) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(page), tt.wantLen)
			}
			if tt.wantLen > 0 && page[0] != tt.wantFirst {
				t.Errorf("first = %d, want %d", page[0], tt.wantFirst)
			}
			if rg.HasPrev != tt.wantPrev || rg.HasNext != tt.wantNx {
				t.Errorf("has prev/next = %v/%v, want %v/%v", rg.HasPrev, rg.HasNext, tt.wantPrev, tt.wantNx)
			}
			if rg.Total != len(rows) {
				t.Errorf("total = %d, want %d", rg.Total, len(rows))
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	rows := make([]int, 700)
	tests := []struct {
		query     string
		wantStart int
		wantLen   int
	}{
		{"", 1, PageSize},
		{"start=abc&size=-2", 1, PageSize},
		{"start=691&size=20", 691, 10},
		{"size=9999", 1, MaxPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/admin/casas?"+tt.query, nil)
		page, rg := FromRequest(r, rows)
		if len(page) != tt.wantLen || rg.Start != tt.wantStart {
			t.Errorf("FromRequest(%q) = len %d start %d, want len %d start %d", tt.query, len(page), rg.Start, tt.wantLen, tt.wantStart)
		}
	}
}
