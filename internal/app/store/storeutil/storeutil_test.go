package storeutil

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int64
	}{
		{25, 10, 3},
		{20, 10, 2},
		{1, 10, 1},
		{0, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	opts := Paginate(10, 3)
	if opts.Skip == nil || *opts.Skip != 20 {
		t.Errorf("Paginate(10, 3) skip = %v, want 20", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 10 {
		t.Errorf("Paginate(10, 3) limit = %v, want 10", opts.Limit)
	}

	opts = Paginate(0, 0)
	if *opts.Skip != 0 {
		t.Errorf("Paginate(0, 0) skip = %d, want 0", *opts.Skip)
	}
	if *opts.Limit != DefaultLimit {
		t.Errorf("Paginate(0, 0) limit = %d, want %d", *opts.Limit, DefaultLimit)
	}
}
