package heatmap

import "testing"

func TestQuery(t *testing.T) {
	d := sample(t)
	testCases := []struct {
		path string
		want any
	}{
		{"$.headline.records", 21.0},
		{"$.headline.merchants_identified", 52.0},
		{"$.date", "2025-06-10"},
		{"$.regions[1].region", "Europe-Africa"},
		{"$.top_adoption[0].country", "Turkey"},
		{"$.payment_sizes[0].upper", 5.0},
	}
	for _, tc := range testCases {
		got, err := Query(d, tc.path)
		if err != nil {
			t.Errorf("Query(%q) unexpected error: %v", tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Query(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}

	if _, err := Query(d, "$.nope["); err == nil {
		t.Error("Query() with an invalid path should fail")
	}
}
