package geo

import (
	"math"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected Polyline
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: Polyline{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: Polyline{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decode(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d points, got %d", len(tt.expected), len(result))
			}

			for i, p := range result {
				if !pointsEqual(p, tt.expected[i], 0.001) {
					t.Errorf("point %d: expected %+v, got %+v", i, tt.expected[i], p)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	if result := Decode(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	original := Polyline{
		{Lat: 52.370216, Lon: 4.895168},
		{Lat: 52.372300, Lon: 4.900100},
		{Lat: 52.380000, Lon: 4.910000},
		{Lat: -33.867487, Lon: 151.206990},
	}

	decoded := Decode(Encode(original))
	if len(decoded) != len(original) {
		t.Fatalf("expected %d points after round trip, got %d", len(original), len(decoded))
	}

	for i, p := range decoded {
		if !pointsEqual(p, original[i], 0.00001) {
			t.Errorf("point %d: expected %+v, got %+v", i, original[i], p)
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func pointsEqual(a, b Point, tol float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tol && math.Abs(a.Lon-b.Lon) <= tol
}
