package match

import "testing"

func TestLookupSizeStandard_ResolutionOrder(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		wantType      SizeStandardType
		wantThreshold float64
	}{
		{
			name:          "exact match software",
			code:          "541511",
			wantType:      StandardRevenue,
			wantThreshold: 32500000,
		},
		{
			name:          "three digit prefix",
			code:          "541999",
			wantType:      StandardRevenue,
			wantThreshold: 19000000,
		},
		{
			name:          "two digit prefix manufacturing",
			code:          "339999",
			wantType:      StandardEmployees,
			wantThreshold: 500,
		},
		{
			name:          "unknown code falls back to default",
			code:          "999999",
			wantType:      StandardRevenue,
			wantThreshold: 8500000,
		},
		{
			name:          "empty code falls back to default",
			code:          "",
			wantType:      StandardRevenue,
			wantThreshold: 8500000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := LookupSizeStandard(tt.code)
			if std.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, std.Type)
			}
			if std.Threshold != tt.wantThreshold {
				t.Errorf("expected threshold %.0f, got %.0f", tt.wantThreshold, std.Threshold)
			}
		})
	}
}

func TestLookupSizeStandard_ExactBeatsPrefix(t *testing.T) {
	// 541330 (engineering) has its own standard distinct from the 541 prefix.
	exact := LookupSizeStandard("541330")
	prefix := LookupSizeStandard("541000")
	if exact.Threshold == prefix.Threshold {
		t.Fatalf("expected exact code to override prefix, both resolved to %.0f", exact.Threshold)
	}
}
