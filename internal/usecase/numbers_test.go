package usecase

import "testing"

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		token string
		want  int
		ok    bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"0", 0, true},
		{"two", 2, true},
		{"Seven", 7, true},
		{"twelve", 12, true},
		{"twenty-five", 25, true},
		{"twenty five", 25, true},
		{"two hundred", 200, true},
		{"one hundred and five", 105, true},
		{"three thousand", 3000, true},
		{"hundred", 100, true},
		{"widget", 0, false},
		{"1,000", 0, false},
		{"and", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseQuantity(tt.token)
			if ok != tt.ok {
				t.Fatalf("ParseQuantity(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseQuantity(%q) = %d, want %d", tt.token, got, tt.want)
			}
		})
	}
}
