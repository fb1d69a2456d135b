package repository

import "testing"

func TestChaptersToString(t *testing.T) {
	tests := []struct {
		name     string
		chapters []int
		expected string
	}{
		{
			name:     "empty slice",
			chapters: []int{},
			expected: "",
		},
		{
			name:     "single chapter",
			chapters: []int{1},
			expected: "1",
		},
		{
			name:     "multiple chapters",
			chapters: []int{1, 2, 3},
			expected: "1,2,3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := chaptersToString(tt.chapters)
			if result != tt.expected {
				t.Errorf("chaptersToString() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParseChapterString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single chapter",
			input:    "2",
			expected: []int{2},
		},
		{
			name:     "multiple chapters",
			input:    "1,2,3",
			expected: []int{1, 2, 3},
		},
		{
			name:     "tolerates whitespace",
			input:    "1, 2, 3",
			expected: []int{1, 2, 3},
		},
		{
			name:     "skips malformed entries",
			input:    "1,x,3",
			expected: []int{1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChapterString(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i, n := range result {
				if n != tt.expected[i] {
					t.Errorf("position %d: got %d, want %d", i, n, tt.expected[i])
				}
			}
		})
	}
}
