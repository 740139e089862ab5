package domain

import "testing"

func TestIsValidRobotID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"3f2504e0-4f89-41d3-9a0c-0305e82c3301", true},
		{"3F2504E0-4F89-41D3-9A0C-0305E82C3301", true},
		{"invalid", false},
		{"3f2504e04f8941d39a0c0305e82c3301", false},
		{"", false},
	}

	for _, tt := range tests {
		if IsValidRobotID(tt.id) != tt.valid {
			t.Errorf("IsValidRobotID(%s) = %v; want %v", tt.id, IsValidRobotID(tt.id), tt.valid)
		}
	}
}

func TestIsValidPercentage(t *testing.T) {
	if !IsValidPercentage(0) || !IsValidPercentage(100) {
		t.Error("bounds should be valid")
	}
	if IsValidPercentage(-0.1) || IsValidPercentage(100.1) {
		t.Error("out of range values should be invalid")
	}
}
