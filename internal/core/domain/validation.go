package domain

import (
	"github.com/google/uuid"
)

// Validation Helpers

// IsValidRobotID checks that id is a canonical UUID as issued by the generator.
func IsValidRobotID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// IsValidPercentage checks that v lies in [0,100].
func IsValidPercentage(v float64) bool {
	return v >= 0 && v <= 100
}
