package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDealChangedEvent_AffectedCategories(t *testing.T) {
	tests := []struct {
		name        string
		event       DealChangedEvent
		expected    []string
		description string
	}{
		{
			name: "update within the same category",
			event: DealChangedEvent{
				EventID:  uuid.New(),
				DealID:   "deal-1",
				Category: "Food & Drink",
				Action:   DealActionUpdated,
			},
			expected:    []string{"Food & Drink"},
			description: "Should return only the current category",
		},
		{
			name: "category moved",
			event: DealChangedEvent{
				EventID:          uuid.New(),
				DealID:           "deal-1",
				Category:         "Food & Drink",
				PreviousCategory: strPtr("Health & Beauty"),
				Action:           DealActionUpdated,
			},
			expected:    []string{"Food & Drink", "Health & Beauty"},
			description: "Should invalidate both old and new categories",
		},
		{
			name: "previous category equals current",
			event: DealChangedEvent{
				EventID:          uuid.New(),
				DealID:           "deal-1",
				Category:         "Food & Drink",
				PreviousCategory: strPtr("Food & Drink"),
				Action:           DealActionUpdated,
			},
			expected:    []string{"Food & Drink"},
			description: "Should not duplicate the category",
		},
		{
			name: "empty previous category",
			event: DealChangedEvent{
				EventID:          uuid.New(),
				DealID:           "deal-1",
				Category:         "Travel",
				PreviousCategory: strPtr(""),
				Action:           DealActionCreated,
			},
			expected:    []string{"Travel"},
			description: "Should ignore empty previous category",
		},
		{
			name: "no categories at all",
			event: DealChangedEvent{
				EventID: uuid.New(),
				DealID:  "deal-1",
				Action:  DealActionDeleted,
			},
			expected:    []string{},
			description: "Should return an empty list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.event.AffectedCategories()
			assert.Equal(t, tt.expected, result, tt.description)
		})
	}
}

// Helper function to create string pointers
func strPtr(s string) *string {
	return &s
}
