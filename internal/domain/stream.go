package domain

import "github.com/google/uuid"

// StreamDealsChanged - стрим изменений сделок, публикуемый дашбордом
const StreamDealsChanged = "stream:deals:changed"

// Действия над сделкой
const (
	DealActionCreated = "created"
	DealActionUpdated = "updated"
	DealActionDeleted = "deleted"
)

// DealChangedEvent - событие изменения сделки
type DealChangedEvent struct {
	EventID          uuid.UUID `json:"event_id"`
	DealID           string    `json:"deal_id"`
	Category         string    `json:"category"`
	PreviousCategory *string   `json:"previous_category,omitempty"`
	Action           string    `json:"action"`
}

// AffectedCategories возвращает категории, кеш которых устарел после события
func (e *DealChangedEvent) AffectedCategories() []string {
	categories := make([]string, 0, 2)
	if e.Category != "" {
		categories = append(categories, e.Category)
	}
	if e.PreviousCategory != nil && *e.PreviousCategory != "" && *e.PreviousCategory != e.Category {
		categories = append(categories, *e.PreviousCategory)
	}
	return categories
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
