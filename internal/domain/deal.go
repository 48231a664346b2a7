package domain

import "time"

// Deal - предложение (акция) мерчанта.
// Ядро поиска конкурентов только читает сделки, никогда не создаёт и не изменяет их.
type Deal struct {
	ID            string         `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	Category      string         `json:"category" db:"category"`
	MerchantID    string         `json:"merchant_id" db:"merchant_id"`
	MerchantName  string         `json:"merchant_name" db:"merchant_name"`
	Price         float64        `json:"price" db:"price"`
	OriginalPrice float64        `json:"original_price" db:"original_price"`
	SoldCount     int            `json:"sold_count" db:"sold_count"`
	Status        string         `json:"status" db:"status"`
	Locations     []DealLocation `json:"locations,omitempty" db:"-"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// DealLocation - адрес мерчанта, в котором действует сделка
type DealLocation struct {
	ID          string    `json:"id" db:"id"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" db:"-"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	IsDraft     bool      `json:"is_draft" db:"is_draft"`
}

// DealCategory - элемент таксономии категорий
type DealCategory struct {
	Name      string `json:"name" db:"name"`
	DealCount int    `json:"deal_count" db:"deal_count"`
}
