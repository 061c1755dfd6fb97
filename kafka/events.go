package kafka

import "time"

// ProductAddedEvent is emitted after a product has been added to an order
type ProductAddedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	OrderID        uint      `json:"order_id"`
	NomenclatureID uint      `json:"nomenclature_id"`
	Delta          int       `json:"delta"`
	Amount         int       `json:"amount"`
	Price          float64   `json:"price"`
	LineCreated    bool      `json:"line_created"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductAdded = "order.product_added"
)

// Kafka topics
const (
	TopicProductAdded = "order-product-added"
)
