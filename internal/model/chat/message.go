package chat

import "time"

// DeliveryState tracks the lifecycle of a rendered message bubble.
type DeliveryState string

const (
	DeliverySending DeliveryState = "sending"
	DeliverySent    DeliveryState = "sent"
	DeliveryRead    DeliveryState = "read"
)

// Message is one entry in a session transcript. Immutable once created
// except for the sending→sent/read delivery transition.
type Message struct {
	ID            string        `json:"id"`
	Content       string        `json:"content"`
	CreatedAt     time.Time     `json:"createdAt"`
	IsFromUser    bool          `json:"isFromUser"`
	DeliveryState DeliveryState `json:"deliveryState"`
}
