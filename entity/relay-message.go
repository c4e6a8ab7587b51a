package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelayMessage is one archived leg of a relayed conversation.
type RelayMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID   string             `json:"event_id" bson:"event_id"`
	Direction string             `json:"direction" bson:"direction"` // "incoming" | "outgoing"
	Number    string             `json:"number" bson:"number"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
