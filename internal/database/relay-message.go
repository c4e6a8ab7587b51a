package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ZapRelay/entity"
)

// SaveRelayMessage inserts one relayed leg and trims the archive to the
// newest keepPerUser documents per number.
func (m *MongoDB) SaveRelayMessage(msg entity.RelayMessage) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(relayMessagesCollection)

	_, err = collection.InsertOne(m.ctx, msg)
	if err != nil {
		return fmt.Errorf("mongodb insert relay message: %w", err)
	}

	if m.keepPerUser <= 0 {
		return nil
	}

	filter := bson.D{{Key: "number", Value: msg.Number}}
	count, err := collection.CountDocuments(m.ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb count relay messages: %w", err)
	}

	if count > int64(m.keepPerUser) {
		// Find the oldest document still inside the retention window.
		opts := options.FindOne().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(int64(m.keepPerUser - 1))
		var cutoff entity.RelayMessage
		err = collection.FindOne(m.ctx, filter, opts).Decode(&cutoff)
		if err != nil {
			return fmt.Errorf("mongodb find cutoff message: %w", err)
		}

		deleteFilter := bson.D{
			{Key: "number", Value: msg.Number},
			{Key: "created_at", Value: bson.D{{Key: "$lt", Value: cutoff.CreatedAt}}},
		}
		_, err = collection.DeleteMany(m.ctx, deleteFilter)
		if err != nil {
			return fmt.Errorf("mongodb trim relay messages: %w", err)
		}
	}

	return nil
}

// GetRelayMessages returns archived messages for a number, newest first.
func (m *MongoDB) GetRelayMessages(number string, limit, offset int) ([]entity.RelayMessage, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(relayMessagesCollection)

	filter := bson.D{{Key: "number", Value: number}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(m.ctx)

	var messages []entity.RelayMessage
	if err := cursor.All(m.ctx, &messages); err != nil {
		return nil, fmt.Errorf("mongodb decode relay messages: %w", err)
	}
	return messages, nil
}
