package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gatherly/eventchat/internal/app"
	"github.com/gatherly/eventchat/internal/domain"
)

const messagesCollection = "chat_messages"

// MessageStore appends chat messages to the chat_messages collection.
// Messages outlive the in-memory room they were sent into.
type MessageStore struct {
	col *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{col: db.Collection(messagesCollection)}
}

type messageDoc struct {
	EventID   string    `bson:"eventId"`
	UserID    string    `bson:"userId"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Append writes the message and returns the store-assigned id and the
// server timestamp. The broadcast must not happen before this returns.
func (s *MessageStore) Append(ctx context.Context, eventID domain.EventID, userID domain.UserID, body string) (app.StoredMessage, error) {
	doc := messageDoc{
		EventID:   string(eventID),
		UserID:    string(userID),
		Message:   body,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return app.StoredMessage{}, fmt.Errorf("insert chat message: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return app.StoredMessage{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return app.StoredMessage{MessageID: oid.Hex(), CreatedAt: doc.CreatedAt}, nil
}

// EnsureIndexes sets up the room+time lookup index used by the history
// surface outside this service.
func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}
