package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gatherly/eventchat/internal/domain"
)

const participantsCollection = "event_participants"

// ParticipantStore answers membership questions against the
// event_participants records written by the registration flow.
type ParticipantStore struct {
	col *mongo.Collection
}

func NewParticipantStore(db *mongo.Database) *ParticipantStore {
	return &ParticipantStore{col: db.Collection(participantsCollection)}
}

// Allowed reports whether a participant or organizer record exists for
// the user in this event. No record means denied, not an error.
func (s *ParticipantStore) Allowed(ctx context.Context, userID domain.UserID, eventID domain.EventID) (bool, error) {
	filter := bson.M{"eventId": string(eventID), "userId": string(userID)}
	err := s.col.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find event participant: %w", err)
	}
	return true, nil
}
