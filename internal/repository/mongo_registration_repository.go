package repository

import (
	"context"
	"errors"
	"time"

	"campus-event-portal/internal/database"
	"campus-event-portal/internal/model"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type registrationDocument struct {
	RegistrationID string    `bson:"registration_id"`
	EventID        string    `bson:"event_id"`
	UserID         string    `bson:"user_id"`
	UserName       string    `bson:"user_name"`
	UserEmail      string    `bson:"user_email"`
	RegisteredAt   time.Time `bson:"registered_at"`
}

func (d registrationDocument) toModel() (*model.Registration, error) {
	id, err := uuid.Parse(d.RegistrationID)
	if err != nil {
		return nil, err
	}
	eventID, err := uuid.Parse(d.EventID)
	if err != nil {
		return nil, err
	}
	return &model.Registration{
		ID:           id,
		EventID:      eventID,
		UserID:       d.UserID,
		UserName:     d.UserName,
		UserEmail:    d.UserEmail,
		RegisteredAt: d.RegisteredAt,
	}, nil
}

// MongoRegistrationRepository 依賴 (event_id, user_id) 唯一索引，見 database.EnsureMongoIndexes
type MongoRegistrationRepository struct {
	col    *mongo.Collection
	events *mongo.Collection
}

func NewMongoRegistrationRepository(db *mongo.Database) RegistrationRepository {
	return &MongoRegistrationRepository{
		col:    db.Collection(database.RegistrationsCollection),
		events: db.Collection(database.EventsCollection),
	}
}

func (r *MongoRegistrationRepository) Create(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	doc := registrationDocument{
		RegistrationID: registration.ID.String(),
		EventID:        registration.EventID.String(),
		UserID:         registration.UserID,
		UserName:       registration.UserName,
		UserEmail:      registration.UserEmail,
		RegisteredAt:   registration.RegisteredAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, apperrors.Unavailable("create registration", err)
	}
	created, err := doc.toModel()
	if err != nil {
		return nil, apperrors.Unavailable("decode registration", err)
	}
	return created, nil
}

func (r *MongoRegistrationRepository) FindByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*model.Registration, error) {
	var doc registrationDocument
	err := r.col.FindOne(ctx, bson.M{"event_id": eventID.String(), "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperrors.Unavailable("find registration", err)
	}
	registration, err := doc.toModel()
	if err != nil {
		return nil, apperrors.Unavailable("decode registration", err)
	}
	return registration, nil
}

func (r *MongoRegistrationRepository) ListByUserID(ctx context.Context, userID string, includeOrphans bool) ([]*model.Registration, error) {
	registrations, err := r.find(ctx, "list registrations by user", bson.M{"user_id": userID})
	if err != nil || includeOrphans || len(registrations) == 0 {
		return registrations, err
	}

	ids := make([]string, 0, len(registrations))
	for _, reg := range registrations {
		ids = append(ids, reg.EventID.String())
	}
	existing, err := r.events.Distinct(ctx, "event_id", bson.M{"event_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperrors.Unavailable("list registrations by user", err)
	}
	live := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		if s, ok := v.(string); ok {
			live[s] = struct{}{}
		}
	}

	filtered := make([]*model.Registration, 0, len(registrations))
	for _, reg := range registrations {
		if _, ok := live[reg.EventID.String()]; ok {
			filtered = append(filtered, reg)
		}
	}
	return filtered, nil
}

func (r *MongoRegistrationRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	return r.find(ctx, "list registrations by event", bson.M{"event_id": eventID.String()})
}

func (r *MongoRegistrationRepository) find(ctx context.Context, op string, filter bson.M) ([]*model.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Unavailable(op, err)
	}

	var docs []registrationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Unavailable(op, err)
	}

	registrations := make([]*model.Registration, 0, len(docs))
	for _, doc := range docs {
		registration, err := doc.toModel()
		if err != nil {
			return nil, apperrors.Unavailable(op, err)
		}
		registrations = append(registrations, registration)
	}
	return registrations, nil
}

func (r *MongoRegistrationRepository) DeleteByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	result, err := r.col.DeleteMany(ctx, bson.M{"event_id": eventID.String()})
	if err != nil {
		return 0, apperrors.Unavailable("delete registrations", err)
	}
	return result.DeletedCount, nil
}
