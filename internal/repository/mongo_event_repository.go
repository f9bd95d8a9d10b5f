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

// eventDocument events collection 的文件格式，event_id 以字串保存
type eventDocument struct {
	EventID      string     `bson:"event_id"`
	Title        string     `bson:"title"`
	Description  string     `bson:"description"`
	Date         time.Time  `bson:"date"`
	Registration *time.Time `bson:"registration,omitempty"`
	Time         *string    `bson:"time,omitempty"`
	Location     *string    `bson:"location,omitempty"`
	ImageRef     *string    `bson:"image_ref,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func newEventDocument(e *model.Event) eventDocument {
	return eventDocument{
		EventID:      e.ID.String(),
		Title:        e.Title,
		Description:  e.Description,
		Date:         e.Date.UTC(),
		Registration: e.Registration,
		Time:         e.Time,
		Location:     e.Location,
		ImageRef:     e.ImageRef,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (d eventDocument) toModel() (*model.Event, error) {
	id, err := uuid.Parse(d.EventID)
	if err != nil {
		return nil, err
	}
	return &model.Event{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		Date:         d.Date,
		Registration: d.Registration,
		Time:         d.Time,
		Location:     d.Location,
		ImageRef:     d.ImageRef,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type MongoEventRepository struct {
	col *mongo.Collection
}

func NewMongoEventRepository(db *mongo.Database) EventRepository {
	return &MongoEventRepository{col: db.Collection(database.EventsCollection)}
}

func (r *MongoEventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	now := time.Now().UTC()
	doc := newEventDocument(event)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, apperrors.Unavailable("create event", err)
	}
	created, err := doc.toModel()
	if err != nil {
		return nil, apperrors.Unavailable("decode event", err)
	}
	return created, nil
}

func (r *MongoEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Unavailable("list events", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Unavailable("decode events", err)
	}

	events := make([]*model.Event, 0, len(docs))
	for _, doc := range docs {
		event, err := doc.toModel()
		if err != nil {
			return nil, apperrors.Unavailable("decode event", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *MongoEventRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	var doc eventDocument
	err := r.col.FindOne(ctx, bson.M{"event_id": eventID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Unavailable("find event", err)
	}
	event, err := doc.toModel()
	if err != nil {
		return nil, apperrors.Unavailable("decode event", err)
	}
	return event, nil
}

func (r *MongoEventRepository) Update(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if params.Title != nil {
		set["title"] = *params.Title
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Date != nil {
		set["date"] = params.Date.UTC()
	}
	if params.Registration != nil {
		set["registration"] = params.Registration.UTC()
	}
	if params.Time != nil {
		set["time"] = *params.Time
	}
	if params.Location != nil {
		set["location"] = *params.Location
	}
	if params.ImageRef != nil {
		set["image_ref"] = *params.ImageRef
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc eventDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"event_id": eventID.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Unavailable("update event", err)
	}
	event, err := doc.toModel()
	if err != nil {
		return nil, apperrors.Unavailable("decode event", err)
	}
	return event, nil
}

func (r *MongoEventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"event_id": eventID.String()})
	if err != nil {
		return apperrors.Unavailable("delete event", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}
