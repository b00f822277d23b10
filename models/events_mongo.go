package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEventRepo struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) EventRepository {
	return &mongoEventRepo{col: col}
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (r *mongoEventRepo) GetAll() ([]Event, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (r *mongoEventRepo) GetByID(id primitive.ObjectID) (Event, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var e Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, err
	}
	return e, nil
}

func (r *mongoEventRepo) Create(e *Event) error {
	ctx, cancel := opCtx()
	defer cancel()

	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.RegisteredUsers == nil {
		e.RegisteredUsers = []primitive.ObjectID{}
	}
	e.CreatedAt = time.Now().UTC()

	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *mongoEventRepo) Update(id primitive.ObjectID, u EventUpdate) error {
	ctx, cancel := opCtx()
	defer cancel()

	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Date != nil {
		set["date"] = *u.Date
	}
	if u.Time != nil {
		set["time"] = *u.Time
	}
	if u.Capacity != nil {
		set["capacity"] = *u.Capacity
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if len(set) == 0 {
		// Empty patch; still report unknown ids.
		if err := r.col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrEventNotFound
			}
			return err
		}
		return nil
	}

	filter := bson.M{"_id": id}
	if u.Capacity != nil {
		// Capacity may never drop below the registrant count already
		// on the document when the write lands.
		filter["$expr"] = bson.M{
			"$gte": bson.A{*u.Capacity, bson.M{"$size": "$registeredUsers"}},
		}
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := r.col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrEventNotFound
			}
			return err
		}
		return ErrCapacityTooSmall
	}
	return nil
}

func (r *mongoEventRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

// AddRegistrant performs the capacity and duplicate checks and the
// append in one conditional update, so two concurrent registrations
// cannot both pass the capacity check.
func (r *mongoEventRepo) AddRegistrant(eventID, userID primitive.ObjectID) error {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{
		"_id":             eventID,
		"registeredUsers": bson.M{"$ne": userID},
		"$expr": bson.M{
			"$lt": bson.A{bson.M{"$size": "$registeredUsers"}, "$capacity"},
		},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"registeredUsers": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.classifyAddFailure(ctx, eventID, userID)
	}
	return nil
}

// The guarded update matched nothing; re-read to report which rule
// rejected it. The re-read is diagnostic and best-effort: it races
// concurrent writes, so a "full" verdict may describe a list that has
// since freed a seat. It never writes.
func (r *mongoEventRepo) classifyAddFailure(ctx context.Context, eventID, userID primitive.ObjectID) error {
	var e Event
	if err := r.col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEventNotFound
		}
		return err
	}
	for _, id := range e.RegisteredUsers {
		if id == userID {
			return ErrAlreadyRegistered
		}
	}
	return ErrEventFull
}

func (r *mongoEventRepo) RemoveRegistrant(eventID, userID primitive.ObjectID) error {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"_id": eventID, "registeredUsers": userID}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"registeredUsers": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the event is gone or the caller never registered.
		if err := r.col.FindOne(ctx, bson.M{"_id": eventID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrEventNotFound
			}
			return err
		}
		return ErrNotRegistered
	}
	return nil
}
