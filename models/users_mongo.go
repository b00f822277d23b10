package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventhub/utils"
)

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) UserRepository {
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(u *User) error {
	ctx, cancel := opCtx()
	defer cancel()

	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.RegisteredEvents == nil {
		u.RegisteredEvents = []primitive.ObjectID{}
	}

	// Relies on the unique index on email (db.EnsureIndexes).
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *mongoUserRepo) ValidateCredentials(email, plain string) (User, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var u User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !utils.CheckPasswordHash(plain, u.Password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *mongoUserRepo) GetByID(id primitive.ObjectID) (User, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var u User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *mongoUserRepo) GetRefs(ids []primitive.ObjectID) ([]UserRef, error) {
	if len(ids) == 0 {
		return []UserRef{}, nil
	}

	ctx, cancel := opCtx()
	defer cancel()

	proj := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []UserRef{}
	for cur.Next(ctx) {
		var ref UserRef
		if err := cur.Decode(&ref); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, cur.Err()
}

func (r *mongoUserRepo) AddEvent(userID, eventID primitive.ObjectID) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"registeredEvents": eventID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) RemoveEvent(userID, eventID primitive.ObjectID) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"registeredEvents": eventID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) RemoveEventFromAll(eventID primitive.ObjectID) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := r.col.UpdateMany(ctx, bson.M{"registeredEvents": eventID},
		bson.M{"$pull": bson.M{"registeredEvents": eventID}})
	return err
}
