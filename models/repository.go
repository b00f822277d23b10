package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ===== Events =====
type EventRepository interface {
	GetAll() ([]Event, error) // sorted by date ascending
	GetByID(id primitive.ObjectID) (Event, error)
	Create(e *Event) error
	// Update writes only the keys present in u; registeredUsers is
	// never touched, so a registration landing concurrently is not
	// erased. Shrinking capacity below the current registrant count
	// fails with ErrCapacityTooSmall.
	Update(id primitive.ObjectID, u EventUpdate) error
	Delete(id primitive.ObjectID) error

	// AddRegistrant appends userID to the event's registrant list as a
	// single conditional write: it fails with ErrAlreadyRegistered or
	// ErrEventFull without modifying the event. RemoveRegistrant is the
	// inverse, failing with ErrNotRegistered.
	AddRegistrant(eventID, userID primitive.ObjectID) error
	RemoveRegistrant(eventID, userID primitive.ObjectID) error
}

// ===== Users =====
type UserRepository interface {
	Create(u *User) error
	ValidateCredentials(email, plain string) (User, error)
	GetByID(id primitive.ObjectID) (User, error)
	GetRefs(ids []primitive.ObjectID) ([]UserRef, error)

	AddEvent(userID, eventID primitive.ObjectID) error
	RemoveEvent(userID, eventID primitive.ObjectID) error
	// RemoveEventFromAll prunes eventID from every user's
	// registeredEvents; used when an event is deleted.
	RemoveEventFromAll(eventID primitive.ObjectID) error
}
