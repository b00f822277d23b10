package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event categories accepted by the API. Kept in sync with the
// binding tag on Event.Category and EventUpdate.Category.
const (
	CategoryConference = "Conference"
	CategoryWorkshop   = "Workshop"
	CategorySeminar    = "Seminar"
	CategorySocial     = "Social"
	CategoryOther      = "Other"
)

type Event struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title           string               `bson:"title" json:"title"`
	Description     string               `bson:"description" json:"description"`
	Location        string               `bson:"location" json:"location"`
	Date            time.Time            `bson:"date" json:"date"`
	Time            string               `bson:"time" json:"time"`
	Capacity        int                  `bson:"capacity" json:"capacity"`
	Price           float64              `bson:"price" json:"price"`
	Organizer       primitive.ObjectID   `bson:"organizer" json:"organizer"`
	RegisteredUsers []primitive.ObjectID `bson:"registeredUsers" json:"registeredUsers"`
	Category        string               `bson:"category" json:"category"`
	Image           string               `bson:"image" json:"image"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
}

// EventCreate is the creation payload. Price is a pointer so an
// absent key is rejected while an explicit 0 (a free event) passes.
type EventCreate struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,min=1"`
	Price       *float64  `json:"price" binding:"required,min=0"`
	Category    string    `json:"category" binding:"required,oneof=Conference Workshop Seminar Social Other"`
	Image       string    `json:"image"`
}

// Event builds the document: ownership and membership are
// server-assigned, never taken from the payload.
func (p EventCreate) Event(organizer primitive.ObjectID) Event {
	return Event{
		Title:           p.Title,
		Description:     p.Description,
		Location:        p.Location,
		Date:            p.Date,
		Time:            p.Time,
		Capacity:        p.Capacity,
		Price:           *p.Price,
		Organizer:       organizer,
		RegisteredUsers: []primitive.ObjectID{},
		Category:        p.Category,
		Image:           p.Image,
	}
}

// EventUpdate is a partial update: only keys present in the request
// overwrite existing fields. Organizer, registeredUsers and createdAt
// are not updatable.
type EventUpdate struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
	Location    *string    `json:"location" binding:"omitempty,min=1"`
	Date        *time.Time `json:"date"`
	Time        *string    `json:"time" binding:"omitempty,min=1"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1"`
	Price       *float64   `json:"price" binding:"omitempty,min=0"`
	Category    *string    `json:"category" binding:"omitempty,oneof=Conference Workshop Seminar Social Other"`
	Image       *string    `json:"image"`
}

// Apply copies the present fields onto e.
func (u EventUpdate) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Time != nil {
		e.Time = *u.Time
	}
	if u.Capacity != nil {
		e.Capacity = *u.Capacity
	}
	if u.Price != nil {
		e.Price = *u.Price
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Image != nil {
		e.Image = *u.Image
	}
}
