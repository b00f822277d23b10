package routes

import (
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventhub/models"
)

// In-memory repositories mirroring the Mongo contracts, including the
// guarded registrant add/remove semantics.

type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User

	addEventErr    error // force the second write of register to fail
	removeEventErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (m *mockUserRepo) Create(u *models.User) error {
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return models.ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.RegisteredEvents == nil {
		u.RegisteredEvents = []primitive.ObjectID{}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) ValidateCredentials(email, plain string) (models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			// The real repo compares bcrypt hashes; plain compare is
			// enough to drive the handlers.
			if u.Password != plain {
				return models.User{}, models.ErrInvalidCredentials
			}
			return *u, nil
		}
	}
	return models.User{}, models.ErrInvalidCredentials
}

func (m *mockUserRepo) GetByID(id primitive.ObjectID) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return *u, nil
}

func (m *mockUserRepo) GetRefs(ids []primitive.ObjectID) ([]models.UserRef, error) {
	out := []models.UserRef{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return out, nil
}

func (m *mockUserRepo) AddEvent(userID, eventID primitive.ObjectID) error {
	if m.addEventErr != nil {
		return m.addEventErr
	}
	u, ok := m.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	for _, id := range u.RegisteredEvents {
		if id == eventID {
			return nil
		}
	}
	u.RegisteredEvents = append(u.RegisteredEvents, eventID)
	return nil
}

func (m *mockUserRepo) RemoveEvent(userID, eventID primitive.ObjectID) error {
	if m.removeEventErr != nil {
		return m.removeEventErr
	}
	u, ok := m.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	kept := u.RegisteredEvents[:0]
	for _, id := range u.RegisteredEvents {
		if id != eventID {
			kept = append(kept, id)
		}
	}
	u.RegisteredEvents = kept
	return nil
}

func (m *mockUserRepo) RemoveEventFromAll(eventID primitive.ObjectID) error {
	for _, u := range m.users {
		kept := u.RegisteredEvents[:0]
		for _, id := range u.RegisteredEvents {
			if id != eventID {
				kept = append(kept, id)
			}
		}
		u.RegisteredEvents = kept
	}
	return nil
}

type mockEventRepo struct {
	items map[primitive.ObjectID]*models.Event

	getAllErr        error
	addRegistrantErr error // force the compensation write to fail
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{items: map[primitive.ObjectID]*models.Event{}}
}

func (m *mockEventRepo) GetAll() ([]models.Event, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make([]models.Event, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockEventRepo) GetByID(id primitive.ObjectID) (models.Event, error) {
	e, ok := m.items[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	return *e, nil
}

func (m *mockEventRepo) Create(e *models.Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.RegisteredUsers == nil {
		e.RegisteredUsers = []primitive.ObjectID{}
	}
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) Update(id primitive.ObjectID, u models.EventUpdate) error {
	e, ok := m.items[id]
	if !ok {
		return models.ErrEventNotFound
	}
	if u.Capacity != nil && *u.Capacity < len(e.RegisteredUsers) {
		return models.ErrCapacityTooSmall
	}
	u.Apply(e)
	return nil
}

func (m *mockEventRepo) Delete(id primitive.ObjectID) error {
	if _, ok := m.items[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockEventRepo) AddRegistrant(eventID, userID primitive.ObjectID) error {
	if m.addRegistrantErr != nil {
		return m.addRegistrantErr
	}
	e, ok := m.items[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	for _, id := range e.RegisteredUsers {
		if id == userID {
			return models.ErrAlreadyRegistered
		}
	}
	if len(e.RegisteredUsers) >= e.Capacity {
		return models.ErrEventFull
	}
	e.RegisteredUsers = append(e.RegisteredUsers, userID)
	return nil
}

func (m *mockEventRepo) RemoveRegistrant(eventID, userID primitive.ObjectID) error {
	e, ok := m.items[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	for i, id := range e.RegisteredUsers {
		if id == userID {
			e.RegisteredUsers = append(e.RegisteredUsers[:i], e.RegisteredUsers[i+1:]...)
			return nil
		}
	}
	return models.ErrNotRegistered
}

var errBoom = errors.New("boom")
