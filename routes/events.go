package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventhub/models"
)

// eventSummary is a list item: organizer resolved to name/email,
// registrants left as raw ids.
type eventSummary struct {
	models.Event
	Organizer models.UserRef `json:"organizer"`
}

// eventDetail additionally resolves every registrant.
type eventDetail struct {
	models.Event
	Organizer       models.UserRef   `json:"organizer"`
	RegisteredUsers []models.UserRef `json:"registeredUsers"`
}

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return primitive.NilObjectID, false
	}
	return id, true
}

func eventID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		// An id that cannot name a document is an unknown id.
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
		return primitive.NilObjectID, false
	}
	return id, true
}

// canManage: only the organizer or an admin may update/delete.
func canManage(e models.Event, caller primitive.ObjectID, role string) bool {
	return e.Organizer == caller || role == models.RoleAdmin
}

/* -------------------- Events -------------------- */

// GET /events
func (d *deps) getEvents(c *gin.Context) {
	events, err := d.events.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch events. Try again later."})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(events))
	seen := map[primitive.ObjectID]bool{}
	for _, e := range events {
		if !seen[e.Organizer] {
			seen[e.Organizer] = true
			ids = append(ids, e.Organizer)
		}
	}
	refs, err := d.users.GetRefs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch events. Try again later."})
		return
	}
	byID := map[primitive.ObjectID]models.UserRef{}
	for _, r := range refs {
		byID[r.ID] = r
	}

	out := make([]eventSummary, 0, len(events))
	for _, e := range events {
		org := byID[e.Organizer]
		org.ID = e.Organizer
		out = append(out, eventSummary{Event: e, Organizer: org})
	}
	c.JSON(http.StatusOK, out)
}

// GET /events/:id
func (d *deps) getEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := d.events.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch event. Try again later."})
		return
	}

	ids := append([]primitive.ObjectID{event.Organizer}, event.RegisteredUsers...)
	refs, err := d.users.GetRefs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch event. Try again later."})
		return
	}
	byID := map[primitive.ObjectID]models.UserRef{}
	for _, r := range refs {
		byID[r.ID] = r
	}

	org := byID[event.Organizer]
	org.ID = event.Organizer
	regs := make([]models.UserRef, 0, len(event.RegisteredUsers))
	for _, uid := range event.RegisteredUsers {
		ref := byID[uid]
		ref.ID = uid
		regs = append(regs, ref)
	}

	c.JSON(http.StatusOK, eventDetail{Event: event, Organizer: org, RegisteredUsers: regs})
}

// POST /events
func (d *deps) createEvent(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var payload models.EventCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	event := payload.Event(caller)
	if err := d.events.Create(&event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create event. Try again later."})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// PUT /events/:id
func (d *deps) updateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	event, err := d.events.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch the event. Try again later."})
		return
	}
	if !canManage(event, caller, c.GetString("userRole")) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this event."})
		return
	}

	var update models.EventUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	// The patch is applied key by key by the store so a registration
	// landing after the ownership read above is not erased.
	if err := d.events.Update(id, update); err != nil {
		switch {
		case errors.Is(err, models.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
		case errors.Is(err, models.ErrCapacityTooSmall):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Capacity below current registrations."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update event. Try again later."})
		}
		return
	}

	updated, err := d.events.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch the event. Try again later."})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /events/:id
func (d *deps) deleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	event, err := d.events.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch the event. Try again later."})
		return
	}
	if !canManage(event, caller, c.GetString("userRole")) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this event."})
		return
	}

	if err := d.events.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete the event."})
		return
	}
	// Cascade: drop the event from every registrant's list so no
	// dangling references survive the delete.
	if err := d.users.RemoveEventFromAll(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Event deleted, but cleanup failed."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

/* ----------------- Registrations ---------------- */

// POST /events/:id/register
func (d *deps) registerForEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	// Capacity and duplicate checks happen inside this single guarded
	// write; there is no read-then-write window to race through.
	if err := d.events.AddRegistrant(id, caller); err != nil {
		switch {
		case errors.Is(err, models.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
		case errors.Is(err, models.ErrAlreadyRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Already registered for this event."})
		case errors.Is(err, models.ErrEventFull):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Event is full."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not register. Try again later."})
		}
		return
	}

	// Mirror the membership on the user document. The event side is
	// the source of truth; if this write fails, undo it so the two
	// records do not diverge.
	if err := d.users.AddEvent(caller, id); err != nil {
		if rbErr := d.events.RemoveRegistrant(id, caller); rbErr != nil {
			log.Printf("register compensation failed: event=%s user=%s: %v", id.Hex(), caller.Hex(), rbErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not register. Try again later."})
		return
	}

	event, err := d.events.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch event. Try again later."})
		return
	}
	c.JSON(http.StatusOK, event)
}

// POST /events/:id/unregister
func (d *deps) unregisterFromEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	if err := d.events.RemoveRegistrant(id, caller); err != nil {
		switch {
		case errors.Is(err, models.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
		case errors.Is(err, models.ErrNotRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Not registered for this event."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not unregister. Try again later."})
		}
		return
	}

	if err := d.users.RemoveEvent(caller, id); err != nil {
		// The freed seat may already be taken; the divergence is at
		// least recorded.
		if rbErr := d.events.AddRegistrant(id, caller); rbErr != nil {
			log.Printf("unregister compensation failed: event=%s user=%s: %v", id.Hex(), caller.Hex(), rbErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not unregister. Try again later."})
		return
	}

	event, err := d.events.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch event. Try again later."})
		return
	}
	c.JSON(http.StatusOK, event)
}
