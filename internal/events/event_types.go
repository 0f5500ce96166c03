package events

import (
	"time"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventUserBanned         EventType = "user_banned"
	EventUserUnbanned       EventType = "user_unbanned"
	EventUserDeleted        EventType = "user_deleted"
	EventProductCreated     EventType = "product_created"
	EventProductApproved    EventType = "product_approved"
	EventProductDisapproved EventType = "product_disapproved"
)

// AllEventTypes lists every event type the services publish.
var AllEventTypes = []EventType{
	EventUserRegistered,
	EventUserBanned,
	EventUserUnbanned,
	EventUserDeleted,
	EventProductCreated,
	EventProductApproved,
	EventProductDisapproved,
}

// Actor identifies who triggered an event. ID is empty for anonymous callers.
type Actor struct {
	ID   string      `json:"id,omitempty"`
	Role domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserPayload describes the account an event refers to.
type UserPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ProductPayload describes the product an event refers to.
type ProductPayload struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// ActorFromIdentity converts a request identity into an event actor.
func ActorFromIdentity(identity *domain.Identity) Actor {
	if identity == nil {
		return Actor{}
	}
	return Actor{ID: identity.UserID, Role: identity.Role}
}
