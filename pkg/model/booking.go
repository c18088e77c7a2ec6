package model

import "time"

// Booking statuses. Only pending and confirmed bookings occupy time.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ActiveStatuses are the statuses that block other bookings from the same
// time range.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// AllowedStatusTransitions encodes the admission state machine:
// pending -> confirmed -> {completed | cancelled | no_show}. Leaving an
// occupying status frees the interval for future queries but never
// retroactively invalidates the booking.
var AllowedStatusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// Booking is a confirmed-or-pending reservation of one time range for one
// provider (and optionally one staff member).
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	EmployeeID  string    `json:"employee_id,omitempty" bson:"employee_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID  string    `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ServiceName string    `json:"service_name" bson:"service_name" validate:"required,min=2,max=100"`
	Date        string    `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,clock"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,clock"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed cancelled no_show"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// IsActive reports whether the booking currently occupies its time range.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo reports whether the admission state machine allows moving
// the booking to the given status.
func (b *Booking) CanTransitionTo(status string) bool {
	for _, allowed := range AllowedStatusTransitions[b.Status] {
		if allowed == status {
			return true
		}
	}
	return false
}

// BookingLock is an advisory lock serializing booking admission for one
// owner/employee/day. Insertion with a duplicate key means another request
// holds the slot; the TTL index on ExpiresAt reaps abandoned locks.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
