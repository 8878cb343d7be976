package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// One attendance answer per (group, responder name). The composite
// unique index is what keeps two racing submissions from producing two
// rows; the insert below turns the losing insert into an update.
type RsvpResponse struct {
	bun.BaseModel `bun:"table:rsvp_responses"`

	ID            string     `bun:"id,pk" json:"id"`
	GroupID       string     `bun:"group_id,notnull,unique:rsvp_group_responder" json:"groupId"`
	ResponderName string     `bun:"responder_name,notnull,unique:rsvp_group_responder" json:"responderName"`
	IsAttending   bool       `bun:"is_attending,notnull" json:"isAttending"`
	TotalCount    int        `bun:"total_count,notnull" json:"totalCount"`
	AttendeeNames StringList `bun:"attendee_names,type:text" json:"attendeeNames"`
	PhoneNumber   string     `bun:"phone_number" json:"phoneNumber,omitempty"`
	Message       string     `bun:"message" json:"message,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull" json:"updatedAt"`

	Group *InvitationGroup `bun:"rel:belongs-to,join:group_id=id" json:"-"`
}

// Upsert inserts the response, or, when a row for the same
// (group_id, responder_name) already exists, overwrites the answer on
// that row while keeping its id and created_at. This is the single
// statement that closes the read-then-write race on the dedup key.
func (r *RsvpResponse) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("(*RsvpResponse).Upsert: id is required")
	case r.GroupID == "":
		return fmt.Errorf("(*RsvpResponse).Upsert: group id is required")
	case r.ResponderName == "":
		return fmt.Errorf("(*RsvpResponse).Upsert: responder name is required")
	}

	if _, err := db.NewInsert().
		Model(r).
		On("CONFLICT (group_id, responder_name) DO UPDATE").
		Set("is_attending = EXCLUDED.is_attending").
		Set("total_count = EXCLUDED.total_count").
		Set("attendee_names = EXCLUDED.attendee_names").
		Set("phone_number = EXCLUDED.phone_number").
		Set("message = EXCLUDED.message").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*RsvpResponse).Upsert: %w", err)
	}

	return nil
}
