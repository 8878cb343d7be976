// Package rsvp validates and records guest attendance answers. The
// engine is stateless between requests; everything it knows lives in
// the database it is handed.
package rsvp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"weddinvite/src-server/invite"
	"weddinvite/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	maxNameLen    = 50
	maxAttendees  = 10
	maxPhoneLen   = 20
	maxMessageLen = 200
)

// SubmitRequest is the guest-facing submission body. ResponderName may
// be left empty when attending; the first attendee name then stands in
// for it.
type SubmitRequest struct {
	ResponderName string   `json:"responderName"`
	IsAttending   bool     `json:"isAttending"`
	TotalCount    int      `json:"totalCount"`
	AttendeeNames []string `json:"attendeeNames"`
	PhoneNumber   string   `json:"phoneNumber,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// Receipt is what a guest gets back after submitting.
type Receipt struct {
	ID            string    `json:"id"`
	ResponderName string    `json:"responderName"`
	IsAttending   bool      `json:"isAttending"`
	TotalCount    int       `json:"totalCount"`
	AttendeeNames []string  `json:"attendeeNames"`
	SubmittedAt   time.Time `json:"submittedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Engine struct {
	db *bun.DB
}

func NewEngine(db *bun.DB) *Engine {
	return &Engine{db: db}
}

// Submit records or overwrites the attendance answer for the group
// behind uniqueCode. Resubmitting under the same trimmed responder name
// updates the existing row in place; it never creates a second one,
// even when two identical submissions race (the storage-level unique
// index on the dedup key collapses the loser into an update).
func (e *Engine) Submit(ctx context.Context, uniqueCode string, req SubmitRequest) (*Receipt, error) {
	group := new(model.InvitationGroup)
	if err := e.db.NewSelect().
		Model(group).
		Where("unique_code = ?", uniqueCode).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("(*Engine).Submit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("(*Engine).Submit: can't resolve group: %w", err)
	}

	if !invite.RsvpAllowed(group) {
		return nil, fmt.Errorf("(*Engine).Submit: %w", ErrForbidden)
	}

	normalized, err := normalize(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	responseModel := &model.RsvpResponse{
		ID:            uuid.NewString(),
		GroupID:       group.ID,
		ResponderName: normalized.ResponderName,
		IsAttending:   normalized.IsAttending,
		TotalCount:    normalized.TotalCount,
		AttendeeNames: normalized.AttendeeNames,
		PhoneNumber:   normalized.PhoneNumber,
		Message:       normalized.Message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := responseModel.Upsert(ctx, e.db); err != nil {
		return nil, err
	}

	// re-read so the receipt carries the surviving row's id and
	// created_at when the upsert landed on an existing row
	stored := new(model.RsvpResponse)
	if err := e.db.NewSelect().
		Model(stored).
		Where("group_id = ?", group.ID).
		Where("responder_name = ?", normalized.ResponderName).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Engine).Submit: can't read back response: %w", err)
	}

	return receiptFrom(stored), nil
}

func receiptFrom(r *model.RsvpResponse) *Receipt {
	names := r.AttendeeNames
	if names == nil {
		names = []string{}
	}
	return &Receipt{
		ID:            r.ID,
		ResponderName: r.ResponderName,
		IsAttending:   r.IsAttending,
		TotalCount:    r.TotalCount,
		AttendeeNames: names,
		SubmittedAt:   r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// normalize trims and validates the request. Nothing may be written
// before every rule here has passed.
func normalize(req SubmitRequest) (SubmitRequest, error) {
	out := req
	out.AttendeeNames = make([]string, 0, len(req.AttendeeNames))
	for _, name := range req.AttendeeNames {
		out.AttendeeNames = append(out.AttendeeNames, strings.TrimSpace(name))
	}

	out.ResponderName = strings.TrimSpace(req.ResponderName)
	if out.ResponderName == "" && len(out.AttendeeNames) > 0 {
		out.ResponderName = out.AttendeeNames[0]
	}

	switch {
	case out.ResponderName == "":
		return out, validationErr("responder name is required")
	case len([]rune(out.ResponderName)) > maxNameLen:
		return out, validationErr("responder name must be at most %d characters", maxNameLen)
	}

	if out.IsAttending {
		switch {
		case out.TotalCount < 1:
			return out, validationErr("attending requires at least one person")
		case out.TotalCount > maxAttendees:
			return out, validationErr("at most %d attendees per response", maxAttendees)
		case out.TotalCount != len(out.AttendeeNames):
			return out, validationErr("attendee names must match the attendee count")
		}
		for _, name := range out.AttendeeNames {
			switch {
			case name == "":
				return out, validationErr("attendee names must not be empty")
			case len([]rune(name)) > maxNameLen:
				return out, validationErr("attendee names must be at most %d characters", maxNameLen)
			}
		}
	} else {
		if out.TotalCount != 0 || len(out.AttendeeNames) != 0 {
			return out, validationErr("a declining response must not list attendees")
		}
	}

	out.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if len([]rune(out.PhoneNumber)) > maxPhoneLen {
		return out, validationErr("phone number must be at most %d characters", maxPhoneLen)
	}
	if len([]rune(out.Message)) > maxMessageLen {
		return out, validationErr("message must be at most %d characters", maxMessageLen)
	}

	return out, nil
}
