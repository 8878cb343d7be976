package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// One named cohort of guests sharing an access code and a
// content-visibility policy. The group type string is validated at
// creation time (invite.ParseGroupType) and never changes afterwards;
// rotating it would rewrite the meaning of past RSVP eligibility.
type InvitationGroup struct {
	bun.BaseModel `bun:"table:invitation_groups"`

	ID              string `bun:"id,pk" json:"id"`
	GroupName       string `bun:"group_name,notnull,unique" json:"groupName"`
	GroupType       string `bun:"group_type,notnull" json:"groupType"`
	UniqueCode      string `bun:"unique_code,notnull,unique" json:"uniqueCode"`
	GreetingMessage string `bun:"greeting_message" json:"greetingMessage"`

	// per-group feature overrides; nil falls back to the type default
	ShowVenueInfo       *bool `bun:"show_venue_info" json:"showVenueInfo,omitempty"`
	ShowShareButton     *bool `bun:"show_share_button" json:"showShareButton,omitempty"`
	ShowCeremonyProgram *bool `bun:"show_ceremony_program" json:"showCeremonyProgram,omitempty"`
	ShowRsvpForm        *bool `bun:"show_rsvp_form" json:"showRsvpForm,omitempty"`
	ShowAccountInfo     *bool `bun:"show_account_info" json:"showAccountInfo,omitempty"`
	ShowPhotoGallery    *bool `bun:"show_photo_gallery" json:"showPhotoGallery,omitempty"`

	Responses []*RsvpResponse `bun:"rel:has-many,join:id=group_id" json:"-"`
}

func (g *InvitationGroup) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case g.ID == "":
		return fmt.Errorf("(*InvitationGroup).Upsert: id is required")
	case g.GroupName == "":
		return fmt.Errorf("(*InvitationGroup).Upsert: group name is required")
	case g.UniqueCode == "":
		return fmt.Errorf("(*InvitationGroup).Upsert: unique code is required")
	}

	// group_type deliberately not in the SET list; it is immutable
	if _, err := db.NewInsert().
		Model(g).
		On("CONFLICT (id) DO UPDATE").
		Set("group_name = EXCLUDED.group_name").
		Set("unique_code = EXCLUDED.unique_code").
		Set("greeting_message = EXCLUDED.greeting_message").
		Set("show_venue_info = EXCLUDED.show_venue_info").
		Set("show_share_button = EXCLUDED.show_share_button").
		Set("show_ceremony_program = EXCLUDED.show_ceremony_program").
		Set("show_rsvp_form = EXCLUDED.show_rsvp_form").
		Set("show_account_info = EXCLUDED.show_account_info").
		Set("show_photo_gallery = EXCLUDED.show_photo_gallery").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*InvitationGroup).Upsert: %w", err)
	}

	return nil
}
