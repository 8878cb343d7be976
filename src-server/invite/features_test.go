package invite_test

import (
	"testing"

	"weddinvite/src-server/invite"
	"weddinvite/src-server/model"
)

func boolPtr(b bool) *bool { return &b }

func TestDefaultFeatures(t *testing.T) {
	// case: wedding guests see everything except share button and
	// account info
	func() {
		flags := invite.DefaultFeatures(invite.GROUP_TYPE_WEDDING_GUEST)
		want := invite.FeatureFlags{
			ShowVenueInfo:       true,
			ShowCeremonyProgram: true,
			ShowRsvpForm:        true,
			ShowPhotoGallery:    true,
		}
		if flags != want {
			t.Error("unexpected wedding guest defaults", flags)
		}
	}()

	// case: parents' guests get share button and account info instead
	func() {
		flags := invite.DefaultFeatures(invite.GROUP_TYPE_PARENTS_GUEST)
		want := invite.FeatureFlags{
			ShowShareButton:  true,
			ShowAccountInfo:  true,
			ShowPhotoGallery: true,
		}
		if flags != want {
			t.Error("unexpected parents guest defaults", flags)
		}
	}()

	// case: company guests only get the gallery
	func() {
		flags := invite.DefaultFeatures(invite.GROUP_TYPE_COMPANY_GUEST)
		want := invite.FeatureFlags{ShowPhotoGallery: true}
		if flags != want {
			t.Error("unexpected company guest defaults", flags)
		}
	}()
}

func TestResolveFeatures(t *testing.T) {
	// case: nil overrides keep the type defaults
	func() {
		group := &model.InvitationGroup{GroupType: "WEDDING_GUEST"}
		if invite.ResolveFeatures(group) != invite.DefaultFeatures(invite.GROUP_TYPE_WEDDING_GUEST) {
			t.Error("nil overrides should resolve to defaults")
		}
	}()

	// case: every field can be flipped both ways independently
	func() {
		group := &model.InvitationGroup{
			GroupType:           "COMPANY_GUEST",
			ShowVenueInfo:       boolPtr(true),
			ShowShareButton:     boolPtr(true),
			ShowCeremonyProgram: boolPtr(true),
			ShowRsvpForm:        boolPtr(true),
			ShowAccountInfo:     boolPtr(true),
			ShowPhotoGallery:    boolPtr(false),
		}
		flags := invite.ResolveFeatures(group)
		want := invite.FeatureFlags{
			ShowVenueInfo:       true,
			ShowShareButton:     true,
			ShowCeremonyProgram: true,
			ShowRsvpForm:        true,
			ShowAccountInfo:     true,
			ShowPhotoGallery:    false,
		}
		if flags != want {
			t.Error("overrides not applied", flags)
		}
	}()

	// case: unknown stored type resolves with company defaults
	func() {
		group := &model.InvitationGroup{GroupType: "SOMETHING_ELSE"}
		if invite.ResolveFeatures(group) != invite.DefaultFeatures(invite.GROUP_TYPE_COMPANY_GUEST) {
			t.Error("unknown type should fall back to company defaults")
		}
	}()

	// case: exhaustive sweep, every type against every override combination
	func() {
		types := []invite.GroupType{
			invite.GROUP_TYPE_WEDDING_GUEST,
			invite.GROUP_TYPE_PARENTS_GUEST,
			invite.GROUP_TYPE_COMPANY_GUEST,
		}
		for _, groupType := range types {
			defaults := invite.DefaultFeatures(groupType)
			// 3 states per field: no override, force on, force off
			pow3 := []int{1, 3, 9, 27, 81, 243}
			ptr := func(mask int, field int) *bool {
				switch (mask / pow3[field]) % 3 {
				case 1:
					return boolPtr(true)
				case 2:
					return boolPtr(false)
				}
				return nil
			}
			pick := func(fallback bool, override *bool) bool {
				if override != nil {
					return *override
				}
				return fallback
			}
			for mask := 0; mask < 3*3*3*3*3*3; mask++ {
				group := &model.InvitationGroup{
					GroupType:           string(groupType),
					ShowVenueInfo:       ptr(mask, 0),
					ShowShareButton:     ptr(mask, 1),
					ShowCeremonyProgram: ptr(mask, 2),
					ShowRsvpForm:        ptr(mask, 3),
					ShowAccountInfo:     ptr(mask, 4),
					ShowPhotoGallery:    ptr(mask, 5),
				}
				want := invite.FeatureFlags{
					ShowVenueInfo:       pick(defaults.ShowVenueInfo, group.ShowVenueInfo),
					ShowShareButton:     pick(defaults.ShowShareButton, group.ShowShareButton),
					ShowCeremonyProgram: pick(defaults.ShowCeremonyProgram, group.ShowCeremonyProgram),
					ShowRsvpForm:        pick(defaults.ShowRsvpForm, group.ShowRsvpForm),
					ShowAccountInfo:     pick(defaults.ShowAccountInfo, group.ShowAccountInfo),
					ShowPhotoGallery:    pick(defaults.ShowPhotoGallery, group.ShowPhotoGallery),
				}
				if got := invite.ResolveFeatures(group); got != want {
					t.Error("override resolution mismatch", groupType, mask, got, want)
				}
			}
		}
	}()
}

func TestRsvpAllowed(t *testing.T) {
	// case: wedding guest group with default flags may submit
	func() {
		group := &model.InvitationGroup{GroupType: "WEDDING_GUEST"}
		if !invite.RsvpAllowed(group) {
			t.Error("wedding guest should be allowed to rsvp")
		}
	}()

	// case: flag off blocks even a wedding guest group
	func() {
		group := &model.InvitationGroup{
			GroupType:    "WEDDING_GUEST",
			ShowRsvpForm: boolPtr(false),
		}
		if invite.RsvpAllowed(group) {
			t.Error("rsvp form override off should block submission")
		}
	}()

	// case: non-wedding group stays blocked even with the flag forced on
	func() {
		group := &model.InvitationGroup{
			GroupType:    "COMPANY_GUEST",
			ShowRsvpForm: boolPtr(true),
		}
		if invite.RsvpAllowed(group) {
			t.Error("company guest must never submit, flag or not")
		}
	}()

	// case: unknown type counts as non-wedding
	func() {
		group := &model.InvitationGroup{
			GroupType:    "WEDDING_GUESTS",
			ShowRsvpForm: boolPtr(true),
		}
		if invite.RsvpAllowed(group) {
			t.Error("unknown type must not be allowed to rsvp")
		}
	}()
}

func TestParseGroupType(t *testing.T) {
	// case: the three known tags parse
	for _, tag := range []string{"WEDDING_GUEST", "PARENTS_GUEST", "COMPANY_GUEST"} {
		if _, err := invite.ParseGroupType(tag); err != nil {
			t.Error("known tag should parse", tag, err)
		}
	}

	// case: anything else is rejected
	for _, tag := range []string{"", "wedding_guest", "FAMILY", "WEDDING_GUEST "} {
		if _, err := invite.ParseGroupType(tag); err == nil {
			t.Error("unknown tag should not parse", tag)
		}
	}
}
