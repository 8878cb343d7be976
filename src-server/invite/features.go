package invite

import "weddinvite/src-server/model"

// The resolved set of booleans controlling which optional sections of
// the invitation a group may see.
type FeatureFlags struct {
	ShowVenueInfo       bool `json:"showVenueInfo"`
	ShowShareButton     bool `json:"showShareButton"`
	ShowCeremonyProgram bool `json:"showCeremonyProgram"`
	ShowRsvpForm        bool `json:"showRsvpForm"`
	ShowAccountInfo     bool `json:"showAccountInfo"`
	ShowPhotoGallery    bool `json:"showPhotoGallery"`
}

// DefaultFeatures is the static visibility matrix per group type.
// Total over the closed enum; callers decide what an unknown tag means
// (ResolveGroupType maps it to COMPANY_GUEST before ever landing here).
func DefaultFeatures(groupType GroupType) FeatureFlags {
	switch groupType {
	case GROUP_TYPE_WEDDING_GUEST:
		return FeatureFlags{
			ShowVenueInfo:       true,
			ShowCeremonyProgram: true,
			ShowRsvpForm:        true,
			ShowPhotoGallery:    true,
		}
	case GROUP_TYPE_PARENTS_GUEST:
		return FeatureFlags{
			ShowShareButton:  true,
			ShowAccountInfo:  true,
			ShowPhotoGallery: true,
		}
	default: // COMPANY_GUEST
		return FeatureFlags{
			ShowPhotoGallery: true,
		}
	}
}

// ResolveFeatures layers the group's per-field overrides on top of the
// type default. A nil override keeps the table value.
func ResolveFeatures(group *model.InvitationGroup) FeatureFlags {
	flags := DefaultFeatures(ResolveGroupType(group.GroupType))
	override := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	override(&flags.ShowVenueInfo, group.ShowVenueInfo)
	override(&flags.ShowShareButton, group.ShowShareButton)
	override(&flags.ShowCeremonyProgram, group.ShowCeremonyProgram)
	override(&flags.ShowRsvpForm, group.ShowRsvpForm)
	override(&flags.ShowAccountInfo, group.ShowAccountInfo)
	override(&flags.ShowPhotoGallery, group.ShowPhotoGallery)
	return flags
}

// RsvpAllowed is the submission gate: the resolved rsvp-form flag AND
// the wedding-guest type. Two independent checks; the default table
// makes them coincide but per-group overrides can split them.
func RsvpAllowed(group *model.InvitationGroup) bool {
	return ResolveFeatures(group).ShowRsvpForm &&
		ResolveGroupType(group.GroupType) == GROUP_TYPE_WEDDING_GUEST
}
