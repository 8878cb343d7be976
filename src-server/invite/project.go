package invite

import (
	"time"

	"weddinvite/src-server/model"
)

// GuestView is the wire-level projection of the shared wedding record
// for one group. Optional sections are pointers so that a hidden
// section is absent from the JSON entirely; front-ends key whole UI
// blocks off field presence, not emptiness.
type GuestView struct {
	GroupName string `json:"groupName"`
	GroupType string `json:"groupType"`

	GroomName       string    `json:"groomName"`
	BrideName       string    `json:"brideName"`
	WeddingDate     time.Time `json:"weddingDate"`
	GreetingMessage string    `json:"greetingMessage"`

	VenueName     *string `json:"venueName,omitempty"`
	VenueAddress  *string `json:"venueAddress,omitempty"`
	VenueDetail   *string `json:"venueDetail,omitempty"`
	KakaoMapUrl   *string `json:"kakaoMapUrl,omitempty"`
	NaverMapUrl   *string `json:"naverMapUrl,omitempty"`
	GoogleMapUrl  *string `json:"googleMapUrl,omitempty"`
	ParkingInfo   *string `json:"parkingInfo,omitempty"`
	TransportInfo *string `json:"transportInfo,omitempty"`

	CeremonyProgram *string   `json:"ceremonyProgram,omitempty"`
	AccountInfo     *[]string `json:"accountInfo,omitempty"`

	DaysToCeremony int          `json:"daysToCeremony"`
	Features       FeatureFlags `json:"features"`
}

// DaysToCeremony counts whole days from now to the ceremony, truncated
// toward zero. Negative once the wedding is in the past.
func DaysToCeremony(weddingDate time.Time, now time.Time) int {
	return int(weddingDate.Sub(now).Hours() / 24)
}

// Project filters the shared wedding record down to what one group may
// see right now. Pure: same inputs, same output.
//
// Gates, in order of appearance:
//   - venue block: ShowVenueInfo
//   - ceremony program: ShowCeremonyProgram AND within 7 days of the
//     ceremony (the early-disclosure embargo; group flag alone is not
//     enough)
//   - account info: ShowAccountInfo
//   - rsvp form flag: ShowRsvpForm AND the group is a WEDDING_GUEST
//     group (see RsvpAllowed)
func Project(info *model.WeddingInfo, group *model.InvitationGroup, now time.Time) GuestView {
	groupType := ResolveGroupType(group.GroupType)
	flags := ResolveFeatures(group)
	flags.ShowRsvpForm = flags.ShowRsvpForm && groupType == GROUP_TYPE_WEDDING_GUEST
	days := DaysToCeremony(info.WeddingDate, now)

	greeting := group.GreetingMessage
	if greeting == "" {
		greeting = info.GreetingMessage
	}

	view := GuestView{
		GroupName:       group.GroupName,
		GroupType:       string(groupType),
		GroomName:       info.GroomName,
		BrideName:       info.BrideName,
		WeddingDate:     info.WeddingDate,
		GreetingMessage: greeting,
		DaysToCeremony:  days,
		Features:        flags,
	}

	if flags.ShowVenueInfo {
		view.VenueName = &info.VenueName
		view.VenueAddress = &info.VenueAddress
		view.VenueDetail = &info.VenueDetail
		view.KakaoMapUrl = &info.KakaoMapUrl
		view.NaverMapUrl = &info.NaverMapUrl
		view.GoogleMapUrl = &info.GoogleMapUrl
		view.ParkingInfo = &info.ParkingInfo
		view.TransportInfo = &info.TransportInfo
	}

	if flags.ShowCeremonyProgram && days <= 7 {
		view.CeremonyProgram = &info.CeremonyProgram
	}

	if flags.ShowAccountInfo {
		// pointer to a (possibly empty) list: when the section is
		// visible the key must be on the wire even with nothing in it
		accounts := []string(info.AccountInfo)
		if accounts == nil {
			accounts = []string{}
		}
		view.AccountInfo = &accounts
	}

	return view
}
