package model

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// StringList stores a slice of strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("StringList.Value: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(raw, l); err != nil {
		return fmt.Errorf("StringList.Scan: %w", err)
	}
	return nil
}

// The shared wedding record. The system assumes exactly one active row;
// admins write it, the guest path only ever reads it and never receives
// it unfiltered (see src-server/invite).
type WeddingInfo struct {
	bun.BaseModel `bun:"table:wedding_infos"`

	ID              string    `bun:"id,pk" json:"id"`
	GroomName       string    `bun:"groom_name,notnull" json:"groomName"`
	BrideName       string    `bun:"bride_name,notnull" json:"brideName"`
	WeddingDate     time.Time `bun:"wedding_date,notnull" json:"weddingDate"`
	GreetingMessage string    `bun:"greeting_message" json:"greetingMessage"`

	VenueName     string `bun:"venue_name" json:"venueName"`
	VenueAddress  string `bun:"venue_address" json:"venueAddress"`
	VenueDetail   string `bun:"venue_detail" json:"venueDetail"`
	KakaoMapUrl   string `bun:"kakao_map_url" json:"kakaoMapUrl"`
	NaverMapUrl   string `bun:"naver_map_url" json:"naverMapUrl"`
	GoogleMapUrl  string `bun:"google_map_url" json:"googleMapUrl"`
	ParkingInfo   string `bun:"parking_info" json:"parkingInfo"`
	TransportInfo string `bun:"transport_info" json:"transportInfo"`

	CeremonyProgram string     `bun:"ceremony_program" json:"ceremonyProgram"`
	AccountInfo     StringList `bun:"account_info,type:text" json:"accountInfo"`
}

func (w *WeddingInfo) Upsert(ctx context.Context, db bun.IDB) error {
	if w.ID == "" {
		return fmt.Errorf("(*WeddingInfo).Upsert: id is required")
	}

	if _, err := db.NewInsert().
		Model(w).
		On("CONFLICT (id) DO UPDATE").
		Set("groom_name = EXCLUDED.groom_name").
		Set("bride_name = EXCLUDED.bride_name").
		Set("wedding_date = EXCLUDED.wedding_date").
		Set("greeting_message = EXCLUDED.greeting_message").
		Set("venue_name = EXCLUDED.venue_name").
		Set("venue_address = EXCLUDED.venue_address").
		Set("venue_detail = EXCLUDED.venue_detail").
		Set("kakao_map_url = EXCLUDED.kakao_map_url").
		Set("naver_map_url = EXCLUDED.naver_map_url").
		Set("google_map_url = EXCLUDED.google_map_url").
		Set("parking_info = EXCLUDED.parking_info").
		Set("transport_info = EXCLUDED.transport_info").
		Set("ceremony_program = EXCLUDED.ceremony_program").
		Set("account_info = EXCLUDED.account_info").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*WeddingInfo).Upsert: %w", err)
	}

	return nil
}
