package route_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weddinvite/src-server/auth"
	"weddinvite/src-server/model"
	"weddinvite/src-server/route"
	"weddinvite/src-server/utils"

	"github.com/google/uuid"
)

func seedAdminUser(t *testing.T, as *utils.AppState, username, password string) {
	t.Helper()
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	adminModel := model.AdminUser{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         model.ADMIN_ROLE_SUPER_ADMIN,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := as.BunDB.NewInsert().Model(&adminModel).Exec(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func adminMuxer(as *utils.AppState) *http.ServeMux {
	muxer := http.NewServeMux()
	route.AdminAuth(muxer, as)
	route.AdminGroups(muxer, as)
	route.AdminRsvps(muxer, as)
	route.AdminWedding(muxer, as)
	return muxer
}

func loginToken(t *testing.T, muxer *http.ServeMux, username, password string) string {
	t.Helper()
	w := httptest.NewRecorder()
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(payload)))
	if w.Code != http.StatusOK {
		t.Fatal("login failed", w.Code, w.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body.Token
}

func authedReq(method, target, token string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAdminLogin(t *testing.T) {
	as := newTestAppState(t)
	seedAdminUser(t, as, "admin", "correct-horse")
	muxer := adminMuxer(as)

	// case: right credentials issue a token
	token := loginToken(t, muxer, "admin", "correct-horse")
	if token == "" {
		t.Fatal("empty token")
	}

	// case: wrong password
	func() {
		w := httptest.NewRecorder()
		payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "nope"})
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(payload)))
		if w.Code != http.StatusUnauthorized {
			t.Error("unexpected status", w.Code)
		}
	}()

	// case: unknown username gets the same answer as a wrong password
	func() {
		w := httptest.NewRecorder()
		payload, _ := json.Marshal(map[string]string{"username": "ghost", "password": "x"})
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(payload)))
		if w.Code != http.StatusUnauthorized {
			t.Error("unexpected status", w.Code)
		}
	}()

	// case: protected routes reject missing and garbage tokens
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/groups", nil))
		if w.Code != http.StatusUnauthorized {
			t.Error("missing token should be rejected", w.Code)
		}

		w = httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodGet, "/api/admin/groups", "garbage", nil))
		if w.Code != http.StatusUnauthorized {
			t.Error("garbage token should be rejected", w.Code)
		}
	}()

	// case: a valid token opens the protected surface
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodGet, "/api/admin/groups", token, nil))
		if w.Code != http.StatusOK {
			t.Error("unexpected status", w.Code, w.Body.String())
		}
	}()
}

func TestAdminGroupLifecycle(t *testing.T) {
	as := newTestAppState(t)
	seedAdminUser(t, as, "admin", "pw-admin")
	muxer := adminMuxer(as)
	token := loginToken(t, muxer, "admin", "pw-admin")

	// case: create with a generated code
	var created model.InvitationGroup
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPost, "/api/admin/groups", token,
			[]byte(`{"groupName": "college friends", "groupType": "WEDDING_GUEST"}`)))
		if w.Code != http.StatusCreated {
			t.Fatal("unexpected status", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatal(err)
		}
		if len(created.UniqueCode) != 22 {
			t.Error("unexpected generated code", created.UniqueCode)
		}
	}()

	// case: bad group type is rejected up front
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPost, "/api/admin/groups", token,
			[]byte(`{"groupName": "x", "groupType": "BEST_GUEST"}`)))
		if w.Code != http.StatusBadRequest {
			t.Error("unexpected status", w.Code)
		}
	}()

	// case: duplicate name conflicts
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPost, "/api/admin/groups", token,
			[]byte(`{"groupName": "college friends", "groupType": "COMPANY_GUEST"}`)))
		if w.Code != http.StatusConflict {
			t.Error("unexpected status", w.Code, w.Body.String())
		}
	}()

	// case: update flips an override, type stays immutable
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPut, "/api/admin/groups/"+created.ID, token,
			[]byte(`{"showRsvpForm": false, "greetingMessage": "hello there"}`)))
		if w.Code != http.StatusOK {
			t.Fatal("unexpected status", w.Code, w.Body.String())
		}
		var updated model.InvitationGroup
		if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
			t.Fatal(err)
		}
		if updated.ShowRsvpForm == nil || *updated.ShowRsvpForm {
			t.Error("override not applied")
		}
		if updated.GroupType != "WEDDING_GUEST" {
			t.Error("group type must not change", updated.GroupType)
		}
	}()

	// case: delete refuses while responses exist, force wins
	func() {
		responseModel := model.RsvpResponse{
			ID:            uuid.NewString(),
			GroupID:       created.ID,
			ResponderName: "someone",
			IsAttending:   true,
			TotalCount:    1,
			AttendeeNames: model.StringList{"someone"},
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		}
		if err := responseModel.Upsert(context.Background(), as.BunDB); err != nil {
			t.Fatal(err)
		}

		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodDelete, "/api/admin/groups/"+created.ID, token, nil))
		if w.Code != http.StatusConflict {
			t.Error("unexpected status", w.Code)
		}

		w = httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodDelete, "/api/admin/groups/"+created.ID+"?force=true", token, nil))
		if w.Code != http.StatusNoContent {
			t.Error("unexpected status", w.Code, w.Body.String())
		}

		count, err := as.BunDB.NewSelect().
			Model((*model.RsvpResponse)(nil)).
			Where("group_id = ?", created.ID).
			Count(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Error("force delete should remove the responses too", count)
		}
	}()

	// case: operations on a gone group 404
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodGet, "/api/admin/groups/"+created.ID, token, nil))
		if w.Code != http.StatusNotFound {
			t.Error("unexpected status", w.Code)
		}
	}()
}

func TestAdminRsvpSurface(t *testing.T) {
	as := newTestAppState(t)
	seedAdminUser(t, as, "admin", "pw-admin")
	muxer := adminMuxer(as)
	token := loginToken(t, muxer, "admin", "pw-admin")

	group := seedGroup(t, as, "WEDDING_GUEST", "list-code")
	now := time.Now().UTC()
	ids := make([]string, 0, 3)
	for i, name := range []string{"Ahn Dohyun", "Bae Suji", "Cho Eunwoo"} {
		responseModel := model.RsvpResponse{
			ID:            uuid.NewString(),
			GroupID:       group.ID,
			ResponderName: name,
			IsAttending:   i != 2,
			TotalCount:    map[bool]int{true: 2, false: 0}[i != 2],
			AttendeeNames: map[bool]model.StringList{true: {name, "guest"}, false: nil}[i != 2],
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := responseModel.Upsert(context.Background(), as.BunDB); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, responseModel.ID)
	}

	// case: list carries the summary
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodGet, "/api/admin/rsvps", token, nil))
		if w.Code != http.StatusOK {
			t.Fatal("unexpected status", w.Code, w.Body.String())
		}
		var body struct {
			Summary struct {
				TotalResponses int `json:"totalResponses"`
				AttendingCount int `json:"attendingCount"`
				DecliningCount int `json:"decliningCount"`
				TotalPeople    int `json:"totalPeople"`
			} `json:"summary"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Summary.TotalResponses != 3 || body.Summary.AttendingCount != 2 ||
			body.Summary.DecliningCount != 1 || body.Summary.TotalPeople != 4 {
			t.Error("unexpected summary", body.Summary)
		}
	}()

	// case: renaming onto an existing responder conflicts
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPut, "/api/admin/rsvps/"+ids[0], token,
			[]byte(`{"responderName": "Bae Suji"}`)))
		if w.Code != http.StatusConflict {
			t.Error("unexpected status", w.Code, w.Body.String())
		}
	}()

	// case: csv export includes every row
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodGet, "/api/admin/rsvps/export", token, nil))
		if w.Code != http.StatusOK {
			t.Fatal("unexpected status", w.Code)
		}
		if got := w.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
			t.Error("unexpected content type", got)
		}
		lines := bytes.Count(w.Body.Bytes(), []byte("\n"))
		if lines != 4 { // header + 3 rows
			t.Error("unexpected csv line count", lines, w.Body.String())
		}
	}()

	// case: bulk delete reports what it actually removed
	func() {
		payload, _ := json.Marshal(map[string][]string{"ids": {ids[0], ids[1], "no-such-id"}})
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodDelete, "/api/admin/rsvps", token, payload))
		if w.Code != http.StatusOK {
			t.Fatal("unexpected status", w.Code, w.Body.String())
		}
		var body struct {
			Requested int `json:"requested"`
			Deleted   int `json:"deleted"`
			NotFound  int `json:"notFound"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Requested != 3 || body.Deleted != 2 || body.NotFound != 1 {
			t.Error("unexpected bulk result", body)
		}
	}()

	// case: single delete of a gone row 404s
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodDelete, "/api/admin/rsvps/"+ids[0], token, nil))
		if w.Code != http.StatusNotFound {
			t.Error("unexpected status", w.Code)
		}
	}()
}

func TestAdminWeddingInfo(t *testing.T) {
	as := newTestAppState(t)
	seedAdminUser(t, as, "admin", "pw-admin")
	muxer := adminMuxer(as)
	token := loginToken(t, muxer, "admin", "pw-admin")

	// case: nothing stored yet
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodGet, "/api/admin/wedding-info", token, nil))
		if w.Code != http.StatusNotFound {
			t.Error("unexpected status", w.Code)
		}
	}()

	// case: first put creates the singleton
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPut, "/api/admin/wedding-info", token,
			[]byte(`{
				"groomName": "Minsoo",
				"brideName": "Jiyeon",
				"weddingDate": "2026-10-24T13:00:00Z",
				"accountInfo": ["Bank 110-123"]
			}`)))
		if w.Code != http.StatusCreated {
			t.Fatal("unexpected status", w.Code, w.Body.String())
		}
	}()

	// case: a second put updates in place, not a second row
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPut, "/api/admin/wedding-info", token,
			[]byte(`{
				"groomName": "Minsoo",
				"brideName": "Jiyeon",
				"weddingDate": "2026-10-25T13:00:00Z"
			}`)))
		if w.Code != http.StatusOK {
			t.Fatal("unexpected status", w.Code, w.Body.String())
		}
		count, err := as.BunDB.NewSelect().
			Model((*model.WeddingInfo)(nil)).
			Count(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Error("wedding info must stay a singleton", count)
		}
	}()

	// case: a malformed date is rejected
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, authedReq(http.MethodPut, "/api/admin/wedding-info", token,
			[]byte(`{"groomName": "M", "brideName": "J", "weddingDate": "next saturday"}`)))
		if w.Code != http.StatusBadRequest {
			t.Error("unexpected status", w.Code)
		}
	}()
}
