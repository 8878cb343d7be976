package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"weddinvite/src-server/invite"
	"weddinvite/src-server/model"
	"weddinvite/src-server/utils"

	"github.com/google/uuid"
)

// how many times group creation retries a fresh access code when the
// generated one collides; with 128-bit codes one retry is already
// paranoia
const codeInsertAttempts = 3

func AdminGroups(muxer *http.ServeMux, as *utils.AppState) {
	type CreateGroupReqBody struct {
		GroupName       string `json:"groupName"`
		GroupType       string `json:"groupType"`
		GreetingMessage string `json:"greetingMessage"`
		UniqueCode      string `json:"uniqueCode"`
	}

	// create a group; the access code is generated unless a custom one
	// is supplied
	muxer.HandleFunc("POST /api/admin/groups", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody CreateGroupReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			groupName := strings.TrimSpace(reqBody.GroupName)
			if groupName == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Group name is required"))
				return
			}
			if _, err := invite.ParseGroupType(reqBody.GroupType); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid group type"))
				return
			}

			newGroup := model.InvitationGroup{
				ID:              uuid.NewString(),
				GroupName:       groupName,
				GroupType:       reqBody.GroupType,
				GreetingMessage: reqBody.GreetingMessage,
			}

			customCode := strings.TrimSpace(reqBody.UniqueCode)
			for attempt := 0; attempt < codeInsertAttempts; attempt++ {
				if customCode != "" {
					newGroup.UniqueCode = customCode
				} else {
					code, err := invite.GenerateCode()
					if err != nil {
						w.WriteHeader(http.StatusInternalServerError)
						w.Write([]byte("Can't generate access code"))
						slog.Error("can't generate access code", "error", err)
						return
					}
					newGroup.UniqueCode = code
				}

				startTimer := time.Now()
				_, err := as.BunDB.
					NewInsert().
					Model(&newGroup).
					Exec(r.Context())
				if err == nil {
					as.MetricChans.ObserveDatabaseWrite(float64(time.Since(startTimer).Microseconds()))
					break
				}
				if !model.IsUniqueViolation(err) {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Can't create group"))
					slog.Error("can't create group", "error", err)
					return
				}

				// figure out which unique column complained
				nameTaken, checkErr := as.BunDB.
					NewSelect().
					Model((*model.InvitationGroup)(nil)).
					Where("group_name = ?", groupName).
					Exists(r.Context())
				if checkErr != nil {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Can't create group"))
					slog.Error("can't check group name", "error", checkErr)
					return
				}
				if nameTaken {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte("Group name already exists"))
					return
				}
				if customCode != "" {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte("Access code already exists"))
					return
				}
				if attempt == codeInsertAttempts-1 {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte("Can't allocate an access code"))
					return
				}
				slog.Warn("generated access code collided, retrying", "attempt", attempt+1)
			}

			respBodyJson, err := json.Marshal(newGroup)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write(respBodyJson)
		}))

	type GroupWithStats struct {
		model.InvitationGroup
		TotalResponses     int `json:"totalResponses"`
		AttendingResponses int `json:"attendingResponses"`
	}

	type GroupsListRespBody struct {
		TotalGroups int              `json:"totalGroups"`
		Groups      []GroupWithStats `json:"groups"`
	}

	muxer.HandleFunc("GET /api/admin/groups", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			groupModels := make([]model.InvitationGroup, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&groupModels).
				Order("group_name").
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get groups"))
				slog.Error("can't get groups", "error", err)
				return
			}

			groups := make([]GroupWithStats, 0, len(groupModels))
			for _, groupModel := range groupModels {
				total, err := as.BunDB.
					NewSelect().
					Model((*model.RsvpResponse)(nil)).
					Where("group_id = ?", groupModel.ID).
					Count(r.Context())
				if err != nil {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Can't count responses"))
					slog.Error("can't count responses", "error", err)
					return
				}
				attending, err := as.BunDB.
					NewSelect().
					Model((*model.RsvpResponse)(nil)).
					Where("group_id = ?", groupModel.ID).
					Where("is_attending = ?", true).
					Count(r.Context())
				if err != nil {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Can't count attending responses"))
					slog.Error("can't count attending responses", "error", err)
					return
				}
				groups = append(groups, GroupWithStats{
					InvitationGroup:    groupModel,
					TotalResponses:     total,
					AttendingResponses: attending,
				})
			}

			respBodyJson, err := json.Marshal(GroupsListRespBody{
				TotalGroups: len(groups),
				Groups:      groups,
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type GroupStatistics struct {
		TotalResponses int `json:"totalResponses"`
		AttendingCount int `json:"attendingCount"`
		TotalPeople    int `json:"totalPeople"`
	}

	type GroupDetailRespBody struct {
		Group      model.InvitationGroup `json:"group"`
		Responses  []model.RsvpResponse  `json:"responses"`
		Statistics GroupStatistics       `json:"statistics"`
	}

	muxer.HandleFunc("GET /api/admin/groups/{group_id}", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			groupID := r.PathValue("group_id")
			w.Header().Set("Content-Type", "application/json")

			groupModel := new(model.InvitationGroup)
			if err := as.BunDB.
				NewSelect().
				Model(groupModel).
				Where("id = ?", groupID).
				Scan(r.Context()); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					w.WriteHeader(http.StatusNotFound)
					w.Write([]byte("Group not found"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get group"))
				slog.Error("can't get group", "error", err)
				return
			}

			responseModels := make([]model.RsvpResponse, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&responseModels).
				Where("group_id = ?", groupID).
				Order("created_at").
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get responses"))
				slog.Error("can't get responses", "error", err)
				return
			}

			stats := GroupStatistics{TotalResponses: len(responseModels)}
			for _, responseModel := range responseModels {
				if responseModel.IsAttending {
					stats.AttendingCount++
					stats.TotalPeople += responseModel.TotalCount
				}
			}

			respBodyJson, err := json.Marshal(GroupDetailRespBody{
				Group:      *groupModel,
				Responses:  responseModels,
				Statistics: stats,
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type UpdateGroupReqBody struct {
		GroupName       *string `json:"groupName"`
		GreetingMessage *string `json:"greetingMessage"`
		UniqueCode      *string `json:"uniqueCode"`

		ShowVenueInfo       *bool `json:"showVenueInfo"`
		ShowShareButton     *bool `json:"showShareButton"`
		ShowCeremonyProgram *bool `json:"showCeremonyProgram"`
		ShowRsvpForm        *bool `json:"showRsvpForm"`
		ShowAccountInfo     *bool `json:"showAccountInfo"`
		ShowPhotoGallery    *bool `json:"showPhotoGallery"`
	}

	// update a group; the group type is immutable and not accepted here
	muxer.HandleFunc("PUT /api/admin/groups/{group_id}", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			groupID := r.PathValue("group_id")
			w.Header().Set("Content-Type", "application/json")

			var reqBody UpdateGroupReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			groupModel := new(model.InvitationGroup)
			if err := as.BunDB.
				NewSelect().
				Model(groupModel).
				Where("id = ?", groupID).
				Scan(r.Context()); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					w.WriteHeader(http.StatusNotFound)
					w.Write([]byte("Group not found"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get group"))
				slog.Error("can't get group", "error", err)
				return
			}

			if reqBody.GroupName != nil {
				groupName := strings.TrimSpace(*reqBody.GroupName)
				if groupName == "" {
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte("Group name must not be empty"))
					return
				}
				groupModel.GroupName = groupName
			}
			if reqBody.GreetingMessage != nil {
				groupModel.GreetingMessage = *reqBody.GreetingMessage
			}
			if reqBody.UniqueCode != nil {
				uniqueCode := strings.TrimSpace(*reqBody.UniqueCode)
				if uniqueCode == "" {
					// explicit rotation request: mint a fresh code
					code, err := invite.GenerateCode()
					if err != nil {
						w.WriteHeader(http.StatusInternalServerError)
						w.Write([]byte("Can't generate access code"))
						return
					}
					uniqueCode = code
				}
				groupModel.UniqueCode = uniqueCode
			}
			if reqBody.ShowVenueInfo != nil {
				groupModel.ShowVenueInfo = reqBody.ShowVenueInfo
			}
			if reqBody.ShowShareButton != nil {
				groupModel.ShowShareButton = reqBody.ShowShareButton
			}
			if reqBody.ShowCeremonyProgram != nil {
				groupModel.ShowCeremonyProgram = reqBody.ShowCeremonyProgram
			}
			if reqBody.ShowRsvpForm != nil {
				groupModel.ShowRsvpForm = reqBody.ShowRsvpForm
			}
			if reqBody.ShowAccountInfo != nil {
				groupModel.ShowAccountInfo = reqBody.ShowAccountInfo
			}
			if reqBody.ShowPhotoGallery != nil {
				groupModel.ShowPhotoGallery = reqBody.ShowPhotoGallery
			}

			if err := groupModel.Upsert(r.Context(), as.BunDB); err != nil {
				if model.IsUniqueViolation(err) {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte("Group name or access code already exists"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't update group"))
				slog.Error("can't update group", "error", err)
				return
			}

			respBodyJson, err := json.Marshal(groupModel)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// delete a group and its responses; refuses when responses exist
	// unless ?force=true
	muxer.HandleFunc("DELETE /api/admin/groups/{group_id}", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			groupID := r.PathValue("group_id")

			exists, err := as.BunDB.
				NewSelect().
				Model((*model.InvitationGroup)(nil)).
				Where("id = ?", groupID).
				Exists(r.Context())
			switch {
			case err != nil:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't check if group exists"))
				slog.Error("can't check if group exists", "error", err)
				return
			case !exists:
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Group not found"))
				return
			}

			responseCount, err := as.BunDB.
				NewSelect().
				Model((*model.RsvpResponse)(nil)).
				Where("group_id = ?", groupID).
				Count(r.Context())
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't count responses"))
				slog.Error("can't count responses", "error", err)
				return
			}
			if responseCount > 0 && r.URL.Query().Get("force") != "true" {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte("Group still has responses, add ?force=true to delete them too"))
				return
			}

			if _, err := as.BunDB.
				NewDelete().
				Model((*model.RsvpResponse)(nil)).
				Where("group_id = ?", groupID).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete responses"))
				slog.Error("can't delete responses", "error", err)
				return
			}
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.InvitationGroup)(nil)).
				Where("id = ?", groupID).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete group"))
				slog.Error("can't delete group", "error", err)
				return
			}

			w.WriteHeader(http.StatusNoContent)
		}))
}
