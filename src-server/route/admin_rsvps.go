package route

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weddinvite/src-server/model"
	"weddinvite/src-server/utils"

	"github.com/uptrace/bun"
)

func AdminRsvps(muxer *http.ServeMux, as *utils.AppState) {
	type RsvpSummary struct {
		TotalResponses int `json:"totalResponses"`
		AttendingCount int `json:"attendingCount"`
		DecliningCount int `json:"decliningCount"`
		TotalPeople    int `json:"totalPeople"`
	}

	type RsvpWithGroup struct {
		model.RsvpResponse
		GroupName string `json:"groupName"`
	}

	type RsvpListRespBody struct {
		Summary   RsvpSummary     `json:"summary"`
		Responses []RsvpWithGroup `json:"responses"`
	}

	// list every response across groups, newest first, with totals;
	// ?group_id=... narrows to one group
	muxer.HandleFunc("GET /api/admin/rsvps", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			query := as.BunDB.
				NewSelect().
				Model((*model.RsvpResponse)(nil)).
				Relation("Group").
				Order("rsvp_response.created_at DESC")
			if groupID := r.URL.Query().Get("group_id"); groupID != "" {
				query = query.Where("group_id = ?", groupID)
			}

			responseModels := make([]model.RsvpResponse, 0)
			startTimer := time.Now()
			if err := query.Scan(r.Context(), &responseModels); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get responses"))
				slog.Error("can't get responses", "error", err)
				return
			}
			as.MetricChans.ObserveDatabaseRead(float64(time.Since(startTimer).Microseconds()))

			summary := RsvpSummary{TotalResponses: len(responseModels)}
			responses := make([]RsvpWithGroup, 0, len(responseModels))
			for _, responseModel := range responseModels {
				if responseModel.IsAttending {
					summary.AttendingCount++
					summary.TotalPeople += responseModel.TotalCount
				} else {
					summary.DecliningCount++
				}
				groupName := ""
				if responseModel.Group != nil {
					groupName = responseModel.Group.GroupName
				}
				responses = append(responses, RsvpWithGroup{
					RsvpResponse: responseModel,
					GroupName:    groupName,
				})
			}

			respBodyJson, err := json.Marshal(RsvpListRespBody{
				Summary:   summary,
				Responses: responses,
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// CSV export for spreadsheet people; registered before the
	// wildcard route so "export" never matches as an id
	muxer.HandleFunc("GET /api/admin/rsvps/export", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			responseModels := make([]model.RsvpResponse, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&responseModels).
				Relation("Group").
				Order("rsvp_response.created_at").
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get responses"))
				slog.Error("can't get responses", "error", err)
				return
			}

			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="rsvps.csv"`)
			w.WriteHeader(http.StatusOK)

			csvWriter := csv.NewWriter(w)
			csvWriter.Write([]string{
				"group", "responder", "attending", "totalCount",
				"attendeeNames", "phoneNumber", "message", "createdAt", "updatedAt",
			})
			for _, responseModel := range responseModels {
				groupName := ""
				if responseModel.Group != nil {
					groupName = responseModel.Group.GroupName
				}
				csvWriter.Write([]string{
					groupName,
					responseModel.ResponderName,
					strconv.FormatBool(responseModel.IsAttending),
					strconv.Itoa(responseModel.TotalCount),
					strings.Join(responseModel.AttendeeNames, "; "),
					responseModel.PhoneNumber,
					responseModel.Message,
					responseModel.CreatedAt.Format(time.RFC3339),
					responseModel.UpdatedAt.Format(time.RFC3339),
				})
			}
			csvWriter.Flush()
			if err := csvWriter.Error(); err != nil {
				slog.Error("can't write csv export", "error", err)
			}
		}))

	muxer.HandleFunc("GET /api/admin/rsvps/{rsvp_id}", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			rsvpID := r.PathValue("rsvp_id")
			w.Header().Set("Content-Type", "application/json")

			responseModel := new(model.RsvpResponse)
			if err := as.BunDB.
				NewSelect().
				Model(responseModel).
				Relation("Group").
				Where("rsvp_response.id = ?", rsvpID).
				Scan(r.Context()); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					w.WriteHeader(http.StatusNotFound)
					w.Write([]byte("Response not found"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get response"))
				slog.Error("can't get response", "error", err)
				return
			}

			respBodyJson, err := json.Marshal(responseModel)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type UpdateRsvpReqBody struct {
		ResponderName *string   `json:"responderName"`
		IsAttending   *bool     `json:"isAttending"`
		TotalCount    *int      `json:"totalCount"`
		AttendeeNames *[]string `json:"attendeeNames"`
		PhoneNumber   *string   `json:"phoneNumber"`
		Message       *string   `json:"message"`
	}

	muxer.HandleFunc("PUT /api/admin/rsvps/{rsvp_id}", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			rsvpID := r.PathValue("rsvp_id")
			w.Header().Set("Content-Type", "application/json")

			var reqBody UpdateRsvpReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			responseModel := new(model.RsvpResponse)
			if err := as.BunDB.
				NewSelect().
				Model(responseModel).
				Where("id = ?", rsvpID).
				Scan(r.Context()); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					w.WriteHeader(http.StatusNotFound)
					w.Write([]byte("Response not found"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get response"))
				slog.Error("can't get response", "error", err)
				return
			}

			if reqBody.ResponderName != nil {
				responderName := strings.TrimSpace(*reqBody.ResponderName)
				if responderName == "" {
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte("Responder name must not be empty"))
					return
				}
				if responderName != responseModel.ResponderName {
					// renaming can collide with another responder in
					// the same group
					taken, err := as.BunDB.
						NewSelect().
						Model((*model.RsvpResponse)(nil)).
						Where("group_id = ?", responseModel.GroupID).
						Where("responder_name = ?", responderName).
						Where("id != ?", responseModel.ID).
						Exists(r.Context())
					if err != nil {
						w.WriteHeader(http.StatusInternalServerError)
						w.Write([]byte("Can't check responder name"))
						slog.Error("can't check responder name", "error", err)
						return
					}
					if taken {
						w.WriteHeader(http.StatusConflict)
						w.Write([]byte("Another response already uses that name"))
						return
					}
				}
				responseModel.ResponderName = responderName
			}
			if reqBody.IsAttending != nil {
				responseModel.IsAttending = *reqBody.IsAttending
			}
			if reqBody.TotalCount != nil {
				if *reqBody.TotalCount < 0 {
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte("totalCount must not be negative"))
					return
				}
				responseModel.TotalCount = *reqBody.TotalCount
			}
			if reqBody.AttendeeNames != nil {
				responseModel.AttendeeNames = *reqBody.AttendeeNames
			}
			if reqBody.PhoneNumber != nil {
				responseModel.PhoneNumber = *reqBody.PhoneNumber
			}
			if reqBody.Message != nil {
				responseModel.Message = *reqBody.Message
			}
			responseModel.UpdatedAt = time.Now().UTC()

			startTimer := time.Now()
			if _, err := as.BunDB.
				NewUpdate().
				Model(responseModel).
				WherePK().
				Exec(r.Context()); err != nil {
				if model.IsUniqueViolation(err) {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte("Another response already uses that name"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't update response"))
				slog.Error("can't update response", "error", err)
				return
			}
			as.MetricChans.ObserveDatabaseWrite(float64(time.Since(startTimer).Microseconds()))

			respBodyJson, err := json.Marshal(responseModel)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	muxer.HandleFunc("DELETE /api/admin/rsvps/{rsvp_id}", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			rsvpID := r.PathValue("rsvp_id")

			result, err := as.BunDB.
				NewDelete().
				Model((*model.RsvpResponse)(nil)).
				Where("id = ?", rsvpID).
				Exec(r.Context())
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete response"))
				slog.Error("can't delete response", "error", err)
				return
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Response not found"))
				return
			}

			w.WriteHeader(http.StatusNoContent)
		}))

	type BulkDeleteReqBody struct {
		IDs []string `json:"ids"`
	}

	type BulkDeleteRespBody struct {
		Requested int `json:"requested"`
		Deleted   int `json:"deleted"`
		NotFound  int `json:"notFound"`
	}

	muxer.HandleFunc("DELETE /api/admin/rsvps", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody BulkDeleteReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if len(reqBody.IDs) == 0 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("ids must not be empty"))
				return
			}

			result, err := as.BunDB.
				NewDelete().
				Model((*model.RsvpResponse)(nil)).
				Where("id IN (?)", bun.In(reqBody.IDs)).
				Exec(r.Context())
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete responses"))
				slog.Error("can't delete responses", "error", err)
				return
			}
			affected, _ := result.RowsAffected()

			respBodyJson, err := json.Marshal(BulkDeleteRespBody{
				Requested: len(reqBody.IDs),
				Deleted:   int(affected),
				NotFound:  len(reqBody.IDs) - int(affected),
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))
}
