package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"weddinvite/src-server/ical"
	"weddinvite/src-server/invite"
	"weddinvite/src-server/model"
	"weddinvite/src-server/rsvp"
	"weddinvite/src-server/utils"
)

func Invitation(muxer *http.ServeMux, as *utils.AppState) {
	rsvpEngine := rsvp.NewEngine(as.BunDB)

	// the guest-facing projection behind an access code
	muxer.HandleFunc("GET /api/invitation/{unique_code}", func(w http.ResponseWriter, r *http.Request) {
		uniqueCode := r.PathValue("unique_code")
		w.Header().Set("Content-Type", "application/json")

		startTimer := time.Now()
		groupModel := new(model.InvitationGroup)
		if err := as.BunDB.
			NewSelect().
			Model(groupModel).
			Where("unique_code = ?", uniqueCode).
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Invalid invitation code"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get invitation group"))
			slog.Error("can't get invitation group", "error", err)
			return
		}

		infoModel := new(model.WeddingInfo)
		if err := as.BunDB.
			NewSelect().
			Model(infoModel).
			Limit(1).
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Wedding info is not set up yet"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get wedding info"))
			slog.Error("can't get wedding info", "error", err)
			return
		}
		as.MetricChans.ObserveDatabaseRead(float64(time.Since(startTimer).Microseconds()))

		view := invite.Project(infoModel, groupModel, time.Now().In(as.Config.GetLocation()))
		respBodyJson, err := json.Marshal(view)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// attendance submission; resubmitting under the same name edits in place
	muxer.HandleFunc("POST /api/invitation/{unique_code}/rsvp", func(w http.ResponseWriter, r *http.Request) {
		uniqueCode := r.PathValue("unique_code")
		w.Header().Set("Content-Type", "application/json")

		var reqBody rsvp.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		startTimer := time.Now()
		receipt, err := rsvpEngine.Submit(r.Context(), uniqueCode, reqBody)
		if err != nil {
			var validationError *rsvp.ValidationError
			switch {
			case errors.Is(err, rsvp.ErrNotFound):
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Invalid invitation code"))
			case errors.Is(err, rsvp.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("This group can't submit attendance responses"))
			case errors.As(err, &validationError):
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(validationError.Reason))
			default:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't save attendance response"))
				slog.Error("can't save attendance response", "error", err)
			}
			return
		}
		as.MetricChans.ObserveRsvpSubmit(float64(time.Since(startTimer).Microseconds()))

		respBodyJson, err := json.Marshal(receipt)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// downloadable calendar entry; venue only for groups allowed to see it
	muxer.HandleFunc("GET /api/invitation/{unique_code}/calendar.ics", func(w http.ResponseWriter, r *http.Request) {
		uniqueCode := r.PathValue("unique_code")

		groupModel := new(model.InvitationGroup)
		if err := as.BunDB.
			NewSelect().
			Model(groupModel).
			Where("unique_code = ?", uniqueCode).
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Invalid invitation code"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get invitation group"))
			return
		}

		infoModel := new(model.WeddingInfo)
		if err := as.BunDB.
			NewSelect().
			Model(infoModel).
			Limit(1).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Wedding info is not set up yet"))
			return
		}

		event := ical.Event{
			ID:      groupModel.ID,
			Summary: infoModel.GroomName + " & " + infoModel.BrideName,
			Start:   infoModel.WeddingDate,
			End:     infoModel.WeddingDate.Add(2 * time.Hour),
		}
		if invite.ResolveFeatures(groupModel).ShowVenueInfo {
			event.Location = infoModel.VenueName + " " + infoModel.VenueAddress
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="wedding.ics"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ical.Marshal(event)))
	})
}
