package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"weddinvite/src-server/model"
	"weddinvite/src-server/utils"

	"github.com/google/uuid"
)

func AdminWedding(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /api/admin/wedding-info", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

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

			respBodyJson, err := json.Marshal(infoModel)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type WeddingInfoReqBody struct {
		GroomName       string `json:"groomName"`
		BrideName       string `json:"brideName"`
		WeddingDate     string `json:"weddingDate"`
		GreetingMessage string `json:"greetingMessage"`

		VenueName     string `json:"venueName"`
		VenueAddress  string `json:"venueAddress"`
		VenueDetail   string `json:"venueDetail"`
		KakaoMapUrl   string `json:"kakaoMapUrl"`
		NaverMapUrl   string `json:"naverMapUrl"`
		GoogleMapUrl  string `json:"googleMapUrl"`
		ParkingInfo   string `json:"parkingInfo"`
		TransportInfo string `json:"transportInfo"`

		CeremonyProgram string   `json:"ceremonyProgram"`
		AccountInfo     []string `json:"accountInfo"`
	}

	// whole-record replace; the first PUT creates the singleton row
	muxer.HandleFunc("PUT /api/admin/wedding-info", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody WeddingInfoReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			switch {
			case strings.TrimSpace(reqBody.GroomName) == "":
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Groom name is required"))
				return
			case strings.TrimSpace(reqBody.BrideName) == "":
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Bride name is required"))
				return
			}
			weddingDate, err := time.Parse(time.RFC3339, reqBody.WeddingDate)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("weddingDate must be an RFC 3339 timestamp"))
				return
			}

			infoModel := new(model.WeddingInfo)
			created := false
			if err := as.BunDB.
				NewSelect().
				Model(infoModel).
				Limit(1).
				Scan(r.Context()); err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Can't get wedding info"))
					slog.Error("can't get wedding info", "error", err)
					return
				}
				infoModel.ID = uuid.NewString()
				created = true
			}

			infoModel.GroomName = strings.TrimSpace(reqBody.GroomName)
			infoModel.BrideName = strings.TrimSpace(reqBody.BrideName)
			infoModel.WeddingDate = weddingDate
			infoModel.GreetingMessage = reqBody.GreetingMessage
			infoModel.VenueName = reqBody.VenueName
			infoModel.VenueAddress = reqBody.VenueAddress
			infoModel.VenueDetail = reqBody.VenueDetail
			infoModel.KakaoMapUrl = reqBody.KakaoMapUrl
			infoModel.NaverMapUrl = reqBody.NaverMapUrl
			infoModel.GoogleMapUrl = reqBody.GoogleMapUrl
			infoModel.ParkingInfo = reqBody.ParkingInfo
			infoModel.TransportInfo = reqBody.TransportInfo
			infoModel.CeremonyProgram = reqBody.CeremonyProgram
			infoModel.AccountInfo = reqBody.AccountInfo

			startTimer := time.Now()
			if err := infoModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't save wedding info"))
				slog.Error("can't save wedding info", "error", err)
				return
			}
			as.MetricChans.ObserveDatabaseWrite(float64(time.Since(startTimer).Microseconds()))

			respBodyJson, err := json.Marshal(infoModel)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			if created {
				w.WriteHeader(http.StatusCreated)
			} else {
				w.WriteHeader(http.StatusOK)
			}
			w.Write(respBodyJson)
		}))
}
