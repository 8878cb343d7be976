package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"weddinvite/src-server/auth"
	"weddinvite/src-server/model"
	"weddinvite/src-server/utils"

	"github.com/google/uuid"
)

func AdminAuth(muxer *http.ServeMux, as *utils.AppState) {
	type LoginReqBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type LoginRespBody struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		Username  string    `json:"username"`
	}

	muxer.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var reqBody LoginReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		adminModel := new(model.AdminUser)
		if err := as.BunDB.
			NewSelect().
			Model(adminModel).
			Where("username = ?", reqBody.Username).
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("Wrong username or password"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get admin user"))
			slog.Error("can't get admin user", "error", err)
			return
		}

		if err := auth.VerifyPassword(adminModel.PasswordHash, reqBody.Password); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Wrong username or password"))
			return
		}

		token, expiresAt, err := as.JWT.Generate(adminModel.ID, adminModel.Username, adminModel.Role)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create token"))
			slog.Error("can't create token", "error", err)
			return
		}

		now := time.Now().UTC()
		if _, err := as.BunDB.
			NewUpdate().
			Model((*model.AdminUser)(nil)).
			Set("last_login_at = ?", now).
			Where("id = ?", adminModel.ID).
			Exec(r.Context()); err != nil {
			slog.Warn("can't update last login time", "error", err)
		}

		respBodyJson, err := json.Marshal(LoginRespBody{
			Token:     token,
			ExpiresAt: expiresAt,
			Username:  adminModel.Username,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type CreateAdminReqBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	// create another admin account
	muxer.HandleFunc("POST /api/admin/admins", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			claims, ok := adminClaims(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get admin claims from middleware"))
				return
			}

			var reqBody CreateAdminReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			username := strings.TrimSpace(reqBody.Username)
			switch {
			case username == "":
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Username is required"))
				return
			case len(username) < 3 || len(username) > 20:
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Username must be 3-20 characters"))
				return
			case len(reqBody.Password) < 4:
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Password must be at least 4 characters"))
				return
			case !model.ValidAdminRole(reqBody.Role):
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid role"))
				return
			}

			passwordHash, err := auth.HashPassword(reqBody.Password)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't hash password"))
				slog.Error("can't hash password", "error", err)
				return
			}

			newAdmin := model.AdminUser{
				ID:           uuid.NewString(),
				Username:     username,
				PasswordHash: passwordHash,
				Role:         reqBody.Role,
				CreatedAt:    time.Now().UTC(),
			}
			if _, err := as.BunDB.
				NewInsert().
				Model(&newAdmin).
				Exec(r.Context()); err != nil {
				if model.IsUniqueViolation(err) {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte("Username already exists"))
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't create admin user"))
				slog.Error("can't create admin user", "error", err)
				return
			}
			slog.Info("admin account created", "username", username, "by", claims.Username)

			respBodyJson, err := json.Marshal(newAdmin)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write(respBodyJson)
		}))

	type AdminListRespBody struct {
		Admins     []model.AdminUser `json:"admins"`
		TotalCount int               `json:"totalCount"`
	}

	muxer.HandleFunc("GET /api/admin/admins", AdminAuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			adminModels := make([]model.AdminUser, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&adminModels).
				Order("created_at DESC").
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get admin users"))
				slog.Error("can't get admin users", "error", err)
				return
			}

			respBodyJson, err := json.Marshal(AdminListRespBody{
				Admins:     adminModels,
				TotalCount: len(adminModels),
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
