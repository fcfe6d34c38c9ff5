// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/lesson_scheduler/internal/api/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var validate = validator.New()

// decodeAndValidate читает JSON-тело в dst и проверяет теги validate.
// При ошибке сам пишет ответ и возвращает false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Request validation failed", details)
			return false
		}
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
		return false
	}

	return true
}

// pathUUID читает UUID из переменной пути
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	return parseUUID(w, mux.Vars(r)[name], name)
}

// parseUUID разбирает UUID и при ошибке сам отвечает 400
func parseUUID(w http.ResponseWriter, value, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
