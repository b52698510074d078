package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/internal/validation"
	"habitTrackerAPI/services"
)

// TimezoneHeader carries the caller's IANA zone so "today" matches the device.
const TimezoneHeader = "X-Timezone"

const maxBodyBytes = 1 << 20

var validate = validation.New()

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithValidation(w http.ResponseWriter, verr *validation.Error) {
	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  verr.Message,
		"fields": verr.Fields,
	})
}

// respondWithServiceError maps service and engine errors onto status codes.
// Internal failures are logged and never echoed to the client.
func respondWithServiceError(w http.ResponseWriter, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondWithValidation(w, verr)
	case errors.Is(err, progress.ErrInvalidArgument):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("Handlers: %s failed: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Validate(dst); err != nil {
		respondWithServiceError(w, "validate request", err)
		return false
	}
	return true
}

// userNow is the current instant in the caller's timezone, falling back to def.
func userNow(r *http.Request, def *time.Location) time.Time {
	loc := def
	if name := r.Header.Get(TimezoneHeader); name != "" {
		if l, err := time.LoadLocation(name); err == nil {
			loc = l
		}
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", progress.ErrInvalidArgument, key)
	}
	return id, nil
}
