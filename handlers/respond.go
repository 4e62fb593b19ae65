package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ethyne2666/project-management/logging"
	"github.com/ethyne2666/project-management/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError is the single place service errors become HTTP statuses.
// Un-kinded errors are unexpected data-layer failures and map to a 500
// carrying the underlying error text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		writeMessage(w, http.StatusNotFound, err.Error())
	case services.KindPermissionDenied:
		writeMessage(w, http.StatusForbidden, err.Error())
	case services.KindConflict, services.KindInvalid:
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		logging.Logger.Errorf("Event ID: UNHANDLED_ERROR, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}
