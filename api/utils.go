package api

import (
	"encoding/json"
	"net/http"
	"regexp"

	"go.uber.org/zap"
)

// maxErrorMessageLength caps client-facing error messages
const maxErrorMessageLength = 200

// errorResponse is the JSON body of a handled error
type errorResponse struct {
	Error string `json:"error"`
}

var (
	connectionStringPattern = regexp.MustCompile(`(?i)(?:data source|datasource|filename)\s*=[^;"']*`)
	filePathPattern         = regexp.MustCompile(`(?:[A-Za-z]:\\|/)(?:[^\\/:*?"<>|\s]+[\\/ ])*[^\\/:*?"<>|\s]+`)
	goroutinePattern        = regexp.MustCompile(`(?m)^goroutine \d+.*$`)
)

// sanitizeErrorMessage strips store locations and stack details from a message
func sanitizeErrorMessage(message string) string {
	message = connectionStringPattern.ReplaceAllString(message, "[DATA_SOURCE]")
	message = filePathPattern.ReplaceAllString(message, "[FILE_PATH]")
	message = goroutinePattern.ReplaceAllString(message, "[STACK_TRACE]")

	if len(message) > maxErrorMessageLength {
		message = message[:maxErrorMessageLength-3] + "..."
	}
	return message
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs the full error and answers the client. Server errors go to
// the developer exception page when one is installed; otherwise the client
// only sees the status text.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error, logger *zap.SugaredLogger) {
	if logger != nil {
		if err != nil {
			logger.Errorw(message, "error", err.Error(), "status_code", statusCode)
		} else {
			logger.Errorw(message, "status_code", statusCode)
		}
	}

	if statusCode >= http.StatusInternalServerError {
		if err != nil && reportException(w, r, statusCode, message, err) {
			return
		}
		writeJSON(w, statusCode, errorResponse{Error: http.StatusText(statusCode)})
		return
	}

	writeJSON(w, statusCode, errorResponse{Error: sanitizeErrorMessage(message)})
}
