package httpresponse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Status int `json:"Status"`
	Body   any `json:"Body,omitempty"`
}

const internalErrorJSON = "{\"status\": 500,\"body\":{\"error\": \"Internal server error\"}}"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	payload, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	if _, err = w.Write(payload); err != nil {
		WriteInternalErrorResponse(w)
	}
}

// WriteInternalErrorResponse mirrors http.Error, but keeps the JSON
// content type.
func WriteInternalErrorResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}
