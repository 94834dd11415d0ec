package render

import (
	"encoding/json"
	"net/http"
)

type errResponse struct {
	Error string `json:"error"`
}

func ChiJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ChiErr renders the plain error-string contract the GUI expects.
func ChiErr(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = "unknown error"
	}
	ChiJSON(w, status, errResponse{Error: msg})
}
