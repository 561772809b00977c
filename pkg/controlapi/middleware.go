package controlapi

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
)

const (
	// RequestIDHeader carries the id a publish is traced under. A valid
	// incoming value is reused, otherwise a new one is generated; either way
	// it is echoed in the response.
	RequestIDHeader = "X-Request-ID"

	maxIDLength = 128
)

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// dispatchID makes the request id the dispatch id of whatever the request
// publishes, so logs of the whole cascade can be found from the response.
func dispatchID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !isValidID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(eventbus.WithDispatchID(r.Context(), id)))
	})
}

func isValidID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return validID.MatchString(id)
}
