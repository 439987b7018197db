package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader es el header donde se devuelve el id del request.
const RequestIDHeader = "X-Request-ID"

// RequestID usa chimw.RequestID (respeta un X-Request-ID entrante) y además
// lo devuelve en la respuesta para correlacionar con los logs.
func RequestID(next http.Handler) http.Handler {
	return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}
