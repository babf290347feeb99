package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type pingModule struct{}

func NewPingModule() Module {
	return &pingModule{}
}

func (that *pingModule) Routes(r chi.Router) {
	r.Get("/ping", that.ping)
}

func (that *pingModule) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
