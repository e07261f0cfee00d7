package httpapi

import (
	"net/http"

	"github.com/go-chi/render"
)

type errResponse struct {
	Error string `json:"error"`
}

func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: msg})
}
