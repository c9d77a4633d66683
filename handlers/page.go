package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Resource is one endpoint of the preview API.
type Resource interface {
	Render(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (interface{}, int)
}

type ResourceFunc func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (interface{}, int)

func (f ResourceFunc) Render(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (interface{}, int) {
	return f(w, r, ps)
}

// NewAPI routes the JSON endpoints describing the built site.
func NewAPI(site *Site) *httprouter.Router {
	router := httprouter.New()
	router.GET("/api/locales", handle(ResourceFunc(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (interface{}, int) {
		return site.Locales(), http.StatusOK
	})))
	router.GET("/api/search/:locale", handle(ResourceFunc(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (interface{}, int) {
		entries, ok := site.SearchEntries(ps.ByName("locale"))
		if !ok {
			return map[string]string{"error": "unknown locale"}, http.StatusNotFound
		}
		return entries, http.StatusOK
	})))
	return router
}

func handle(res Resource) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		body, status := res.Render(w, r, ps)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
