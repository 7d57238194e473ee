package handlers

import (
	"net/http"
	"net/url"

	v1mware "github.com/deepgram/airelay/internal/api/v1/middleware"
	"github.com/deepgram/airelay/internal/services"
	"github.com/deepgram/airelay/internal/services/auth"
	"github.com/deepgram/airelay/pkg/httpext"
	"github.com/gorilla/mux"
)

// NewRouter builds the full HTTP surface. Paths are matched encoded so that
// prompts may contain escaped slashes.
func NewRouter(services *services.Services) *mux.Router {
	router := mux.NewRouter().UseEncodedPath()
	router.Use(v1mware.RequestLogger, decodeVars)

	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpext.JsonError(w, "Not found", http.StatusNotFound)
	})

	RegisterV1Routes(router, services)
	return router
}

func RegisterV1Routes(router *mux.Router, services *services.Services) {
	// v1 routes
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(v1mware.RequireAuth())

	roles := services.GetRoleCatalog()
	instructions := services.GetInstructionCatalog()
	store := services.GetThreadStore()

	// Role persona routes
	listRoles := func(w http.ResponseWriter, r *http.Request) {
		HandleListResources(roles, w, r)
	}
	v1.HandleFunc("/roles", listRoles).Methods("GET")
	v1.HandleFunc("/roles/", listRoles).Methods("GET")
	v1.HandleFunc("/roles/{name}", func(w http.ResponseWriter, r *http.Request) {
		HandleGetResource(roles, w, r)
	}).Methods("GET")
	v1.Handle("/roles/{role}/{prompt}", prompting("role_prompt", func(w http.ResponseWriter, r *http.Request) {
		HandleRolePrompt(roles, services.GetRelayService(), w, r)
	})).Methods("POST")

	// Assistant instruction routes
	listInstructions := func(w http.ResponseWriter, r *http.Request) {
		HandleListResources(instructions, w, r)
	}
	v1.HandleFunc("/assistants", listInstructions).Methods("GET")
	v1.HandleFunc("/assistants/", listInstructions).Methods("GET")
	v1.HandleFunc("/assistants/{name}", func(w http.ResponseWriter, r *http.Request) {
		HandleGetResource(instructions, w, r)
	}).Methods("GET")

	// Thread routes
	listThreads := func(w http.ResponseWriter, r *http.Request) {
		HandleListThreads(store, w, r)
	}
	v1.HandleFunc("/threads", listThreads).Methods("GET")
	v1.HandleFunc("/threads/", listThreads).Methods("GET")
	v1.HandleFunc("/threads/{name}", func(w http.ResponseWriter, r *http.Request) {
		HandleGetThread(store, w, r)
	}).Methods("GET")

	createThread := v1mware.RequireScope(auth.ScopeThreadsWrite)(v1mware.RateLimit("thread_create")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleCreateThread(services.GetResolverService(), w, r)
	})))
	v1.Handle("/threads", createThread).Methods("POST")
	v1.Handle("/threads/", createThread).Methods("POST")

	// Assistant thread prompts
	v1.Handle("/assistant/{prompt}/{thread_name}", prompting("assistant_prompt", func(w http.ResponseWriter, r *http.Request) {
		HandleAssistantPrompt(services.GetResolverService(), w, r)
	})).Methods("POST")
}

func prompting(limitKey string, h http.HandlerFunc) http.Handler {
	return v1mware.RequireScope(auth.ScopePrompt)(v1mware.RateLimit(limitKey)(h))
}

// decodeVars unescapes route variables matched against the encoded path.
func decodeVars(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if len(vars) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		decoded := make(map[string]string, len(vars))
		for k, v := range vars {
			unescaped, err := url.PathUnescape(v)
			if err != nil {
				httpext.JsonError(w, "Malformed path", http.StatusBadRequest)
				return
			}
			decoded[k] = unescaped
		}
		next.ServeHTTP(w, mux.SetURLVars(r, decoded))
	})
}
