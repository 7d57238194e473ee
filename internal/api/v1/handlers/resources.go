package handlers

import (
	"net/http"

	"github.com/deepgram/airelay/internal/catalog"
	"github.com/deepgram/airelay/internal/services/relay"
	"github.com/deepgram/airelay/pkg/httpext"
	"github.com/deepgram/airelay/pkg/logger"
	"github.com/gorilla/mux"
)

// HandleListResources returns every visible entry of the catalog
func HandleListResources(c *catalog.Catalog, w http.ResponseWriter, r *http.Request) {
	resources, err := c.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to list "+c.Kind()+" catalog")
		return
	}

	httpext.JsonResponse(w, MessageResponse{Msg: resources}, http.StatusOK)
}

// HandleGetResource returns one catalog entry, hidden entries included
func HandleGetResource(c *catalog.Catalog, w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	resource, err := c.GetByName(r.Context(), name)
	if err != nil {
		writeError(w, r, err, "Failed to get "+c.Kind())
		return
	}

	httpext.JsonResponse(w, MessageResponse{Msg: resource}, http.StatusOK)
}

// HandleRolePrompt answers prompt in the voice of the named role
func HandleRolePrompt(roles *catalog.Catalog, relayService *relay.Service, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	role, prompt := vars["role"], vars["prompt"]

	persona, err := roles.GetByName(r.Context(), role)
	if err != nil {
		writeError(w, r, err, "Failed to resolve role")
		return
	}

	l := logger.For(logger.HANDLER)
	l.Debug().Str("role", role).Int("prompt_length", len(prompt)).Msg("Relaying role prompt")

	reply, err := relayService.PersonaPrompt(r.Context(), prompt, persona.Description)
	if err != nil {
		writeError(w, r, err, "Failed to relay role prompt")
		return
	}

	httpext.JsonResponse(w, MessageResponse{
		Msg:    reply,
		System: map[string]string{"role": role},
	}, http.StatusOK)
}
