package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/internal/services/resolver"
	"github.com/deepgram/airelay/pkg/httpext"
	"github.com/deepgram/airelay/pkg/logger"
	"github.com/gorilla/mux"
)

// HandleAssistantPrompt sends prompt to a named thread, or to a fresh one with ?create=true
func HandleAssistantPrompt(resolverService *resolver.Service, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	prompt, threadName := vars["prompt"], vars["thread_name"]

	create := false
	if raw := r.URL.Query().Get("create"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("create must be a boolean, got %q: %w", raw, domain.ErrInvalidInput), "Invalid create flag")
			return
		}
		create = parsed
	}

	l := logger.For(logger.HANDLER)
	l.Debug().Str("thread_name", threadName).Bool("create", create).Msg("Relaying assistant prompt")

	result, err := resolverService.Prompt(r.Context(), threadName, create, prompt)
	if err != nil {
		writeError(w, r, err, "Failed to relay assistant prompt")
		return
	}

	httpext.JsonResponse(w, MessageResponse{
		Msg:    result.Text,
		System: map[string]string{"thread_id": result.ThreadID},
	}, http.StatusOK)
}
