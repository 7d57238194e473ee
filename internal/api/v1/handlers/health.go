package handlers

import (
	"net/http"

	"github.com/deepgram/airelay/pkg/httpext"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
