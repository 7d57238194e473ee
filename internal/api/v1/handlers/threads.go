package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/internal/services/resolver"
	"github.com/deepgram/airelay/internal/threads"
	"github.com/deepgram/airelay/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// HandleListThreads returns every stored thread in creation order
func HandleListThreads(store threads.Store, w http.ResponseWriter, r *http.Request) {
	list, err := store.List(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to list threads")
		return
	}
	if list == nil {
		list = []domain.Thread{}
	}

	httpext.JsonResponse(w, list, http.StatusOK)
}

// HandleGetThread returns the thread stored under name
func HandleGetThread(store threads.Store, w http.ResponseWriter, r *http.Request) {
	thread, err := store.GetByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err, "Failed to get thread")
		return
	}

	httpext.JsonResponse(w, thread, http.StatusOK)
}

// HandleCreateThread allocates a provider thread and stores it under the requested name
func HandleCreateThread(resolverService *resolver.Service, w http.ResponseWriter, r *http.Request) {
	var req CreateThreadRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("malformed request body: %w: %w", domain.ErrInvalidInput, err), "Failed to decode create thread request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err), "Invalid create thread request")
		return
	}

	thread, err := resolverService.CreateNamedThread(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err, "Failed to create thread")
		return
	}

	httpext.JsonResponse(w, thread, http.StatusCreated)
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%s: %w", strings.Join(problems, "; "), domain.ErrInvalidInput)
}
