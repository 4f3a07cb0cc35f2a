package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/settings"
)

const maxBodyBytes = 1 << 20

type Conversation interface {
	Handle(ctx context.Context, req contractx.Request) (contractx.Response, error)
}

type Settings interface {
	Current() settings.Prompts
	Update(ctx context.Context, p settings.Prompts) (settings.Prompts, error)
}

type Handlers struct {
	conversation Conversation
	settings     Settings
}

func NewHandlers(conversation Conversation, s Settings) (*Handlers, error) {
	if conversation == nil {
		return nil, errors.New("conversation handler is required")
	}
	if s == nil {
		return nil, errors.New("settings service is required")
	}
	return &Handlers{conversation: conversation, settings: s}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ProcessInput(w http.ResponseWriter, r *http.Request) {
	var req contractx.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.conversation.Handle(r.Context(), req)
	if err != nil {
		writeHandleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	current := h.settings.Current()
	if wantsHTML(r) {
		renderSettingsForm(w, current)
		return
	}
	respondJSON(w, http.StatusOK, current)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Prompts
	if isJSON(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&p); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		p = settings.Prompts{
			Supervisor:  r.PostFormValue("prompt"),
			FinalOutput: r.PostFormValue("final_output_prompt"),
		}
	}

	updated, err := h.settings.Update(r.Context(), p)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("update settings failed")
		respondError(w, http.StatusInternalServerError, "could not save settings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":  "Configuración actualizada correctamente",
		"settings": updated,
	})
}

type randomUserRequest struct {
	FirstPrompt string `json:"first_prompt"`
}

// TestRandomUser runs a full start, prompt and stop cycle for a generated
// user.
func (h *Handlers) TestRandomUser(w http.ResponseWriter, r *http.Request) {
	var in randomUserRequest
	if isJSON(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		in.FirstPrompt = r.PostFormValue("first_prompt")
	}
	if strings.TrimSpace(in.FirstPrompt) == "" {
		respondError(w, http.StatusBadRequest, "first_prompt is required")
		return
	}

	userID := "user_" + uuid.NewString()
	requests := []contractx.Request{
		{Type: contractx.PhaseStart, UserID: userID, UserData: randomProfile()},
		{Type: contractx.PhasePrompt, UserID: userID, Data: in.FirstPrompt},
		{Type: contractx.PhaseStop, UserID: userID},
	}

	out := make(map[string]any, len(requests)*2)
	for _, req := range requests {
		resp, err := h.conversation.Handle(r.Context(), req)
		if err != nil {
			writeHandleError(w, r, err)
			return
		}
		out[string(req.Type)+"_payload"] = req
		out[string(req.Type)+"_response"] = resp
	}
	respondJSON(w, http.StatusOK, out)
}

func writeHandleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, contractx.ErrValidation) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Msg("conversation handler failed")
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("write json response failed")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
