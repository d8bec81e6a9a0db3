package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"notecaster/internal/tts"
)

type voiceResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	LanguageCode string   `json:"language_code"`
	LanguageName string   `json:"language_name"`
	Gender       string   `json:"gender"`
	Engines      []string `json:"engines"`
}

// GetProviderVoices lists the voices of a configured provider. The list
// is best-effort metadata; provider-side failures surface as the static
// fallback list, not an error.
func (h *Handlers) GetProviderVoices(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	provider, err := h.registry.Resolve(name)
	if err != nil {
		if _, ok := err.(*tts.ConfigurationError); ok {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to resolve provider")
		return
	}

	voices := provider.ListVoices(r.Context())
	response := make([]voiceResponse, 0, len(voices))
	for _, v := range voices {
		response = append(response, voiceResponse{
			ID:           v.ID,
			Name:         v.Name,
			LanguageCode: v.LanguageCode,
			LanguageName: v.LanguageName,
			Gender:       v.Gender,
			Engines:      v.Engines,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider":  provider.ServiceName(),
		"voices":    response,
		"languages": provider.ListLanguages(r.Context()),
	})
}
