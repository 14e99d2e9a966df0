package dto

import (
	"time"

	"english-tutor-be/pkg/tutor/session"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type CorrectionDTO struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

type ChatResponse struct {
	Message       string          `json:"message"`
	Corrections   []CorrectionDTO `json:"corrections"`
	Mode          string          `json:"mode"`
	MessagesCount int             `json:"messages_count"`
}

// ModeRequest accepts any casing; the engine decides what a valid mode is.
type ModeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func StatusOK() *StatusResponse {
	return &StatusResponse{Status: "ok"}
}

type TurnDTO struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type SessionResponse struct {
	SessionId      string    `json:"session_id"`
	Mode           string    `json:"mode"`
	MessagesCount  int       `json:"messages_count"`
	EstimatedLevel string    `json:"estimated_level"`
	Transcript     []TurnDTO `json:"transcript"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	LLMProvider string `json:"llm_provider"`
	Archive     bool   `json:"archive"`
}

func ToCorrectionDTOs(corrections []session.Correction) []CorrectionDTO {
	out := make([]CorrectionDTO, len(corrections))
	for i, c := range corrections {
		out[i] = CorrectionDTO{Original: c.Original, Corrected: c.Corrected, Explanation: c.Explanation}
	}
	return out
}

func ToSessionResponse(st *session.State) *SessionResponse {
	transcript := make([]TurnDTO, len(st.Transcript))
	for i, t := range st.Transcript {
		transcript[i] = TurnDTO{Role: string(t.Role), Text: t.Text, At: t.At}
	}
	return &SessionResponse{
		SessionId:      st.ID,
		Mode:           string(st.Mode),
		MessagesCount:  st.MessageCount,
		EstimatedLevel: string(st.EstimatedLevel),
		Transcript:     transcript,
	}
}
