package dto

// Frame types on the practice WebSocket.
const (
	FrameMessage  = "message"
	FrameMode     = "mode"
	FrameFeedback = "feedback"
	FrameClear    = "clear"
	FrameSession  = "session"
	FrameError    = "error"
)

// PracticeFrame is what the browser sends.
type PracticeFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// PracticeReply wraps the same payloads as the HTTP endpoints.
type PracticeReply struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error interface{} `json:"error,omitempty"`
}
