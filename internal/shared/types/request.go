package types

// StartSessionRequest starts a restoration session for a project file
type StartSessionRequest struct {
	ProjectPath string `json:"project_path" binding:"required"`
}

// WSMessage represents an inbound WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// StatusMessage is pushed to progress observers on every accepted change
type StatusMessage struct {
	Type                string          `json:"type"`
	SessionID           string          `json:"session_id"`
	Apps                []AppLaunchData `json:"apps"`
	AllLaunched         bool            `json:"all_launched"`
	AllLaunchedAndMoved bool            `json:"complete"`
	Timestamp           int64           `json:"timestamp"`
}

// NewStatusMessage summarises a status map for observers
func NewStatusMessage(sessionID string, m LaunchStatusMap, timestamp int64) StatusMessage {
	msg := StatusMessage{
		Type:                "status",
		SessionID:           sessionID,
		Apps:                m.Entries(),
		AllLaunched:         true,
		AllLaunchedAndMoved: true,
		Timestamp:           timestamp,
	}
	for _, v := range m {
		if v.State == LaunchWaiting {
			msg.AllLaunched = false
		}
		if !v.State.IsTerminal() {
			msg.AllLaunchedAndMoved = false
		}
	}
	return msg
}
