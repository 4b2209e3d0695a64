// Package wsserver streams recorder state to the overlay window over a
// localhost WebSocket.
//
// All frames are JSON text messages with a "type" discriminator:
//
//   - "status": recording and key-hold flags, sent on every state change and
//     replayed to a freshly connected client.
//   - "partial": interim transcription text while a dictation is in flight.
//   - "transcript": a finalized dictation result.
//   - "error": server-side notification of a client protocol violation.
package wsserver

import "encoding/json"

// Frame type discriminators.
const (
	FrameStatus     = "status"
	FramePartial    = "partial"
	FrameTranscript = "transcript"
	FrameError      = "error"
)

// StatusFrame mirrors the recorder's flag set.
type StatusFrame struct {
	Type         string `json:"type"`
	Recording    bool   `json:"recording"`
	PTTKeyHeld   bool   `json:"ptt_key_held"`
	PasteKeyHeld bool   `json:"paste_key_held"`
}

// PartialFrame carries interim transcription text.
type PartialFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TranscriptFrame carries a finalized dictation result.
type TranscriptFrame struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// ErrorFrame notifies the client of a protocol violation.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewStatusFrame builds a status frame from the recorder flags.
func NewStatusFrame(recording, pttHeld, pasteHeld bool) StatusFrame {
	return StatusFrame{
		Type:         FrameStatus,
		Recording:    recording,
		PTTKeyHeld:   pttHeld,
		PasteKeyHeld: pasteHeld,
	}
}

// DecodeFrameType extracts the "type" discriminator from a raw frame.
func DecodeFrameType(raw []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", err
	}
	return head.Type, nil
}
