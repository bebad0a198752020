package domain

import "github.com/pion/webrtc/v3"

// SignalMessage is the relay envelope for WebRTC negotiation between
// two connections: "webrtc-offer", "webrtc-answer",
// "webrtc-ice-candidate" or "request-offer". The SDP and candidate
// fields are carried verbatim; the server never looks inside them.
type SignalMessage struct {
	Type      string                     `json:"type"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
	RoomCode  string                     `json:"roomCode,omitempty"`
	SenderID  string                     `json:"senderId,omitempty"`
	TargetID  string                     `json:"targetId,omitempty"`
	Payload   map[string]any             `json:"payload,omitempty"`
}
