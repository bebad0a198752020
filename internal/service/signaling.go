package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quizlane/quizlane/internal/domain"
)

var (
	ErrEmptyChatMessage   = errors.New("chat message cannot be empty")
	ErrChatMessageTooLong = errors.New("chat message is too long")
)

const maxChatMessageLength = 4000

// Relay forwards a signaling envelope verbatim to the target
// connection, tagged with the sender. Unknown room or target is a
// silent no-op: the peer may simply be gone already, which is
// expected, not exceptional. SDP and candidate payloads pass through
// uninspected.
func (s *GameService) Relay(ctx context.Context, code string, sender *domain.Conn, msg *domain.SignalMessage) {
	if msg == nil || msg.TargetID == "" {
		return
	}

	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return
	}

	room.Mutex.Lock()
	target, ok := room.Conns[msg.TargetID]
	room.Mutex.Unlock()
	if !ok {
		return
	}

	forward := *msg
	forward.RoomCode = room.Code
	forward.SenderID = sender.ID
	target.Enqueue(&forward)

	s.log.Debug("signal relayed",
		slog.String("room_code", room.Code),
		slog.String("kind", msg.Type),
		slog.String("target", msg.TargetID),
	)
}

// Chat validates and broadcasts a room chat line. Spectator and board
// messages carry no player id.
func (s *GameService) Chat(ctx context.Context, code string, conn *domain.Conn, message string) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ErrEmptyChatMessage
	}
	if utf8.RuneCountInString(trimmed) > maxChatMessageLength {
		return ErrChatMessageTooLong
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	event := domain.ChatEvent{
		Type:      "chat",
		Sender:    string(conn.Role),
		Message:   trimmed,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if player := room.PlayerByConn(conn.ID); player != nil {
		event.PlayerID = player.ID
		event.Sender = player.Name
	}

	s.broadcastLocked(room, event)
	return nil
}
