package websocket

import (
	"context"
	"strings"

	"english-tutor-be/internal/dto"
	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/internal/pkg/serverutils"
	"english-tutor-be/internal/service"
	"english-tutor-be/pkg/tutor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const sessionLocal = "practice_session_id"

// Upgrade rejects plain HTTP requests and resolves the session id before the
// handshake: "session_id" query, then X-Session-Id header, then the session
// cookie, else a new id.
func Upgrade(sessionHeader, sessionCookie string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}

		id := strings.TrimSpace(ctx.Query("session_id"))
		if id == "" {
			id = strings.TrimSpace(ctx.Get(sessionHeader))
		}
		if id == "" {
			id = strings.TrimSpace(ctx.Cookies(sessionCookie))
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Locals(sessionLocal, id)
		return ctx.Next()
	}
}

// ServeWs handles one practice connection.
func ServeWs(hub *Hub, svc service.ITutorService, log logger.ILogger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sessionID, _ := conn.Locals(sessionLocal).(string)
		client := NewClient(hub, conn, sessionID, svc, log)
		hub.Register(client)

		// Tell the browser which session it is on before anything else.
		client.reply(&dto.PracticeReply{Type: dto.FrameSession, Data: map[string]string{"session_id": sessionID}})

		go client.writePump()
		client.readPump()
	})
}

// Dispatch runs one frame against the tutor service and builds the reply.
// Payloads match the HTTP endpoints.
func Dispatch(ctx context.Context, svc service.ITutorService, sessionID string, frame *dto.PracticeFrame) *dto.PracticeReply {
	var (
		data interface{}
		err  error
	)

	switch frame.Type {
	case dto.FrameMessage:
		req := &dto.ChatRequest{Message: frame.Message}
		if err = serverutils.ValidateRequest(req); err == nil {
			data, err = svc.SendMessage(ctx, sessionID, req)
			err = serverutils.WithDraft(err, frame.Message)
		}
	case dto.FrameMode:
		req := &dto.ModeRequest{Mode: frame.Mode}
		if err = serverutils.ValidateRequest(req); err == nil {
			data, err = svc.SwitchMode(ctx, sessionID, req)
		}
	case dto.FrameFeedback:
		data, err = svc.Feedback(ctx, sessionID)
	case dto.FrameClear:
		data, err = svc.Clear(ctx, sessionID)
	default:
		err = &tutor.ValidationError{Field: "type", Message: "must be one of message, mode, feedback, clear"}
	}

	if err != nil {
		return errorReply(err)
	}
	return &dto.PracticeReply{Type: frame.Type, Data: data}
}

func errorReply(err error) *dto.PracticeReply {
	_, body := serverutils.Classify(err)
	return &dto.PracticeReply{Type: dto.FrameError, Error: body}
}

func invalidFrame() error {
	return &tutor.ValidationError{Field: "frame", Message: "must be a JSON object"}
}
