package service

import (
	"context"
	"fmt"

	"english-tutor-be/internal/dto"
	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/internal/repository/memory"
	"english-tutor-be/pkg/events"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/engine"
	"english-tutor-be/pkg/tutor/feedback"
	"english-tutor-be/pkg/tutor/session"
)

type ITutorService interface {
	SendMessage(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	SwitchMode(ctx context.Context, sessionID string, req *dto.ModeRequest) (*dto.StatusResponse, error)
	Feedback(ctx context.Context, sessionID string) (*feedback.Report, error)
	Clear(ctx context.Context, sessionID string) (*dto.StatusResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
}

type tutorService struct {
	engine    *engine.Engine
	sessions  contract.SessionRepository
	publisher IEventPublisher
	logger    logger.ILogger
	locks     contract.SessionLocker
}

func NewTutorService(
	eng *engine.Engine,
	sessions contract.SessionRepository,
	locks contract.SessionLocker,
	publisher IEventPublisher,
	log logger.ILogger,
) ITutorService {
	if publisher == nil {
		publisher = NopEventPublisher()
	}
	if locks == nil {
		locks = memory.NewSessionLocker()
	}
	return &tutorService{
		engine:    eng,
		sessions:  sessions,
		publisher: publisher,
		logger:    log,
		locks:     locks,
	}
}

// sessionOp works on a private copy of the session. It reports whether the copy
// must be saved and which event, if any, to publish afterwards.
type sessionOp func(st *session.State) (save bool, evt events.Event, err error)

// withSession loads (or creates) the session and runs op while holding the
// session lock. The event is published only once the state is stored.
func (s *tutorService) withSession(ctx context.Context, sessionID string, op sessionOp) error {
	release, ok, err := s.locks.TryLock(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to lock session: %w", err)
	}
	if !ok {
		return tutor.ErrSessionBusy
	}
	defer release()

	st, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if st == nil {
		st = session.New(sessionID)
	}

	save, evt, err := op(st)
	if err != nil {
		return err
	}
	if save {
		if err := s.sessions.Save(ctx, st); err != nil {
			return err
		}
	}
	if evt != nil {
		s.publisher.Publish(ctx, evt)
	}
	return nil
}

func (s *tutorService) SendMessage(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	var res *dto.ChatResponse
	err := s.withSession(ctx, sessionID, func(st *session.State) (bool, events.Event, error) {
		turn, err := s.engine.ProcessTurn(ctx, st, req.Message)
		if err != nil {
			return false, nil, err
		}

		res = &dto.ChatResponse{
			Message:       turn.Reply,
			Corrections:   dto.ToCorrectionDTOs(turn.Corrections),
			Mode:          string(turn.Mode),
			MessagesCount: turn.MessageCount,
		}

		last := st.Transcript[len(st.Transcript)-2]
		return true, events.NewTurnCompleted(events.TurnCompletedPayload{
			SessionID:    sessionID,
			Mode:         string(turn.Mode),
			UserText:     last.Text,
			Reply:        turn.Reply,
			Corrections:  turn.Corrections,
			MessageCount: turn.MessageCount,
			Level:        string(turn.EstimatedLevel),
		}, last.At), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *tutorService) SwitchMode(ctx context.Context, sessionID string, req *dto.ModeRequest) (*dto.StatusResponse, error) {
	err := s.withSession(ctx, sessionID, func(st *session.State) (bool, events.Event, error) {
		from := st.Mode
		changed, err := s.engine.SwitchMode(st, req.Mode)
		if err != nil || !changed {
			return false, nil, err
		}
		return true, events.NewModeSwitched(events.ModeSwitchedPayload{
			SessionID: sessionID,
			From:      string(from),
			To:        string(st.Mode),
		}, st.UpdatedAt), nil
	})
	if err != nil {
		return nil, err
	}
	return dto.StatusOK(), nil
}

func (s *tutorService) Feedback(ctx context.Context, sessionID string) (*feedback.Report, error) {
	var report *feedback.Report
	err := s.withSession(ctx, sessionID, func(st *session.State) (bool, events.Event, error) {
		r, err := s.engine.Feedback(ctx, st)
		if err != nil {
			return false, nil, err
		}
		report = r
		return false, events.NewFeedbackGenerated(events.FeedbackGeneratedPayload{
			SessionID: sessionID,
			Mode:      string(st.Mode),
			Report:    r,
		}, r.GeneratedAt), nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *tutorService) Clear(ctx context.Context, sessionID string) (*dto.StatusResponse, error) {
	err := s.withSession(ctx, sessionID, func(st *session.State) (bool, events.Event, error) {
		s.engine.Reset(st)
		return true, events.NewConversationCleared(events.ConversationClearedPayload{
			SessionID: sessionID,
			Mode:      string(st.Mode),
		}, st.UpdatedAt), nil
	})
	if err != nil {
		return nil, err
	}
	return dto.StatusOK(), nil
}

// GetSession reads without taking the lock; a turn in flight is simply not visible yet.
func (s *tutorService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	st, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = session.New(sessionID)
	}
	return dto.ToSessionResponse(st), nil
}
