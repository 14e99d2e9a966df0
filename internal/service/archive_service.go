package service

import (
	"context"
	"encoding/json"
	"fmt"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/internal/repository/specification"
	"english-tutor-be/internal/repository/unitofwork"
	"english-tutor-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IArchiveService persists finished turns and feedback reports for history.
// It runs off the request path and never affects the learner's session.
type IArchiveService interface {
	Consume(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type archiveService struct {
	subscriber message.Subscriber
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewArchiveService(subscriber message.Subscriber, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IArchiveService {
	return &archiveService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *archiveService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, TutorEventsTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: gochannel redelivers a nacked message immediately.
func (s *archiveService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		s.logger.Error("ArchiveService", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if err := s.Handle(ctx, event); err != nil {
		s.logger.Error("ArchiveService", "Failed to archive event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *archiveService) Handle(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.TypeTurnCompleted:
		var p events.TurnCompletedPayload
		if err := events.DecodePayload(event, &p); err != nil {
			return fmt.Errorf("decode turn payload: %w", err)
		}
		return s.archiveTurn(ctx, event, &p)

	case events.TypeModeSwitched:
		var p events.ModeSwitchedPayload
		if err := events.DecodePayload(event, &p); err != nil {
			return fmt.Errorf("decode mode payload: %w", err)
		}
		return s.closeOpen(ctx, p.SessionID, event)

	case events.TypeConversationCleared:
		var p events.ConversationClearedPayload
		if err := events.DecodePayload(event, &p); err != nil {
			return fmt.Errorf("decode clear payload: %w", err)
		}
		return s.closeOpen(ctx, p.SessionID, event)

	case events.TypeFeedbackGenerated:
		var p events.FeedbackGeneratedPayload
		if err := events.DecodePayload(event, &p); err != nil {
			return fmt.Errorf("decode feedback payload: %w", err)
		}
		return s.archiveFeedback(ctx, event, &p)

	default:
		s.logger.Debug("ArchiveService", "Ignoring event", map[string]interface{}{"type": event.EventType()})
		return nil
	}
}

func (s *archiveService) archiveTurn(ctx context.Context, event events.Event, p *events.TurnCompletedPayload) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		// No-op after a successful Commit.
		_ = uow.Rollback()
	}()

	practice, err := openPracticeSession(ctx, uow, p.SessionID, p.Mode, event)
	if err != nil {
		return err
	}

	userMsg := &entity.ConversationMessage{
		PracticeSessionId: practice.Id,
		Role:              "user",
		Content:           p.UserText,
		CreatedAt:         event.Timestamp(),
	}
	if err := uow.ConversationMessageRepository().Create(ctx, userMsg); err != nil {
		return fmt.Errorf("archive user message: %w", err)
	}

	assistantMsg := &entity.ConversationMessage{
		PracticeSessionId: practice.Id,
		Role:              "assistant",
		Content:           p.Reply,
		CreatedAt:         event.Timestamp(),
	}
	if err := uow.ConversationMessageRepository().Create(ctx, assistantMsg); err != nil {
		return fmt.Errorf("archive assistant message: %w", err)
	}

	grammarErrors := make([]*entity.GrammarError, 0, len(p.Corrections))
	for _, c := range p.Corrections {
		grammarErrors = append(grammarErrors, &entity.GrammarError{
			PracticeSessionId: practice.Id,
			MessageId:         userMsg.Id,
			Original:          c.Original,
			Corrected:         c.Corrected,
			Explanation:       c.Explanation,
			CreatedAt:         event.Timestamp(),
		})
	}
	if err := uow.GrammarErrorRepository().CreateBatch(ctx, grammarErrors); err != nil {
		return fmt.Errorf("archive corrections: %w", err)
	}

	return uow.Commit()
}

func (s *archiveService) archiveFeedback(ctx context.Context, event events.Event, p *events.FeedbackGeneratedPayload) error {
	if p.Report == nil {
		return fmt.Errorf("feedback event without report")
	}
	raw, err := json.Marshal(p.Report)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	practice, err := openPracticeSession(ctx, uow, p.SessionID, p.Mode, event)
	if err != nil {
		return err
	}

	return uow.FeedbackReportRepository().Create(ctx, &entity.FeedbackReport{
		PracticeSessionId: practice.Id,
		OverallScore:      p.Report.OverallScore,
		TotalMessages:     p.Report.TotalMessages,
		Report:            raw,
		CreatedAt:         event.Timestamp(),
	})
}

func (s *archiveService) closeOpen(ctx context.Context, sessionID string, event events.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	practice, err := uow.PracticeSessionRepository().FindOne(ctx,
		specification.BySessionKey{SessionID: sessionID},
		specification.OpenOnly{},
	)
	if err != nil || practice == nil {
		return err
	}
	return uow.PracticeSessionRepository().Close(ctx, practice.Id, event.Timestamp())
}

// openPracticeSession returns the open archive row for sessionID, starting one if needed.
func openPracticeSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionID, mode string, event events.Event) (*entity.PracticeSession, error) {
	repo := uow.PracticeSessionRepository()
	practice, err := repo.FindOne(ctx,
		specification.BySessionKey{SessionID: sessionID},
		specification.OpenOnly{},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if practice != nil {
		return practice, nil
	}

	practice = &entity.PracticeSession{
		Id:        uuid.New(),
		SessionId: sessionID,
		Mode:      mode,
		StartedAt: event.Timestamp(),
	}
	if err := repo.Create(ctx, practice); err != nil {
		return nil, fmt.Errorf("open practice session: %w", err)
	}
	return practice, nil
}
