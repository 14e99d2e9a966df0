package mapper

import (
	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/model"

	"gorm.io/datatypes"
)

type PracticeMapper struct{}

func NewPracticeMapper() *PracticeMapper {
	return &PracticeMapper{}
}

// Session Mappers

func (m *PracticeMapper) SessionToEntity(s *model.PracticeSession) *entity.PracticeSession {
	if s == nil {
		return nil
	}
	return &entity.PracticeSession{
		Id:        s.Id,
		SessionId: s.SessionId,
		Mode:      s.Mode,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

func (m *PracticeMapper) SessionToModel(s *entity.PracticeSession) *model.PracticeSession {
	if s == nil {
		return nil
	}
	return &model.PracticeSession{
		Id:        s.Id,
		SessionId: s.SessionId,
		Mode:      s.Mode,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

// Message Mappers

func (m *PracticeMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &entity.ConversationMessage{
		Id:                msg.Id,
		PracticeSessionId: msg.PracticeSessionId,
		Role:              msg.Role,
		Content:           msg.Content,
		CreatedAt:         msg.CreatedAt,
	}
}

func (m *PracticeMapper) MessageToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &model.ConversationMessage{
		Id:                msg.Id,
		PracticeSessionId: msg.PracticeSessionId,
		Role:              msg.Role,
		Content:           msg.Content,
		CreatedAt:         msg.CreatedAt,
	}
}

func (m *PracticeMapper) MessagesToEntities(msgs []*model.ConversationMessage) []*entity.ConversationMessage {
	out := make([]*entity.ConversationMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = m.MessageToEntity(msg)
	}
	return out
}

// Grammar Error Mappers

func (m *PracticeMapper) GrammarErrorToEntity(g *model.GrammarError) *entity.GrammarError {
	if g == nil {
		return nil
	}
	return &entity.GrammarError{
		Id:                g.Id,
		PracticeSessionId: g.PracticeSessionId,
		MessageId:         g.MessageId,
		Original:          g.Original,
		Corrected:         g.Corrected,
		Explanation:       g.Explanation,
		CreatedAt:         g.CreatedAt,
	}
}

func (m *PracticeMapper) GrammarErrorToModel(g *entity.GrammarError) *model.GrammarError {
	if g == nil {
		return nil
	}
	return &model.GrammarError{
		Id:                g.Id,
		PracticeSessionId: g.PracticeSessionId,
		MessageId:         g.MessageId,
		Original:          g.Original,
		Corrected:         g.Corrected,
		Explanation:       g.Explanation,
		CreatedAt:         g.CreatedAt,
	}
}

// Feedback Mappers

func (m *PracticeMapper) FeedbackToEntity(f *model.FeedbackReport) *entity.FeedbackReport {
	if f == nil {
		return nil
	}
	return &entity.FeedbackReport{
		Id:                f.Id,
		PracticeSessionId: f.PracticeSessionId,
		OverallScore:      f.OverallScore,
		TotalMessages:     f.TotalMessages,
		Report:            []byte(f.Report),
		CreatedAt:         f.CreatedAt,
	}
}

func (m *PracticeMapper) FeedbackToModel(f *entity.FeedbackReport) *model.FeedbackReport {
	if f == nil {
		return nil
	}
	return &model.FeedbackReport{
		Id:                f.Id,
		PracticeSessionId: f.PracticeSessionId,
		OverallScore:      f.OverallScore,
		TotalMessages:     f.TotalMessages,
		Report:            datatypes.JSON(f.Report),
		CreatedAt:         f.CreatedAt,
	}
}
