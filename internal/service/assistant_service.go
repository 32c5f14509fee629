package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/assistant"
	"github.com/mmynk/splitledger/pkg/api"
)

// AssistantService implements the Connect AssistantService.
type AssistantService struct {
	assistant *assistant.Assistant
}

var _ api.AssistantServiceHandler = (*AssistantService)(nil)

// NewAssistantService creates an AssistantService.
func NewAssistantService(a *assistant.Assistant) *AssistantService {
	return &AssistantService{assistant: a}
}

// Ask answers a free-text question about the ledger.
func (s *AssistantService) Ask(ctx context.Context, req *connect.Request[api.AskRequest]) (*connect.Response[api.AskResponse], error) {
	slog.Info("Ask request received", "query_length", len(req.Msg.Query))

	reply, err := s.assistant.Ask(ctx, assistant.Question{
		Query:   req.Msg.Query,
		UserID:  req.Msg.UserID,
		GroupID: req.Msg.GroupID,
	})
	if err != nil {
		return nil, fail("Ask", err)
	}

	return connect.NewResponse(&api.AskResponse{
		Answer:   reply.Text,
		Strategy: reply.Strategy,
		Cached:   reply.Cached,
	}), nil
}
