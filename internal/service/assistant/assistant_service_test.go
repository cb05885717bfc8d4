package assistant

import (
	"context"
	"testing"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestAssistantService_Reply(t *testing.T) {
	mockCompleter := &MockCompleter{}
	service := NewAssistantService(mockCompleter, nil)

	ctx := context.Background()
	mockCompleter.On("Complete", ctx, "what's my baggage allowance?").
		Return("Usually 23kg for checked bags.", nil).Once()

	reply, err := service.Reply(ctx, "alice", "what's my baggage allowance?")

	assert.NoError(t, err)
	assert.Equal(t, "Usually 23kg for checked bags.", reply)
}

func TestAssistantService_Reply_EmptyMessage(t *testing.T) {
	service := NewAssistantService(&MockCompleter{}, nil)

	reply, err := service.Reply(context.Background(), "alice", "   ")

	assert.Empty(t, reply)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAssistantService_Reply_ProviderFailureFallsBack(t *testing.T) {
	mockCompleter := &MockCompleter{}
	service := NewAssistantService(mockCompleter, nil)

	ctx := context.Background()
	mockCompleter.On("Complete", ctx, "hello").
		Return("", domain.ErrUpstreamUnavailable).Once()

	reply, err := service.Reply(ctx, "alice", "hello")

	assert.NoError(t, err)
	assert.Equal(t, fallbackReply, reply)
}
