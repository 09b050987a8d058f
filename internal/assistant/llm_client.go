package assistant

import "context"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one provider-neutral conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is a language model provider.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// missingCredentialClient stands in for the primary provider when no API key
// is configured. Every request fails with ErrMissingCredential.
type missingCredentialClient struct{}

// NewMissingCredentialClient returns a client that always reports a missing key.
func NewMissingCredentialClient() LLMClient { return missingCredentialClient{} }

func (missingCredentialClient) Complete(context.Context, LLMRequest) (LLMResponse, error) {
	return LLMResponse{}, ErrMissingCredential
}
