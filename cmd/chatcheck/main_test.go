package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ward-portal/internal/assistant"
	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

type scriptedClient struct {
	text string
	err  error
	reqs []assistant.LLMRequest
}

func (c *scriptedClient) Complete(_ context.Context, req assistant.LLMRequest) (assistant.LLMResponse, error) {
	c.reqs = append(c.reqs, req)
	return assistant.LLMResponse{Text: c.text}, c.err
}

func TestCheckPrintsProviderAndCitizenViews(t *testing.T) {
	client := &scriptedClient{text: "Dạ, cần tờ khai và giấy chứng sinh."}
	orch := assistant.NewOrchestrator(client, assistant.DefaultOrchestratorConfig(), nil, logging.New("error"))

	var out bytes.Buffer
	require.NoError(t, check(context.Background(), client, orch, "Khai sinh?", locale.Vietnamese, &out))

	assert.Contains(t, out.String(), "[provider] OK")
	assert.Contains(t, out.String(), "[citizen sees]\nDạ, cần tờ khai và giấy chứng sinh.")
	require.Len(t, client.reqs, 2)
	assert.Equal(t, client.reqs[0].Messages, client.reqs[1].Messages, "both paths send the same prompt")
}

func TestCheckReportsProviderFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("API key not valid")}
	orch := assistant.NewOrchestrator(client, assistant.DefaultOrchestratorConfig(), nil, logging.New("error"))

	var out bytes.Buffer
	err := check(context.Background(), client, orch, "Xin chào", locale.Vietnamese, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "kind=invalid_credential")
}
