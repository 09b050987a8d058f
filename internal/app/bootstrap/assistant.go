package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/ward-portal/internal/assistant"
	appconfig "github.com/wolfman30/ward-portal/internal/config"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// BuildLLMClient wires the single chat provider named by CHAT_PROVIDER. Each
// utterance goes to that provider only. A provider that cannot be built is
// replaced by the missing-credential client so every reply apologizes.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) assistant.LLMClient {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.UsesBedrock() {
		modelID := strings.TrimSpace(cfg.BedrockModelID)
		if modelID == "" || awsCfg == nil {
			logger.Error("bedrock chat provider selected without model id or aws config; chat replies will apologize")
			return assistant.NewMissingCredentialClient()
		}
		logger.Info("using bedrock chat provider", "model", modelID)
		return assistant.NewBedrockClient(bedrockruntime.NewFromConfig(*awsCfg), modelID)
	}
	if cfg.ChatProvider != "" && cfg.ChatProvider != appconfig.ProviderGemini {
		logger.Warn("unknown chat provider; using gemini", "provider", cfg.ChatProvider)
	}

	gemini, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	switch {
	case errors.Is(err, assistant.ErrMissingCredential):
		logger.Warn("gemini api key not configured; chat replies will apologize")
		return assistant.NewMissingCredentialClient()
	case err != nil:
		logger.Error("failed to create gemini client", "error", err)
		return assistant.NewMissingCredentialClient()
	}
	logger.Info("using gemini chat provider", "model", cfg.GeminiModelID)
	return gemini
}

// BuildOrchestratorConfig maps chat settings onto the orchestrator.
func BuildOrchestratorConfig(cfg *appconfig.Config) assistant.OrchestratorConfig {
	out := assistant.DefaultOrchestratorConfig()
	if cfg == nil {
		return out
	}
	out.Model = cfg.GeminiModelID
	out.Temperature = cfg.ChatTemperature
	if cfg.ChatTopP > 0 {
		out.TopP = cfg.ChatTopP
	}
	if cfg.ChatTimeout > 0 {
		out.Timeout = cfg.ChatTimeout
	}
	return out
}

// BuildHistoryStore keeps chat transcripts in Redis when available.
func BuildHistoryStore(redisClient *redis.Client) assistant.HistoryStore {
	if redisClient == nil {
		return assistant.NewMemoryHistoryStore()
	}
	return assistant.NewRedisHistoryStore(redisClient, 0)
}
