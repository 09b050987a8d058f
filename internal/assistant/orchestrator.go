package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/internal/observability/metrics"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Role marks who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat transcript.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// OrchestratorConfig holds the generation parameters.
type OrchestratorConfig struct {
	Model       string
	Temperature float32
	TopP        float32
	Timeout     time.Duration
}

// DefaultOrchestratorConfig mirrors the portal's production settings.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{Temperature: 0.1, TopP: 0.8, Timeout: 30 * time.Second}
}

// Orchestrator turns a transcript plus a new utterance into exactly one
// assistant message.
type Orchestrator struct {
	client  LLMClient
	cfg     OrchestratorConfig
	metrics *metrics.PortalMetrics
	now     func() time.Time
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewOrchestrator creates an orchestrator around client.
func NewOrchestrator(client LLMClient, cfg OrchestratorConfig, m *metrics.PortalMetrics, logger *logging.Logger) *Orchestrator {
	if client == nil {
		client = NewMissingCredentialClient()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		client:  client,
		cfg:     cfg,
		metrics: m,
		now:     time.Now,
		logger:  logger,
		tracer:  otel.Tracer("ward-portal.internal.assistant"),
	}
}

// Reply sends one request and always returns an assistant message: the model
// text, the localized empty-reply text, or the localized apology for the
// classified failure.
func (o *Orchestrator) Reply(ctx context.Context, history []Message, input string, lang locale.Language) Message {
	msg, _ := o.reply(ctx, history, input, lang)
	return msg
}

func (o *Orchestrator) reply(ctx context.Context, history []Message, input string, lang locale.Language) (Message, ErrorKind) {
	ctx, span := o.tracer.Start(ctx, "assistant.reply")
	defer span.End()

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.client.Complete(ctx, LLMRequest{
		Model:       o.cfg.Model,
		System:      []string{SystemInstruction},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: BuildPrompt(history, input, lang)}},
		Temperature: o.cfg.Temperature,
		TopP:        o.cfg.TopP,
	})
	latency := time.Since(start)

	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		// The caller went away before the provider answered.
		o.metrics.ObserveChatReply("canceled", "", latency)
		o.logger.Debug("assistant request canceled", "latency_ms", latency.Milliseconds())
		return o.message(Apology(KindOther, lang)), KindOther
	}
	if err != nil {
		kind := ClassifyError(err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("assistant.error_kind", string(kind)))
		o.metrics.ObserveChatReply("fallback", string(kind), latency)
		o.logger.Warn("assistant request failed", "kind", string(kind), "error", err, "latency_ms", latency.Milliseconds())
		return o.message(Apology(kind, lang)), kind
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		o.metrics.ObserveChatReply("empty", "", latency)
		return o.message(locale.Strings(lang).EmptyReply), KindNone
	}
	o.metrics.ObserveChatReply("ok", "", latency)
	span.SetAttributes(attribute.Int("assistant.output_tokens", int(resp.Usage.OutputTokens)))
	return o.message(text), KindNone
}

func (o *Orchestrator) message(text string) Message {
	return Message{Role: RoleAssistant, Text: text, Timestamp: o.now().UTC()}
}
