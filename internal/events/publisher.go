package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Publisher delivers envelopes to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

type sqsSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each envelope as a JSON SQS message.
type SQSPublisher struct {
	client   sqsSender
	queueURL string
	logger   *logging.Logger
}

// NewSQSPublisher creates a publisher around the provided SQS client.
func NewSQSPublisher(client *sqs.Client, queueURL string, logger *logging.Logger) *SQSPublisher {
	if client == nil {
		panic("events: SQS client cannot be nil")
	}
	return newSQSPublisher(client, queueURL, logger)
}

func newSQSPublisher(client sqsSender, queueURL string, logger *logging.Logger) *SQSPublisher {
	if queueURL == "" {
		panic("events: SQS queueURL cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SQSPublisher{client: client, queueURL: queueURL, logger: logger}
}

func (p *SQSPublisher) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(env.EventType)},
			"aggregate":  {DataType: aws.String("String"), StringValue: aws.String(env.Aggregate)},
		},
	})
	if err != nil {
		return fmt.Errorf("events: failed to send SQS message: %w", err)
	}
	p.logger.Debug("event published", "event_id", env.EventID.String(), "event_type", env.EventType, "aggregate", env.Aggregate)
	return nil
}

// MemoryPublisher buffers envelopes in a channel.
type MemoryPublisher struct {
	ch chan Envelope
}

// NewMemoryPublisher creates a MemoryPublisher with the provided buffer capacity.
func NewMemoryPublisher(buffer int) *MemoryPublisher {
	if buffer <= 0 {
		buffer = 128
	}
	return &MemoryPublisher{ch: make(chan Envelope, buffer)}
}

// Publish enqueues env or blocks until ctx is done.
func (p *MemoryPublisher) Publish(ctx context.Context, env Envelope) error {
	select {
	case p.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events exposes the buffered envelopes to consumers.
func (p *MemoryPublisher) Events() <-chan Envelope { return p.ch }

// NopPublisher drops every envelope.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }
