package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var confirmed = BookingConfirmedV1{
	BookingID: "b-1",
	Code:      "TT-1510-1330-05",
	Service:   "certification",
	Counter:   "07",
	Date:      "2026-10-15",
	Slot:      "13:30 - 14:00",
}

func TestNewEnvelope(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	env, err := NewEnvelope(confirmed, at)
	require.NoError(t, err)

	assert.Equal(t, "portal.booking.confirmed.v1", env.EventType)
	assert.Equal(t, "booking:b-1", env.Aggregate)
	assert.Equal(t, Source, env.Source)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.True(t, env.OccurredAt.Equal(at))

	var decoded BookingConfirmedV1
	require.NoError(t, json.Unmarshal(env.Payload, &decoded))
	assert.Equal(t, confirmed, decoded)

	other, err := NewEnvelope(confirmed, at)
	require.NoError(t, err)
	assert.NotEqual(t, env.EventID, other.EventID)
}

func TestNewEnvelopeRejectsInvalidEvents(t *testing.T) {
	_, err := NewEnvelope(nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewEnvelope(BookingConfirmedV1{Code: "TT-1"}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidEvent, "booking id required")
}

type stubSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (s *stubSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSPublisher(t *testing.T) {
	stub := &stubSQS{}
	pub := newSQSPublisher(stub, "https://sqs.local/queue/bookings", nil)
	env, err := NewEnvelope(confirmed, time.Now())
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), env))
	assert.Equal(t, "https://sqs.local/queue/bookings", aws.ToString(stub.input.QueueUrl))

	var sent Envelope
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(stub.input.MessageBody)), &sent))
	assert.Equal(t, env.EventID, sent.EventID)
	assert.Equal(t, env.EventType, aws.ToString(stub.input.MessageAttributes["event_type"].StringValue))
	assert.Equal(t, "booking:b-1", aws.ToString(stub.input.MessageAttributes["aggregate"].StringValue))

	stub.err = errors.New("throttled")
	assert.Error(t, pub.Publish(context.Background(), env))
}

func TestSQSPublisherRequiresQueue(t *testing.T) {
	assert.Panics(t, func() { newSQSPublisher(&stubSQS{}, "", nil) })
}

func TestMemoryPublisher(t *testing.T) {
	pub := NewMemoryPublisher(1)
	env, err := NewEnvelope(confirmed, time.Now())
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), env))
	got := <-pub.Events()
	assert.Equal(t, env.EventID, got.EventID)

	// A full buffer blocks until the context ends.
	require.NoError(t, pub.Publish(context.Background(), env))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, env), context.Canceled)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Envelope{}))
}
