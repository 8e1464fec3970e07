package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/timexnorm/internal/testutil"
	"github.com/turtacn/timexnorm/pkg/errors"
)

type capturePublisher struct {
	mu   sync.Mutex
	msgs []*kafka.ProducerMessage
	err  error
}

func (p *capturePublisher) Publish(_ context.Context, msg *kafka.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

type recorder struct {
	messages    []error
	deadLetters []string
}

func (r *recorder) RecordMessage(_ string, err error, _ time.Duration) {
	r.messages = append(r.messages, err)
}

func (r *recorder) RecordDeadLetter(_ string, reason string) {
	r.deadLetters = append(r.deadLetters, reason)
}

func newAnnotator(t *testing.T, pub kafka.Publisher, rec MessageRecorder) (*Annotator, *testutil.MockLogger) {
	t.Helper()
	logger := testutil.NewMockLogger()
	svc, err := annotation.NewService(annotation.DefaultServiceConfig(), nil, logger, nil)
	require.NoError(t, err)
	a, err := NewAnnotator(DefaultConfig(), svc, pub, logger, rec)
	require.NoError(t, err)
	return a, logger
}

func submitted(t *testing.T, key string, payload interface{}) *kafka.Message {
	t.Helper()
	env, err := kafka.NewEventEnvelope(kafka.EventDocumentSubmitted, "test", key, payload)
	require.NoError(t, err)
	pm, err := env.ToMessage(kafka.TopicDocuments)
	require.NoError(t, err)
	return &kafka.Message{Topic: pm.Topic, Key: pm.Key, Value: pm.Value, Headers: pm.Headers, Offset: 42}
}

func TestNewAnnotator_Validation(t *testing.T) {
	svc, err := annotation.NewService(annotation.DefaultServiceConfig(), nil, nil, nil)
	require.NoError(t, err)

	_, err = NewAnnotator(DefaultConfig(), nil, &capturePublisher{}, nil, nil)
	assert.Error(t, err)
	_, err = NewAnnotator(DefaultConfig(), svc, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewAnnotator(Config{InputTopic: "in"}, svc, &capturePublisher{}, nil, nil)
	assert.Error(t, err)
}

func TestHandle_PublishesAnnotatedDocument(t *testing.T) {
	pub := &capturePublisher{}
	rec := &recorder{}
	a, logger := newAnnotator(t, pub, rec)

	doc := annotation.Document{
		DCT: "20120608",
		Spans: []annotation.Span{
			{Start: 0, End: 9, Text: "yesterday"},
			{Start: 20, End: 31, Text: "next Friday"},
		},
	}
	require.NoError(t, a.Handle(context.Background(), submitted(t, "doc-7", doc)))

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, kafka.TopicAnnotations, msg.Topic)
	assert.Equal(t, "doc-7", string(msg.Key))
	assert.Equal(t, kafka.EventDocumentAnnotated, msg.Headers["event_type"])

	env, err := kafka.MessageToEventEnvelope(&kafka.Message{Value: msg.Value})
	require.NoError(t, err)
	assert.Equal(t, SourceName, env.Source)
	assert.Equal(t, "0", env.Metadata["default_spans"])
	assert.NotEmpty(t, env.Metadata["run_id"])

	var out annotation.AnnotatedDocument
	require.NoError(t, env.DecodePayload(&out))
	assert.Equal(t, "doc-7", out.DocumentID)
	require.Len(t, out.Annotations, 2)
	assert.Equal(t, "2012-06-07", out.Annotations[0].Result.Value)
	assert.Equal(t, "2012-06-15", out.Annotations[1].Result.Value)
	assert.Len(t, out.Tags, 2)

	assert.Equal(t, []error{nil}, rec.messages)
	assert.Empty(t, rec.deadLetters)
	assert.True(t, logger.HasMessage("info", "document published"))
}

func TestHandle_InvalidDCTGoesToDeadLetter(t *testing.T) {
	pub := &capturePublisher{}
	rec := &recorder{}
	a, _ := newAnnotator(t, pub, rec)

	doc := annotation.Document{ID: "bad", DCT: "June 8", Spans: []annotation.Span{{Start: 0, End: 5, Text: "today"}}}
	msg := submitted(t, "bad", doc)
	require.NoError(t, a.Handle(context.Background(), msg))

	require.Len(t, pub.msgs, 1)
	dl := pub.msgs[0]
	assert.Equal(t, kafka.TopicDeadLetter, dl.Topic)
	assert.Equal(t, msg.Value, dl.Value)
	assert.Equal(t, kafka.TopicDocuments, dl.Headers[kafka.HeaderOriginalTopic])
	assert.Equal(t, "42", dl.Headers[kafka.HeaderOriginalOffset])
	assert.NotEmpty(t, dl.Headers[kafka.HeaderError])
	assert.Equal(t, []string{string(errors.ErrCodeInvalidReferenceDate)}, rec.deadLetters)
}

func TestHandle_MalformedEnvelope(t *testing.T) {
	pub := &capturePublisher{}
	a, _ := newAnnotator(t, pub, nil)

	msg := &kafka.Message{Topic: kafka.TopicDocuments, Value: []byte("{not json")}
	require.NoError(t, a.Handle(context.Background(), msg))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, kafka.TopicDeadLetter, pub.msgs[0].Topic)
}

func TestHandle_SkipsOtherEvents(t *testing.T) {
	pub := &capturePublisher{}
	a, _ := newAnnotator(t, pub, nil)

	env, err := kafka.NewEventEnvelope(kafka.EventDocumentAnnotated, "test", "k", map[string]string{"a": "b"})
	require.NoError(t, err)
	pm, err := env.ToMessage(kafka.TopicDocuments)
	require.NoError(t, err)

	require.NoError(t, a.Handle(context.Background(), &kafka.Message{Topic: pm.Topic, Value: pm.Value}))
	assert.Empty(t, pub.msgs)
}

func TestHandle_PublishFailureIsRetried(t *testing.T) {
	pub := &capturePublisher{err: fmt.Errorf("broker unavailable")}
	rec := &recorder{}
	a, _ := newAnnotator(t, pub, rec)

	doc := annotation.Document{ID: "d", DCT: "20120608", Spans: []annotation.Span{{Start: 0, End: 5, Text: "today"}}}
	err := a.Handle(context.Background(), submitted(t, "d", doc))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessagingError))
	require.Len(t, rec.messages, 1)
	assert.Error(t, rec.messages[0])
}

func TestHandle_NoDeadLetterTopicDrops(t *testing.T) {
	pub := &capturePublisher{}
	svc, err := annotation.NewService(annotation.DefaultServiceConfig(), nil, nil, nil)
	require.NoError(t, err)
	a, err := NewAnnotator(Config{InputTopic: kafka.TopicDocuments, OutputTopic: kafka.TopicAnnotations}, svc, pub, nil, nil)
	require.NoError(t, err)

	require.NoError(t, a.Handle(context.Background(), &kafka.Message{Topic: kafka.TopicDocuments, Value: []byte("[]")}))
	assert.Empty(t, pub.msgs)
}

func TestRegister(t *testing.T) {
	pub := &capturePublisher{}
	a, _ := newAnnotator(t, pub, nil)
	consumer := kafka.NewConsumerWithReader(nil, kafka.ConsumerConfig{GroupID: "g"}, nil, nil)
	a.Register(consumer)
}
