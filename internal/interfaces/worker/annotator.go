// Package worker consumes submitted documents from Kafka, annotates them and
// publishes the annotated documents.
package worker

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/pkg/errors"
)

// SourceName identifies this process in produced envelopes.
const SourceName = "timexnorm-worker"

// MessageRecorder receives per-message outcomes.  *prometheus.ServiceMetrics
// satisfies it.
type MessageRecorder interface {
	RecordMessage(topic string, err error, duration time.Duration)
	RecordDeadLetter(topic, reason string)
}

// Config names the topics of the pipeline.
type Config struct {
	InputTopic      string
	OutputTopic     string
	DeadLetterTopic string
}

// DefaultConfig returns the standard pipeline topics.
func DefaultConfig() Config {
	return Config{
		InputTopic:      kafka.TopicDocuments,
		OutputTopic:     kafka.TopicAnnotations,
		DeadLetterTopic: kafka.TopicDeadLetter,
	}
}

// Annotator is the handler of the document topic.
type Annotator struct {
	cfg      Config
	svc      annotation.Service
	out      kafka.Publisher
	logger   logging.Logger
	recorder MessageRecorder
}

// NewAnnotator creates an Annotator.  recorder may be nil.
func NewAnnotator(cfg Config, svc annotation.Service, out kafka.Publisher, logger logging.Logger, recorder MessageRecorder) (*Annotator, error) {
	if svc == nil {
		return nil, errors.InvalidParam("annotation service is required")
	}
	if out == nil {
		return nil, errors.InvalidParam("publisher is required")
	}
	if cfg.OutputTopic == "" {
		return nil, errors.InvalidParam("output topic is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Annotator{
		cfg:      cfg,
		svc:      svc,
		out:      out,
		logger:   logger.Named("annotator"),
		recorder: recorder,
	}, nil
}

// Register subscribes the annotator to its input topic.
func (a *Annotator) Register(c *kafka.Consumer) {
	c.Subscribe(a.cfg.InputTopic, a.Handle)
}

// Handle processes one message of the input topic.  Messages that can never
// succeed (malformed envelopes, invalid documents) are parked on the
// dead-letter topic immediately and acknowledged; any other error is
// returned so the consumer retries.
func (a *Annotator) Handle(ctx context.Context, msg *kafka.Message) (err error) {
	start := time.Now()
	defer func() {
		if a.recorder != nil {
			a.recorder.RecordMessage(msg.Topic, err, time.Since(start))
		}
	}()

	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return a.reject(ctx, msg, err)
	}
	if env.EventType != kafka.EventDocumentSubmitted {
		a.logger.Debug("skipping event", logging.String("event_type", env.EventType))
		return nil
	}

	doc := &annotation.Document{}
	if err := env.DecodePayload(doc); err != nil {
		return a.reject(ctx, msg, err)
	}
	if doc.ID == "" {
		doc.ID = env.Key
	}
	log := a.logger.With(logging.DocumentID(doc.ID), logging.String("event_id", env.EventID))

	annotated, err := a.svc.Annotate(ctx, doc)
	if err != nil {
		if errors.IsClientError(errors.GetCode(err)) {
			return a.reject(ctx, msg, err)
		}
		log.Warn("annotation failed, will retry", logging.Err(err))
		return err
	}

	out, err := kafka.NewEventEnvelope(kafka.EventDocumentAnnotated, SourceName, annotated.DocumentID, annotated)
	if err != nil {
		return err
	}
	out.Metadata = map[string]string{
		"run_id":        annotated.RunID,
		"source_event":  env.EventID,
		"default_spans": strconv.Itoa(annotated.DefaultSpans),
	}
	pm, err := out.ToMessage(a.cfg.OutputTopic)
	if err != nil {
		return err
	}
	if err := a.out.Publish(ctx, pm); err != nil {
		log.Error("publish annotated document failed", logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publish annotated document")
	}
	log.Info("document published",
		logging.Int("annotations", len(annotated.Annotations)),
		logging.String("topic", a.cfg.OutputTopic))
	return nil
}

// reject parks msg on the dead-letter topic with the failure reason in the
// headers.  Without a dead-letter topic the message is dropped.
func (a *Annotator) reject(ctx context.Context, msg *kafka.Message, cause error) error {
	code := string(errors.GetCode(cause))
	a.logger.Warn("message rejected",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.String("code", code),
		logging.Err(cause))
	if a.cfg.DeadLetterTopic == "" {
		return nil
	}

	headers := make(map[string]string, len(msg.Headers)+4)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[kafka.HeaderOriginalTopic] = msg.Topic
	headers[kafka.HeaderOriginalOffset] = strconv.FormatInt(msg.Offset, 10)
	headers[kafka.HeaderError] = cause.Error()
	headers[kafka.HeaderAttempts] = "1"

	dl := &kafka.ProducerMessage{Topic: a.cfg.DeadLetterTopic, Key: msg.Key, Value: msg.Value, Headers: headers}
	if err := a.out.Publish(ctx, dl); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publish dead letter")
	}
	if a.recorder != nil {
		a.recorder.RecordDeadLetter(a.cfg.DeadLetterTopic, code)
	}
	return nil
}

//Personal.AI order the ending
