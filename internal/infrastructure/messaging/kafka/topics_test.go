package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockKafkaConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions []kafka.Partition
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(...string) ([]kafka.Partition, error) {
	return m.partitions, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := map[string]string{"id": "doc-1", "dct": "20120608"}
	env, err := NewEventEnvelope(EventDocumentSubmitted, "timexnorm-cli", "doc-1", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.WithinDuration(t, time.Now(), env.Timestamp, time.Minute)

	msg, err := env.ToMessage(TopicDocuments)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", string(msg.Key))
	assert.Equal(t, EventDocumentSubmitted, msg.Headers["event_type"])

	decoded, err := MessageToEventEnvelope(&Message{Value: msg.Value})
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, payload, got)
}

func TestMessageToEventEnvelope_Errors(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.Error(t, err)
	_, err = MessageToEventEnvelope(&Message{Value: []byte("not json")})
	assert.Error(t, err)

	var target map[string]string
	assert.Error(t, (&EventEnvelope{}).DecodePayload(&target))
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics(6, 3)
	require.Len(t, topics, 3)
	assert.Equal(t, TopicDocuments, topics[0].Name)
	assert.Equal(t, 6, topics[0].NumPartitions)
	assert.Equal(t, TopicDeadLetter, topics[2].Name)
	assert.Equal(t, 1, topics[2].NumPartitions)
}

func TestTopicManager_EnsureTopics(t *testing.T) {
	conn := &mockKafkaConn{}
	m := NewTopicManagerWithConn(conn, nil)

	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics(3, 1)))
	require.Len(t, conn.created, 3)
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)
}

func TestTopicManager_CreateTopic(t *testing.T) {
	ctx := context.Background()

	m := NewTopicManagerWithConn(&mockKafkaConn{}, nil)
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 0, ReplicationFactor: 1}))

	exists := NewTopicManagerWithConn(&mockKafkaConn{createErr: kafka.TopicAlreadyExists}, nil)
	assert.NoError(t, exists.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	racing := NewTopicManagerWithConn(&mockKafkaConn{
		createErr:  errors.New("timeout"),
		partitions: []kafka.Partition{{Topic: "t"}},
	}, nil)
	assert.NoError(t, racing.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	failing := NewTopicManagerWithConn(&mockKafkaConn{createErr: errors.New("timeout")}, nil)
	assert.Error(t, failing.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

//Personal.AI order the ending
