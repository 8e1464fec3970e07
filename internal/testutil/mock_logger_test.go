package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareEntries(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("annotation").Named("service").With(logging.DocumentID("doc-1"))

	child.Warn("span failed", logging.Expression("the day before"))
	child.Warn("span failed")

	messages := logger.GetMessages()
	assert.Len(t, messages, 2)
	assert.Equal(t, "annotation.service", messages[0].Logger)
	id, ok := messages[0].Field("document_id")
	assert.True(t, ok)
	assert.Equal(t, "doc-1", id)
	_, ok = messages[0].Field("expression")
	assert.True(t, ok)
	assert.Equal(t, 2, logger.Count("warn", "span failed"))
}

//Personal.AI order the ending
