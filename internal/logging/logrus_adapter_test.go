package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAdapter(t *testing.T, level logrus.Level) (Logger, *bytes.Buffer) {
	t.Helper()
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "upper-case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	logger, buf := newBufferedAdapter(t, logrus.DebugLevel)

	logger.Debug("budget evaluated", Field{Key: FieldCategory, Value: "Food"})
	logger.Info("transaction added", Field{Key: FieldAmount, Value: "12.50"})
	logger.Warn("low balance", Field{Key: FieldOwner, Value: "alice"})
	logger.Error("save failed", Field{Key: FieldFile, Value: "users.yaml"})

	output := buf.String()
	for _, want := range []string{
		"budget evaluated", "category=Food",
		"transaction added", "amount=12.50",
		"low balance", "owner=alice",
		"save failed", "file_path=users.yaml",
	} {
		assert.Contains(t, output, want)
	}
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedAdapter(t, logrus.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedAdapter(t, logrus.InfoLevel)

	logger.
		WithField(FieldOwner, "alice").
		WithFields(Field{Key: FieldCounterparty, Value: "bob"}).
		WithError(errors.New("lock timeout")).
		Error("transfer failed")

	output := buf.String()
	assert.Contains(t, output, "transfer failed")
	assert.Contains(t, output, "owner=alice")
	assert.Contains(t, output, "counterparty=bob")
	assert.Contains(t, output, "lock timeout")
}

func TestConvertFields(t *testing.T) {
	logrusFields := convertFields([]Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
	})

	assert.Len(t, logrusFields, 2)
	assert.Equal(t, "value1", logrusFields["key1"])
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Empty(t, convertFields(nil))
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	require.NotNil(t, logger)
	logger.Error("nothing to see")
}

func TestMockLogger_SharedSink(t *testing.T) {
	mock := NewMockLogger()

	mock.WithField(FieldOwner, "alice").Info("derived entry")
	mock.Warn("root entry")

	assert.Len(t, mock.GetEntries(), 2)
	assert.True(t, mock.HasEntry("INFO", "derived entry"))
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)

	value, ok := mock.FieldValue("derived entry", FieldOwner)
	require.True(t, ok)
	assert.Equal(t, "alice", value)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestLoggerImplementations(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
