package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoggerCreation(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"defaults to warn level":         testDefaultsToWarn,
		"fails on unknown level":         testFailsOnUnknownLevel,
		"writes json when asked to":      testWritesJSON,
		"null logger records all levels": testNullLoggerRecordsTrace,
	} {
		t.Run(scenario, fn)
	}
}

func TestLoggerFields(t *testing.T) {
	log, hook := NewNullLogger()

	log.WithFields(Fields{
		FieldPackage:  "logger",
		FieldFunction: "TestLoggerFields",
	}).WithField("attempt", 2).Error(errors.New("boom"), "Something failed.")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.ErrorLevel, entry.Level)
	require.Equal(t, "Something failed.", entry.Message)
	require.Equal(t, "logger", entry.Data[FieldPackage])
	require.Equal(t, "TestLoggerFields", entry.Data[FieldFunction])
	require.Equal(t, 2, entry.Data["attempt"])
	require.EqualError(t, entry.Data[logrus.ErrorKey].(error), "boom")
}

func testDefaultsToWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithOutput(Config{}, buf)
	require.NoError(t, err)

	log.Info("hidden")
	require.Zero(t, buf.Len())

	log.Warn("shown")
	require.Contains(t, buf.String(), "shown")
}

func testFailsOnUnknownLevel(t *testing.T) {
	log, err := NewWithOutput(Config{Level: "loud"}, &bytes.Buffer{})
	require.Nil(t, log)
	require.Error(t, err)
}

func testWritesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithOutput(Config{Level: "info", Format: "json"}, buf)
	require.NoError(t, err)

	log.WithField(FieldPackage, "logger").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "logger", entry[FieldPackage])
}

func testNullLoggerRecordsTrace(t *testing.T) {
	log, hook := NewNullLogger()
	log.Trace("tiny")

	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, logrus.TraceLevel, hook.LastEntry().Level)
}
