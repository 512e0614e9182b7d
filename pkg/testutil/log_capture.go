// Package testutil provides helpers shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	log "github.com/lucas-albers-lz4/upgrade-component/pkg/log"
)

// CaptureJSONLogs runs testFunc with the logger writing to a buffer at
// logLevel and returns the raw output plus one decoded map per log line.
// The previous output and level are restored afterwards.
//
//	_, logs, err := testutil.CaptureJSONLogs(log.LevelInfo, func() {
//	    log.Warn("Version is not a valid image tag", "version", "1.0+x")
//	})
//	require.NoError(t, err)
//	testutil.AssertLogContainsJSON(t, logs, map[string]interface{}{"level": "WARN"})
func CaptureJSONLogs(logLevel log.Level, testFunc func()) (logOutput string, parsedLogs []map[string]interface{}, err error) {
	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	originalLevel := log.CurrentLevel()
	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	logOutput = logBuf.String()
	if err != nil {
		return logOutput, nil, err
	}

	for i, line := range strings.Split(strings.TrimSpace(logOutput), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if unmarshalErr := json.Unmarshal([]byte(line), &entry); unmarshalErr != nil {
			return logOutput, parsedLogs, fmt.Errorf("failed to unmarshal log line %d as JSON: %w\nLine content: %s", i+1, unmarshalErr, line)
		}
		parsedLogs = append(parsedLogs, entry)
	}
	return logOutput, parsedLogs, nil
}

// AssertLogContainsJSON fails the test unless some entry in logs holds every
// key-value pair of expected.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, expected) {
			return
		}
	}
	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s", indentJSON(expected), indentJSON(logs))
}

// AssertLogDoesNotContainJSON fails the test if some entry in logs holds every
// key-value pair of unexpected.
func AssertLogDoesNotContainJSON(t *testing.T, logs []map[string]interface{}, unexpected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, unexpected) {
			assert.Fail(t, "Unexpected log entry found",
				"Found log entry:\n%s\n\nUnexpected log containing:\n%s", indentJSON(entry), indentJSON(unexpected))
			return
		}
	}
}

// containsAll compares top-level fields only. JSON numbers decode as float64,
// so int expectations are converted before comparing.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			return false
		}
		if f, isFloat := got.(float64); isFloat {
			switch w := want.(type) {
			case int:
				want = float64(w)
			case int64:
				want = float64(w)
			}
			if f != want {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func indentJSON(v interface{}) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
