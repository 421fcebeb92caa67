package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithAppField(t *testing.T) {
	log := New("debug")
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithField("incident_id", "abc").Debug("Incident reported")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, AppName, record["app"])
	assert.Equal(t, "Incident reported", record["message"])
	assert.Equal(t, "abc", record["incident_id"])
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New("verbose")

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
