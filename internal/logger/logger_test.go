package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "production")
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())

		l.WithField("order_id", 5).Info("order completed")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "order completed", entry["msg"])
		assert.InDelta(t, 5, entry["order_id"], 0)
	})

	t.Run("development is verbose", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "development")
		assert.Equal(t, logrus.DebugLevel, l.GetLevel())

		l.Debug("tick")
		assert.Contains(t, buf.String(), "tick")
	})
}
