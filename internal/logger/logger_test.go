package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, INFO, ParseLevel("unknown"))
}

func TestLoggerWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger("rose-test", dir, "INFO")
	l.Debug("CART", "filtered out")
	l.LogReservation("CREATE", "AB12CD34", "reservation stored")
	l.Close()

	name := filepath.Join(dir, "rose-test-"+time.Now().Format("2006-01-02")+".log")
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}

	var categories []string
	for _, e := range entries {
		categories = append(categories, e.Category)
		assert.NotEqual(t, "DEBUG", e.Level)
	}
	assert.Contains(t, categories, "RESERVATION")
	for _, e := range entries {
		if e.Category == "RESERVATION" {
			assert.True(t, strings.Contains(e.Message, "AB12CD34"))
		}
	}
}
