package kitelog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggerNoFlags(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0)
	l.Printf("Reading file %d of %d", 1, 3)
	l.Println("Done.")
	assert.Equal(t, "Reading file 1 of 3\nDone.\n", buf.String())
}

func TestDurationsFlush(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", 0)
	l.Durations.Record("train", 2*time.Second)
	l.Durations.Record("persist", 15*time.Millisecond)
	l.Durations.Flush(l)

	out := buf.String()
	assert.True(t, strings.Contains(out, "train"))
	assert.True(t, strings.Contains(out, "2s"))
	assert.True(t, strings.Contains(out, "15ms"))
	assert.Empty(t, l.Durations)

	buf.Reset()
	l.Durations.Flush(l)
	assert.Empty(t, buf.String(), "flushing nothing prints nothing")
}
