package transcript

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "You hesitate. Fatal mistake.", PlainText("You hesitate. <strong>Fatal mistake</strong>."))
	assert.Equal(t, `"Two enter." & one leaves`, PlainText("&quot;Two enter.&quot; &amp; one leaves"))
	assert.Empty(t, PlainText("<br/>"))
}

func TestWritePDF(t *testing.T) {
	now := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)
	entries := []Entry{
		{At: now, Speaker: Narrator, Text: "<strong>You wake up in a white room.</strong>"},
		{At: now, Speaker: Player, Text: "Who are you?"},
		{At: now, Speaker: Narrator, Text: "I should be asking you that. Café?"},
		{At: now, Speaker: Narrator, Text: "<em></em>"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Ada's confession", entries))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestWritePDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Nothing to confess", nil))
	assert.NotZero(t, buf.Len())
}
