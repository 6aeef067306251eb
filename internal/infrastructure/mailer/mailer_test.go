package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVerificationMessage(t *testing.T) {
	m := NewSMTPMailer(Config{
		Host:         "smtp.example.com",
		Port:         587,
		Username:     "noreply@thapar.edu",
		PlatformName: "Thapar OLX",
	})

	msg := m.buildVerificationMessage("rohit@thapar.edu", "<b>Rohit</b>", "https://example.com/verify")

	assert.Equal(t, []string{"rohit@thapar.edu"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Verify your Thapar OLX account"}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "noreply@thapar.edu")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hi &lt;b&gt;Rohit&lt;/b&gt;,")
}
