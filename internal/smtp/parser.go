package smtp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jhillyerd/enmime"
)

// ParsedEnvelope carries what the SMTP transport extracts from a raw
// message before handing it to the acceptance pipeline: display headers, a
// plain-text rendering and the untouched payload bytes.
type ParsedEnvelope struct {
	Subject   string
	MessageID string
	// Text is the decoded plain-text rendering. Empty when MIME parsing
	// failed; ingestion continues without it.
	Text string
	// Raw is the payload exactly as received.
	Raw []byte
}

// ParseEnvelope reads the full message payload and decodes headers and the
// text body with enmime. A MIME parse failure is not fatal: the envelope
// degrades to raw bytes only, so heuristic extraction downstream still has
// something to work with.
func ParseEnvelope(r io.Reader) (*ParsedEnvelope, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message payload: %w", err)
	}

	parsed := &ParsedEnvelope{Raw: raw}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return parsed, nil
	}

	parsed.Subject = env.GetHeader("Subject")
	parsed.MessageID = env.GetHeader("Message-Id")
	parsed.Text = env.Text

	return parsed, nil
}
