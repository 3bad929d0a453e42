package ingest

import (
	"bytes"
	"strings"
)

// MaxBodyLength caps each stored body. Oversized bodies are truncated,
// never rejected.
const MaxBodyLength = 200000

// htmlMarker is the header fragment the raw-payload scan looks for.
var htmlMarker = []byte("content-type: text/html")

// ExtractBodies recovers the plain-text and HTML bodies of an inbound
// message. The text body is the transport-provided rendering, taken
// verbatim; an empty rendering stays empty rather than failing ingestion.
//
// HTML extraction is best-effort and deliberately not a MIME parser: it
// scans the raw payload case-insensitively for a text/html content-type
// header and treats everything after the next blank line as the HTML body.
// It takes the first HTML part only and performs no transfer-decoding or
// charset handling. When the marker or blank-line boundary is missing the
// HTML body is simply absent.
func ExtractBodies(text string, raw []byte) (textBody, htmlBody string) {
	textBody = truncateBody(text)
	htmlBody = truncateBody(scanHTMLBody(raw))
	return textBody, htmlBody
}

// scanHTMLBody locates the HTML part in a raw message payload.
func scanHTMLBody(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	idx := bytes.Index(bytes.ToLower(raw), htmlMarker)
	if idx == -1 {
		return ""
	}

	rest := raw[idx:]
	bodyStart := bytes.Index(rest, []byte("\r\n\r\n"))
	if bodyStart == -1 {
		return ""
	}

	return strings.TrimSpace(string(rest[bodyStart+4:]))
}

// truncateBody caps a body at MaxBodyLength.
func truncateBody(s string) string {
	if len(s) > MaxBodyLength {
		return s[:MaxBodyLength]
	}
	return s
}
