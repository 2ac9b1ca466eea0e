// Package contact implements the contact form: a draft of three text fields
// and the construction of the mailto: URI that hands the draft over to the
// visitor's mail client.
package contact

import (
	"fmt"
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way browsers' encodeURIComponent
// does: ASCII letters, digits and - _ . ! ~ * ' ( ) are kept, every other
// byte of the UTF-8 encoding becomes %XX.
func EncodeURIComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// ComposeBody lays out the message body sent to the mail client.
func ComposeBody(senderName, messageBody string) string {
	return "Name: " + senderName + "\n\nMessage:\n" + messageBody
}

// BuildMailto returns mailto:{recipient}?subject={subject}&body={body} with
// subject and body percent-encoded. The recipient is inserted verbatim.
func BuildMailto(recipient, subject, body string) string {
	return "mailto:" + recipient +
		"?subject=" + EncodeURIComponent(subject) +
		"&body=" + EncodeURIComponent(body)
}

// Message is a decoded mailto: URI.
type Message struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// ParseMailto decodes a URI produced by BuildMailto.
func ParseMailto(uri string) (Message, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Message{}, fmt.Errorf("parsing mailto URI: %w", err)
	}
	if u.Scheme != "mailto" {
		return Message{}, fmt.Errorf("unexpected scheme %q", u.Scheme)
	}

	recipient, err := url.PathUnescape(u.Opaque)
	if err != nil {
		return Message{}, fmt.Errorf("decoding recipient: %w", err)
	}
	if recipient == "" {
		return Message{}, fmt.Errorf("mailto URI has no recipient")
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return Message{}, fmt.Errorf("decoding query: %w", err)
	}

	return Message{
		Recipient: recipient,
		Subject:   query.Get("subject"),
		Body:      query.Get("body"),
	}, nil
}
