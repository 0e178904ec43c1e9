// Package mailer sends invoice emails over SMTP, optionally with a PDF
// attachment carried base64-encoded in a multipart MIME body.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// sendMail is a seam for smtp.SendMail so tests can capture the wire bytes.
var sendMail = smtp.SendMail

// Mail is one outbound message. PDF may be nil for a plain-text mail.
type Mail struct {
	To            string
	Subject       string
	Body          string
	InvoiceNumber string
	PDF           []byte
}

// SMTPMailer delivers mail through a single SMTP server.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer configures a mailer. user may be empty for servers that do
// not require authentication (local relays, test catchers).
func NewSMTPMailer(addr, from, user, password string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

// Send builds the MIME message and hands it to the SMTP server. The context
// is honored up front; smtp.SendMail itself does not take one.
func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(m.from, mail)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	if err := sendMail(m.addr, m.auth, m.from, []string{mail.To}, msg); err != nil {
		return fmt.Errorf("smtp error: %w", err)
	}
	return nil
}

// buildMessage renders the RFC 5322 message. With a PDF present the result
// is multipart/mixed with the attachment base64-encoded and named after the
// invoice number.
func buildMessage(from string, mail Mail) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", mail.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mail.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if mail.PDF == nil {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(mail.Body)
		return buf.Bytes(), nil
	}

	w := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())

	text, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(mail.Body)); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("invoice-%s.pdf", mail.InvoiceNumber)
	att, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filename)},
	})
	if err != nil {
		return nil, err
	}

	enc := base64.StdEncoding.EncodeToString(mail.PDF)
	for len(enc) > 0 {
		n := 76
		if len(enc) < n {
			n = len(enc)
		}
		if _, err := att.Write([]byte(enc[:n] + "\r\n")); err != nil {
			return nil, err
		}
		enc = enc[n:]
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
