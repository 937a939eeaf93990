package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/docketwatch/docketwatch/app/model"
)

var _ Notifier = (*SMTPNote)(nil)

// SMTPNote sends the digest as a plain-text email through an SMTP relay.
type SMTPNote struct {
	core
	cfg SMTPConfig

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNote(cfg SMTPConfig) *SMTPNote {
	return &SMTPNote{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNote) Close() error {
	return n.finalize(func(subject string, items []model.ItemDetail) error {
		text, err := renderTextDigest(subject, items)
		if err != nil {
			return err
		}

		var msg strings.Builder
		fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.From)
		fmt.Fprintf(&msg, "To: %s\r\n", n.cfg.To)
		fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
		msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(text)

		addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
		auth := smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)
		if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, []byte(msg.String())); err != nil {
			return fmt.Errorf("failed to send notification email: %w", err)
		}
		return nil
	})
}
