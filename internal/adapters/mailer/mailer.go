// Package mailer sends the contact-form notification mail to the sales inbox.
package mailer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type Mailer struct {
	host string
	port int
	user string
	pass string
	to   string
}

func New(host string, port int, user, pass, to string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, to: to}
}

// Configured reports whether SMTP settings are complete; an unconfigured
// mailer silently skips sending.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.port > 0 && m.user != "" && m.to != ""
}

func (m *Mailer) LeadCreated(l domain.Lead) error {
	if !m.Configured() {
		log.Warn().Msg("smtp not configured, lead mail skipped")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Имя: %s\nТелефон: %s\nEmail: %s\n", l.Name, l.Phone, l.Email)
	model := l.Model
	if model == "" {
		model = "не указано"
	}
	fmt.Fprintf(&b, "Модель: %s\n\n", model)
	msg := l.Message
	if msg == "" {
		msg = "нет"
	}
	fmt.Fprintf(&b, "Сообщение:\n%s\n", msg)

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.user)
	mail.SetHeader("To", m.to)
	mail.SetHeader("Subject", fmt.Sprintf("Новая заявка с сайта: %s", l.Name))
	mail.SetBody("text/plain", b.String())

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(mail)
}
