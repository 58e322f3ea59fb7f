package emailsvc

import (
	"fmt"
	"net/mail"

	"gopkg.in/gomail.v2"

	"github.com/trezcool/darasa/core"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	from       string
	subjPrefix string
	dialer     sender
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) core.EmailService {
	return &smtpService{
		from:       conf.DefaultFromEmail.String(),
		subjPrefix: "[" + conf.AppName + "] ",
		dialer:     gomail.NewDialer(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.User, conf.SMTP.Password),
		logger:     logger,
	}
}

func (svc *smtpService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := svc.sendMessage(msg); err != nil {
				svc.logger.Error(fmt.Sprintf("sending email: %v", err), err)
			}
		}()
	}
}

func (svc *smtpService) sendMessage(msg *core.EmailMessage) error {
	if err := msg.Render(); err != nil {
		return fmt.Errorf("rendering email: %w", err)
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}
	return svc.dialer.DialAndSend(svc.prepare(*msg))
}

func (svc *smtpService) prepare(msg core.EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", svc.from)
	m.SetHeader("To", addrHeaders(m, msg.To)...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", addrHeaders(m, msg.Cc)...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", addrHeaders(m, msg.Bcc)...)
	}
	m.SetHeader("Subject", svc.subjPrefix+msg.Subject)

	m.SetBody("text/plain", msg.TextContent)
	if msg.HTMLContent != "" {
		m.AddAlternative("text/html", msg.HTMLContent)
	}
	return m
}

func addrHeaders(m *gomail.Message, addrs []mail.Address) []string {
	headers := make([]string, 0, len(addrs))
	for _, a := range addrs {
		headers = append(headers, m.FormatAddress(a.Address, a.Name))
	}
	return headers
}
