// Package emailsvc delivers EmailMessages through the console, SendGrid or SMTP.
package emailsvc

import "github.com/trezcool/darasa/core"

// New picks the email service matching conf: console in debug, then SendGrid, then SMTP.
func New(conf *core.Config, logger core.Logger) core.EmailService {
	switch {
	case conf.Debug:
		return NewConsoleService(conf, logger)
	case conf.SendgridAPIKey != "":
		return NewSendgridService(conf, logger)
	case conf.SMTP.Host != "":
		return NewSMTPService(conf, logger)
	default:
		logger.Warn("no email provider configured, emails will be printed")
		return NewConsoleService(conf, logger)
	}
}
