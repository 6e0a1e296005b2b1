package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/verdant-labs/climate-receivables/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRiskAlert notifies the operations address that a receivable was scored
// at an elevated risk level
func (s *Sender) SendRiskAlert(to, receivableID, level string, score, discountRate float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Receivable Risk Alert: %s", level)

	body := fmt.Sprintf(
		"Receivable %s was scored at risk level %s.\n\n"+
			"Composite risk score: %.1f\n"+
			"Applied discount rate: %.2f%%\n"+
			"Scored at: %s\n\n"+
			"Please review the receivable in the dashboard.\n",
		receivableID, level, score, discountRate, time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nClimate Receivables Service"
	e.Text = []byte(body)

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send risk alert to %s: %v", to, err)
		return fmt.Errorf("failed to send risk alert: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendPaymentReminder sends an upcoming or overdue payment reminder to a payer
func (s *Sender) SendPaymentReminder(to, payerName string, dueDate time.Time, amount float64, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = "Overdue Receivable Payment Notification"
	} else {
		e.Subject = "Upcoming Receivable Payment Reminder"
	}

	body := fmt.Sprintf("Dear %s,\n\n", payerName)
	if isOverdue {
		body += fmt.Sprintf(
			"Your payment of %.2f USD was due on %s and is now overdue.\n"+
				"Please make the payment as soon as possible.\n",
			amount, dueDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your payment of %.2f USD is due on %s.\n"+
				"Please ensure the payment is scheduled.\n",
			amount, dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nClimate Receivables Service"
	e.Text = []byte(body)

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send payment reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send payment reminder: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	return e.Send(addr, auth)
}
