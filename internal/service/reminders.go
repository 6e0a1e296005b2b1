package service

import (
	"time"
)

// reminderWindow is how far ahead of the due date payers are reminded
const reminderWindow = 7 * 24 * time.Hour

// SendDueReminders emails every payer with a receivable that is overdue or
// due within the reminder window. Individual send failures are logged and do
// not stop the run.
func (s *Service) SendDueReminders() {
	if s.mailer == nil {
		return
	}
	receivables, err := s.repo.ListReceivables()
	if err != nil {
		s.log.Errorf("Reminder run failed to list receivables: %v", err)
		return
	}

	now := time.Now()
	sent := 0
	for _, rec := range receivables {
		overdue := rec.DueDate.Before(now)
		upcoming := !overdue && rec.DueDate.Sub(now) <= reminderWindow
		if !overdue && !upcoming {
			continue
		}
		payer, err := s.repo.FindPayerByID(rec.PayerID)
		if err != nil {
			s.log.Warnf("Reminder skipped, payer lookup failed for receivable %s: %v", rec.ID, err)
			continue
		}
		if payer.Email == "" {
			continue
		}
		if err := s.mailer.SendPaymentReminder(payer.Email, payer.Name, rec.DueDate, rec.Amount, overdue); err != nil {
			continue // already logged by the sender
		}
		sent++
	}
	s.log.Infof("Payment reminder run finished: %d emails sent", sent)
}
