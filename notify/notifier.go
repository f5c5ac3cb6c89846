package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"it_inventory/apperr"
	"it_inventory/models"
)

const sendTimeout = 30 * time.Second

// Notifier sends borrower mail in the background.
type Notifier struct {
	mailer Mailer
	log    *slog.Logger
	wg     sync.WaitGroup

	// OnResult, when set, observes every delivery attempt.
	OnResult func(kind string, err error)
}

func NewNotifier(m Mailer, log *slog.Logger) *Notifier {
	return &Notifier{mailer: m, log: log}
}

func (n *Notifier) send(ctx context.Context, kind string, build func(*models.BorrowRecord) (Message, error), rec *models.BorrowRecord) error {
	msg, err := build(rec)
	if err == nil {
		err = n.mailer.Send(ctx, msg)
	}
	if n.OnResult != nil {
		n.OnResult(kind, err)
	}
	if err != nil {
		derr := apperr.Dependency("send "+kind+" e-mail", err)
		n.log.Warn("notification failed",
			"kind", derr.Kind, "mail", kind, "borrow_id", rec.ID, "err", err)
		return derr
	}
	return nil
}

func (n *Notifier) async(kind string, build func(*models.BorrowRecord) (Message, error), rec *models.BorrowRecord) {
	if recipient(rec) == "" {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		_ = n.send(ctx, kind, build, rec)
	}()
}

// BorrowConfirmed queues the release confirmation when the borrower has an
// e-mail address.
func (n *Notifier) BorrowConfirmed(rec *models.BorrowRecord) {
	n.async("borrow_confirmation", BorrowConfirmation, rec)
}

func (n *Notifier) ReturnConfirmed(rec *models.BorrowRecord) {
	n.async("return_confirmation", ReturnConfirmation, rec)
}

// Wait blocks until queued sends finish.
func (n *Notifier) Wait() { n.wg.Wait() }

type ReminderResult struct {
	TotalRecords int `json:"totalRecords"`
	EmailsSent   int `json:"emailsSent"`
}

// SendReminders mails every record synchronously and counts the successes.
func (n *Notifier) SendReminders(ctx context.Context, recs []models.BorrowRecord) ReminderResult {
	res := ReminderResult{TotalRecords: len(recs)}
	for i := range recs {
		if recipient(&recs[i]) == "" {
			continue
		}
		if n.send(ctx, "return_reminder", ReturnReminder, &recs[i]) == nil {
			res.EmailsSent++
		}
	}
	return res
}
