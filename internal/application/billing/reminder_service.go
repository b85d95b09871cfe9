package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/identity"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
	"go.uber.org/zap"
)

// ReminderRunStore guards a reminder batch against duplicate runs, for
// example a cron double fire. TryBegin returns false when the run key has
// already been claimed for its period.
type ReminderRunStore interface {
	TryBegin(ctx context.Context, runKey string) (bool, error)
}

// ReminderError describes a single recipient that could not be reminded
type ReminderError struct {
	Identifier string `json:"identifier"`
	ClientName string `json:"client_name"`
	Reason     string `json:"reason"`
}

// ReminderRunResult is the outcome of one reminder batch
type ReminderRunResult struct {
	Sent                int             `json:"sent"`
	Skipped             int             `json:"skipped"`
	Errors              []ReminderError `json:"errors"`
	DirectorSummarySent int             `json:"director_summary_sent"`
}

// ReminderConfig carries the company details rendered into reminder messages
type ReminderConfig struct {
	CompanyName string
	BankDetails string
}

// ReminderService runs the periodic payment reminder batches. Sales are
// processed sequentially; a failure for one recipient never aborts the rest.
type ReminderService struct {
	saleRepo     billing.SaleRepository
	clientRepo   partner.ClientRepository
	employeeRepo identity.EmployeeRepository
	smsGateway   billing.SmsGateway
	runs         ReminderRunStore
	cfg          ReminderConfig
	logger       *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	saleRepo billing.SaleRepository,
	clientRepo partner.ClientRepository,
	employeeRepo identity.EmployeeRepository,
	smsGateway billing.SmsGateway,
	runs ReminderRunStore,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		saleRepo:     saleRepo,
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		smsGateway:   smsGateway,
		runs:         runs,
		cfg:          cfg,
		logger:       logger,
	}
}

// RunMonthlyRenewal sends renewal reminders for unpaid sales whose last
// payment, if any, fell in the previous calendar month. The due date quoted
// is the 3rd of the current month.
func (s *ReminderService) RunMonthlyRenewal(ctx context.Context, now time.Time) (*ReminderRunResult, error) {
	result := &ReminderRunResult{Errors: []ReminderError{}}

	runKey := fmt.Sprintf("reminder:monthly:%s", now.UTC().Format("2006-01"))
	if !s.beginRun(ctx, runKey) {
		s.logger.Info("monthly renewal run already executed for period", zap.String("run_key", runKey))
		return result, nil
	}

	sales, err := s.saleRepo.FindDueForRenewalReminder(ctx)
	if err != nil {
		return nil, err
	}

	dueDate := time.Date(now.UTC().Year(), now.UTC().Month(), 3, 0, 0, 0, 0, time.UTC)
	var remindedNames []string

	for _, sale := range sales {
		if !lastPaymentQualifiesForRenewal(sale, now) {
			continue
		}

		client, mobile, skip := s.resolveRecipient(ctx, sale, result)
		if skip {
			continue
		}

		message := fmt.Sprintf(
			"Dear %s, this is a friendly reminder that your payment for %s is due by %s. Kindly pay via %s. Thank you, %s.",
			client.DisplayName(), sale.SaleNumber, dueDate.Format("02/01/2006"),
			s.cfg.BankDetails, s.cfg.CompanyName)

		if err := s.smsGateway.SendSMS(ctx, mobile, message); err != nil {
			result.Errors = append(result.Errors, ReminderError{
				Identifier: sale.SaleNumber,
				ClientName: client.DisplayName(),
				Reason:     err.Error(),
			})
			continue
		}

		result.Sent++
		remindedNames = append(remindedNames, client.DisplayName())
	}

	s.sendDirectorSummary(ctx, remindedNames, result, true)

	return result, nil
}

// RunExtensionDue sends reminders for sales whose requested payment
// extension falls due within the next 1 to 3 UTC calendar days, inclusive.
// The director summary is sent only when at least one reminder succeeded.
func (s *ReminderService) RunExtensionDue(ctx context.Context, now time.Time) (*ReminderRunResult, error) {
	result := &ReminderRunResult{Errors: []ReminderError{}}

	runKey := fmt.Sprintf("reminder:extension:%s", now.UTC().Format("2006-01-02"))
	if !s.beginRun(ctx, runKey) {
		s.logger.Info("extension-due run already executed for period", zap.String("run_key", runKey))
		return result, nil
	}

	// Half-open query window: due dates keep their time of day, so the
	// upper bound is the start of day+4 to keep day+3 inclusive.
	from := truncateToUTCDay(now).AddDate(0, 0, 1)
	to := truncateToUTCDay(now).AddDate(0, 0, 4)

	sales, err := s.saleRepo.FindDueForExtensionReminder(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var remindedNames []string

	for _, sale := range sales {
		if sale.PaymentExtensionDueDate == nil {
			continue
		}
		days := calendarDaysBetween(now, *sale.PaymentExtensionDueDate)
		if days < 1 || days > 3 {
			continue
		}

		client, mobile, skip := s.resolveRecipient(ctx, sale, result)
		if skip {
			continue
		}

		message := fmt.Sprintf(
			"Dear %s, your extended payment date for %s falls due on %s. Kindly make your payment of KES %s by then. Thank you, %s.",
			client.DisplayName(), sale.SaleNumber,
			sale.PaymentExtensionDueDate.UTC().Format("02-01-2006"),
			sale.OutstandingAmount().StringFixed(2), s.cfg.CompanyName)

		if err := s.smsGateway.SendSMS(ctx, mobile, message); err != nil {
			result.Errors = append(result.Errors, ReminderError{
				Identifier: sale.SaleNumber,
				ClientName: client.DisplayName(),
				Reason:     err.Error(),
			})
			continue
		}

		result.Sent++
		remindedNames = append(remindedNames, client.DisplayName())
	}

	s.sendDirectorSummary(ctx, remindedNames, result, false)

	return result, nil
}

// beginRun claims the run key. A failing dedup store does not block the
// batch; a missed dedup is preferable to a silently skipped one.
func (s *ReminderService) beginRun(ctx context.Context, runKey string) bool {
	ok, err := s.runs.TryBegin(ctx, runKey)
	if err != nil {
		s.logger.Warn("reminder run dedup store unavailable, proceeding", zap.Error(err))
		return true
	}
	return ok
}

// resolveRecipient loads the sale's client and its normalized mobile.
// Lookup failures and missing phones are recorded on the result; the
// returned skip flag tells the caller to move on.
func (s *ReminderService) resolveRecipient(ctx context.Context, sale *billing.Sale, result *ReminderRunResult) (*partner.Client, string, bool) {
	client, err := s.clientRepo.FindByID(ctx, sale.ClientID)
	if err != nil {
		result.Errors = append(result.Errors, ReminderError{
			Identifier: sale.SaleNumber,
			Reason:     fmt.Sprintf("client lookup failed: %v", err),
		})
		return nil, "", true
	}
	if client == nil {
		result.Skipped++
		result.Errors = append(result.Errors, ReminderError{
			Identifier: sale.SaleNumber,
			Reason:     "client not found",
		})
		return nil, "", true
	}

	mobile, ok := client.PreferredMobile()
	if !ok {
		result.Skipped++
		result.Errors = append(result.Errors, ReminderError{
			Identifier: sale.SaleNumber,
			ClientName: client.DisplayName(),
			Reason:     "no usable phone number",
		})
		return nil, "", true
	}

	return client, mobile, false
}

// sendDirectorSummary fans the batch outcome out to active directors with a
// phone. Failures are logged only and never surface in the result counts
// beyond DirectorSummarySent.
func (s *ReminderService) sendDirectorSummary(ctx context.Context, remindedNames []string, result *ReminderRunResult, sendWhenEmpty bool) {
	if len(remindedNames) == 0 && !sendWhenEmpty {
		return
	}

	var message string
	if len(remindedNames) == 0 {
		message = fmt.Sprintf("Payment reminders run complete. No clients were due for a reminder. %s.", s.cfg.CompanyName)
	} else {
		message = fmt.Sprintf("Payment reminders sent to %s. %s.", joinNames(remindedNames), s.cfg.CompanyName)
	}

	directors, err := s.employeeRepo.FindActiveDirectors(ctx)
	if err != nil {
		s.logger.Error("director summary skipped: lookup failed", zap.Error(err))
		return
	}

	for _, director := range directors {
		mobile, ok := director.Mobile()
		if !ok {
			continue
		}
		if err := s.smsGateway.SendSMS(ctx, mobile, message); err != nil {
			s.logger.Error("director summary SMS failed",
				zap.String("director", director.FullName),
				zap.Error(err))
			continue
		}
		result.DirectorSummarySent++
	}
}

// lastPaymentQualifiesForRenewal is true when the sale has never been paid
// or its most recent PAID installment fell in the previous calendar month.
func lastPaymentQualifiesForRenewal(sale *billing.Sale, now time.Time) bool {
	last := sale.LastPaidInstallment()
	if last == nil {
		return true
	}

	nowUTC := now.UTC()
	prev := time.Date(nowUTC.Year(), nowUTC.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	paid := last.PaidAt.UTC()
	return paid.Year() == prev.Year() && paid.Month() == prev.Month()
}

// calendarDaysBetween returns whole UTC calendar days from now to due.
// Both instants are truncated to UTC midnight before differencing.
func calendarDaysBetween(now, due time.Time) int {
	return int(truncateToUTCDay(due).Sub(truncateToUTCDay(now)).Hours() / 24)
}

func truncateToUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// joinNames joins client names for the director summary: one name verbatim,
// two as "A and B", three or more as "A, B and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
