package billing

import (
	"context"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
)

// SmsGateway sends a single SMS to a normalized 254XXXXXXXXX mobile number.
// Implementations live in infrastructure; sends are best-effort and callers
// decide whether a failure is fatal.
type SmsGateway interface {
	SendSMS(ctx context.Context, mobile, message string) error
}

// LicenseClient updates the license expiry date on a client's deployed
// backend. The operation is all-or-nothing; there are no partial retries.
type LicenseClient interface {
	ExtendLicense(ctx context.Context, creds partner.LicenseCredentials, expiry time.Time) error
}
