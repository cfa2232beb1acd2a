package domain

import "time"

// Usage event outcomes.
const (
	UsageStatusSuccess = "success"
	UsageStatusError   = "error"
)

// UsageEvent records one outbound provider call, success or failure.
// Append-only and best-effort: failure to persist an event never fails the
// call that produced it.
type UsageEvent struct {
	UsageID      string
	Provider     ProviderName
	Kind         UsageKind
	Date         *time.Time
	StartDate    *time.Time
	EndDate      *time.Time
	Status       string
	HTTPStatus   *int
	ErrorCode    *ErrorCode
	ErrorMessage string
	CreatedAt    time.Time
}

// NewUsageSuccess builds a success event for a single-date call.
func NewUsageSuccess(provider ProviderName, kind UsageKind, date *time.Time, httpStatus int) UsageEvent {
	return UsageEvent{
		Provider:   provider,
		Kind:       kind,
		Date:       date,
		Status:     UsageStatusSuccess,
		HTTPStatus: intPtr(httpStatus),
	}
}

// NewUsageError builds an error event from a provider failure.
func NewUsageError(provider ProviderName, kind UsageKind, date *time.Time, perr *ProviderError) UsageEvent {
	ev := UsageEvent{
		Provider:     provider,
		Kind:         kind,
		Date:         date,
		Status:       UsageStatusError,
		ErrorMessage: perr.Message,
	}
	code := perr.Code
	ev.ErrorCode = &code
	if perr.HTTPStatus > 0 {
		ev.HTTPStatus = intPtr(perr.HTTPStatus)
	}
	return ev
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
