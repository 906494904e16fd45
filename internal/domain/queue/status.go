package queue

import "github.com/klmalviya77/trimtime-queue-master/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusWaiting, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsOpen reports whether a booking still occupies the customer's slot
// at the shop (queued or on the chair).
func IsOpen(s Status) bool {
	return s == StatusWaiting || s == StatusInProgress
}

// ===============================
// Transitions
// ===============================

// CanStart: only a waiting booking can move to the chair.
func CanStart(current Status) error {
	if current != StatusWaiting {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete: only an in-progress booking can be completed.
func CanComplete(current Status) error {
	if current != StatusInProgress {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel: a customer may only cancel while still waiting.
func CanCancel(current Status) error {
	if current != StatusWaiting {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanMarkNoShow: only a waiting booking can be marked no-show.
func CanMarkNoShow(current Status) error {
	if current != StatusWaiting {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
