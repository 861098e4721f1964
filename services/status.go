package services

import "strings"

// Order line statuses as reported by the kitchen.
const (
	StatusPending      = "PENDING"
	StatusCooking      = "COOKING"
	StatusReadyToServe = "READY_TO_SERVE"
	StatusServed       = "SERVED"
)

var statusRank = map[string]int{
	StatusPending:      1,
	StatusCooking:      2,
	StatusReadyToServe: 3,
	StatusServed:       4,
}

// StatusRank orders statuses along their linear progression; unknown
// statuses rank 0.
func StatusRank(status string) int {
	return statusRank[status]
}

// ValidStatusTransition reports whether from -> to is one step forward.
// The progression is linear with no transition backwards.
func ValidStatusTransition(from, to string) bool {
	f, ok := statusRank[from]
	if !ok {
		return false
	}
	t, ok := statusRank[to]
	if !ok {
		return false
	}
	return t == f+1
}

// StatusLabel is the display form of a status ("READY_TO_SERVE" -> "READY TO SERVE").
func StatusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

// StatusBadge pairs a status with a marker for history rendering.
func StatusBadge(status string) string {
	switch status {
	case StatusPending:
		return "⏳"
	case StatusCooking:
		return "🍳"
	case StatusReadyToServe:
		return "🛎"
	case StatusServed:
		return "✅"
	default:
		return "•"
	}
}
