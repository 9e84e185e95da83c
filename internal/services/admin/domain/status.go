package domain

// Status is the review state of a payment or withdrawal request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusCompleted is written by older clients for settled payments and
	// counts as approved revenue.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	default:
		return false
	}
}

// Settled reports whether s counts toward revenue.
func (s Status) Settled() bool {
	return s == StatusApproved || s == StatusCompleted
}

// CanTransition reports whether a request may move from s to next.
// Requests only leave pending; there is no way back.
func (s Status) CanTransition(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

// Role is a profile's platform role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleMentor Role = "mentor"
)

// MemberStatus is whether a member may use the platform.
type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberSuspended MemberStatus = "suspended"
)

// CanTransition reports whether a member may move from s to next.
func (s MemberStatus) CanTransition(next MemberStatus) bool {
	switch next {
	case MemberSuspended:
		return s != MemberSuspended
	case MemberActive:
		return s == MemberSuspended
	default:
		return false
	}
}
