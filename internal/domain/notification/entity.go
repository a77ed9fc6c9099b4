package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeCourseEnrollment   Type = "course_enrollment"
	TypeCourseCompletion   Type = "course_completion"
	TypeCourseApproved     Type = "course_approved"
	TypeCourseRejected     Type = "course_rejected"
	TypeCourseCreated      Type = "course_created"
	TypeCertificateIssued  Type = "certificate_issued"
	TypeJobApplication     Type = "job_application"
	TypeInterviewScheduled Type = "interview_scheduled"
	TypePaymentReceived    Type = "payment_received"
	TypePaymentFailed      Type = "payment_failed"
	TypeProfileVerified    Type = "profile_verified"
	TypeMessageReceived    Type = "message_received"
	TypeSystemUpdate       Type = "system_update"
	TypeSecurityAlert      Type = "security_alert"
	TypeSubscriptionExpiry Type = "subscription_expiry"
)

var knownTypes = map[Type]struct{}{
	TypeCourseEnrollment:   {},
	TypeCourseCompletion:   {},
	TypeCourseApproved:     {},
	TypeCourseRejected:     {},
	TypeCourseCreated:      {},
	TypeCertificateIssued:  {},
	TypeJobApplication:     {},
	TypeInterviewScheduled: {},
	TypePaymentReceived:    {},
	TypePaymentFailed:      {},
	TypeProfileVerified:    {},
	TypeMessageReceived:    {},
	TypeSystemUpdate:       {},
	TypeSecurityAlert:      {},
	TypeSubscriptionExpiry: {},
}

func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownTypes[t]
	return t, ok
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// State transitions: unread -> read -> dismissed, or unread -> dismissed
// directly. Dismissed is terminal, marking read is idempotent, and
// deletion is allowed from any state. The store enforces this by
// refusing updates once a row is dismissed.
type State string

const (
	StateUnread    State = "unread"
	StateRead      State = "read"
	StateDismissed State = "dismissed"
)

// RelatedEntity points at the domain object a notification is about.
type RelatedEntity struct {
	Kind string
	ID   uuid.UUID
}

type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Type        Type
	Title       string
	Message     string
	Priority    Priority
	State       State
	Related     *RelatedEntity
	CreatedAt   time.Time
	ReadAt      *time.Time
}
