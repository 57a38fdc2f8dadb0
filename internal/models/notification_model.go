package models

// Notification event types.
const (
	NotifyAnnouncementCreated   = "announcement.created"
	NotifyEventCreated          = "event.created"
	NotifyComplaintFiled        = "complaint.filed"
	NotifyComplaintStatus       = "complaint.status_changed"
	NotifyContributionStatus    = "contribution.status_changed"
	NotifyContributionSubmitted = "contribution.submitted"
)

// Audiences for notifications that are not addressed to specific members.
const (
	AudienceAll   = "all"
	AudienceStaff = "staff"
)

// NotificationEvent is the message published to the notification queue.
// Either Recipients (member IDs) or Audience is set.
type NotificationEvent struct {
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Recipients []string          `json:"recipients,omitempty"`
	Audience   string            `json:"audience,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}
