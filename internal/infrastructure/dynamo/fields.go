package dynamo

// DynamoDB attribute names used in key, condition and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID         = "user_id"
	fieldEmail          = "email"
	fieldPasswordHash   = "password_hash"
	fieldUpdatedAt      = "updated_at"
	fieldCreatedAt      = "created_at"
	fieldAttempts       = "attempts"
	fieldVerified       = "verified"
	fieldNotificationID = "notification_id"
	fieldIsRead         = "is_read"
	fieldAuditID        = "audit_id"
	fieldPurpose        = "purpose"
)
