package domain

import "time"

// AuditEntry records a security-relevant action taken by or on behalf of a user.
type AuditEntry struct {
	AuditID   string            `json:"id" dynamodbav:"audit_id"`
	UserID    string            `json:"user_id" dynamodbav:"user_id"`
	Action    string            `json:"action" dynamodbav:"action"`
	Details   map[string]string `json:"details,omitempty" dynamodbav:"details,omitempty"`
	CreatedAt time.Time         `json:"timestamp" dynamodbav:"created_at"`
}

const (
	AuditLogin         = "login"
	AuditRegister      = "register"
	AuditPasswordReset = "password_reset"
	AuditDeleteAccount = "delete_account"
	AuditLogout        = "logout"
	AuditRefreshReplay = "refresh_replay"
)
