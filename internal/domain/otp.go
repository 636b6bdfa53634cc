package domain

import "fmt"

// Purpose scopes an OTP to a single flow so a code issued for one cannot satisfy another.
type Purpose string

const (
	PurposeRegister       Purpose = "register"
	PurposeForgotPassword Purpose = "forgot_password"
	PurposeTwoFA          Purpose = "2fa"
	PurposeDeleteAccount  Purpose = "delete_account"
)

// Purposes lists every valid purpose. EmailTemplate must handle each of them.
var Purposes = []Purpose{PurposeRegister, PurposeForgotPassword, PurposeTwoFA, PurposeDeleteAccount}

// ParsePurpose accepts the wire value of a purpose; "twofa" is an alias of "2fa".
func ParsePurpose(s string) (Purpose, error) {
	if s == "twofa" {
		return PurposeTwoFA, nil
	}
	for _, p := range Purposes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown otp purpose %q: %w", s, ErrBadRequest)
}

// RequiresAccount reports whether an OTP for p may only be sent to an existing account.
func (p Purpose) RequiresAccount() bool {
	switch p {
	case PurposeForgotPassword, PurposeTwoFA, PurposeDeleteAccount:
		return true
	default:
		return false
	}
}

// EmailTemplate maps a purpose to the mail template and subject used to deliver its code.
func (p Purpose) EmailTemplate() (template, subject string) {
	switch p {
	case PurposeRegister:
		return "otp_register", "Your OTP Code for YatraOne Registration"
	case PurposeForgotPassword:
		return "otp_forgot_password", "Reset Your YatraOne Password"
	case PurposeTwoFA:
		return "otp_twofa", "Your YatraOne Sign-in Code"
	case PurposeDeleteAccount:
		return "otp_delete_account", "Confirm YatraOne Account Deletion"
	}
	panic(fmt.Sprintf("domain: no email template for purpose %q", string(p)))
}

// OTPRecord is the single live one-time-code slot for an email.
// PK: email. ExpiresAt is a Unix timestamp used as DynamoDB TTL; validity is
// always judged from CreatedAt because TTL deletion is lazy.
type OTPRecord struct {
	Email     string  `json:"email" dynamodbav:"email"`
	CodeHash  string  `json:"-" dynamodbav:"code_hash"`
	Purpose   Purpose `json:"purpose" dynamodbav:"purpose"`
	CreatedAt int64   `json:"created_at" dynamodbav:"created_at"`
	Attempts  int     `json:"attempts" dynamodbav:"attempts"`
	Verified  bool    `json:"verified" dynamodbav:"verified"`
	ExpiresAt int64   `json:"expires_at" dynamodbav:"expires_at"`
}
