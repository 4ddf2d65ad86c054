package entity

// OTPPurpose records which flow requested a passcode.
type OTPPurpose string

const (
	OTPPurposeUnknown OTPPurpose = ""
	OTPPurposeSignup  OTPPurpose = "signup"
	OTPPurposeLogin   OTPPurpose = "login"
)

func (p OTPPurpose) String() string {
	return string(p)
}

// OTPPurposeFromString parses a stored purpose value.
func OTPPurposeFromString(s string) OTPPurpose {
	switch s {
	case "signup":
		return OTPPurposeSignup
	case "login":
		return OTPPurposeLogin
	default:
		return OTPPurposeUnknown
	}
}
