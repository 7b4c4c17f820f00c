// File: utils/constants.go
package utils

// RevokedTokenPrefix is the prefix used for Redis keys of logged-out tokens.
const RevokedTokenPrefix = "revoked:"

// OTPSecretPrefix is the prefix used for Redis keys of pending OTP secrets.
const OTPSecretPrefix = "otp:"

// OTPAttemptsPrefix is the prefix used for Redis keys counting failed OTP checks.
const OTPAttemptsPrefix = "otp_attempts:"

// MaxOTPAttempts is how many wrong codes a pending OTP survives.
const MaxOTPAttempts = 5

// Auth cookie names.
const (
	PatientCookieName = "token"
	DoctorCookieName  = "doctor_token"
)
