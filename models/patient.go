package models

import "time"

// Patient is a phone-verified user who books consultations.
type Patient struct {
	ID          string    `bson:"id" json:"_id"`
	FullName    string    `bson:"fullName" json:"fullName"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"` // E.164
	Age         int       `bson:"age" json:"age"`
	Address     string    `bson:"address" json:"address,omitempty"`
	IsVerified  bool      `bson:"accountVerified" json:"accountVerified"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PatientRegistration is the body of POST /api/auth/user/register.
type PatientRegistration struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Age         int    `json:"age"`
	Address     string `json:"address"`
}

// OTPVerification is the body of the verify and verify-login endpoints.
type OTPVerification struct {
	UserID           string `json:"userId"`
	VerificationCode string `json:"verificationCode"`
}
