package models

import "time"

// Appointment statuses.
const (
	StatusPending   = "Pending"
	StatusScheduled = "Scheduled"
	StatusRejected  = "Rejected"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

const (
	AppointmentTypeVideo  = "Video"
	VideoProviderInternal = "internal"
	MaxAppointmentLength  = 60 * time.Minute
)

// PatientSummary is the patient data denormalized onto an appointment.
type PatientSummary struct {
	ID          string `bson:"id" json:"_id"`
	FullName    string `bson:"fullName" json:"fullName"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
}

type Appointment struct {
	ID              string         `bson:"id" json:"_id"`
	PatientID       string         `bson:"patientId" json:"-"`
	DoctorID        string         `bson:"doctorId" json:"-"`
	Patient         PatientSummary `bson:"patient" json:"user"`
	Doctor          DoctorSummary  `bson:"doctor" json:"doctor"`
	StartTime       time.Time      `bson:"startTime" json:"startTime"`
	EndTime         time.Time      `bson:"endTime" json:"endTime"`
	Status          string         `bson:"status" json:"status"`
	Type            string         `bson:"type" json:"type"`
	VideoProvider   string         `bson:"videoProvider" json:"videoProvider"`
	VideoRoomID     string         `bson:"videoRoomId" json:"videoRoomId"`
	RejectionReason string         `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Prescription    string         `bson:"prescription" json:"prescription"`
	ExtraAdvice     string         `bson:"extraAdvice" json:"extraAdvice"`
	FeedbackRating  int            `bson:"feedbackRating,omitempty" json:"feedbackRating,omitempty"`
	FeedbackComment string         `bson:"feedbackComment" json:"feedbackComment"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// HasParty reports whether userID is the appointment's patient or doctor.
func (a *Appointment) HasParty(userID string) bool {
	return userID != "" && (a.PatientID == userID || a.DoctorID == userID)
}

// BookingRequest is the body of POST /api/appointments/book.
type BookingRequest struct {
	DoctorID  string     `json:"doctorId"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type CompleteRequest struct {
	Prescription string `json:"prescription"`
	ExtraAdvice  string `json:"extraAdvice"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
