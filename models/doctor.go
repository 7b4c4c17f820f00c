package models

import "time"

// Specialisations accepted at registration.
var Specialisations = []string{
	"Cardiologist",
	"Dermatologist",
	"Endocrinologist",
	"Gastroenterologist",
	"Hematologist",
	"Neurologist",
	"Oncologist",
	"Pediatrician",
	"Psychiatrist",
	"Rheumatologist",
	"Urologist",
}

type Review struct {
	PatientID     string    `bson:"patientId" json:"patientId"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	Rating        int       `bson:"rating" json:"rating"` // 1..5
	Comment       string    `bson:"comment" json:"comment"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type Doctor struct {
	ID              string             `bson:"id" json:"_id"`
	FullName        string             `bson:"fullname" json:"fullname"`
	PhoneNumber     string             `bson:"phoneNumber" json:"phoneNumber"`
	Age             int                `bson:"age" json:"age"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"passwordHash" json:"-"`
	Specialisation  string             `bson:"specialisation" json:"specialisation"`
	Experience      int                `bson:"experience" json:"experience"`
	Hospital        string             `bson:"hospital" json:"hospital"`
	Address         string             `bson:"address" json:"address,omitempty"`
	ProfilePicture  string             `bson:"profilePicture" json:"profilePicture,omitempty"`
	IsAvailable     bool               `bson:"isAvailable" json:"isAvailable"`
	AverageRating   float64            `bson:"averageRating" json:"averageRating"`
	RatingCount     int                `bson:"ratingCount" json:"ratingCount"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	Availability    WeeklyAvailability `bson:"availability" json:"availability"`
	ConsultationFee float64            `bson:"consultationFee" json:"consultationFee"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DoctorSummary is the public subset returned by GET /api/auth/doctor/all and embedded in appointments.
type DoctorSummary struct {
	ID              string  `bson:"id" json:"_id"`
	FullName        string  `bson:"fullname" json:"fullname"`
	Specialisation  string  `bson:"specialisation" json:"specialisation"`
	Experience      int     `bson:"experience,omitempty" json:"experience,omitempty"`
	Hospital        string  `bson:"hospital,omitempty" json:"hospital,omitempty"`
	ConsultationFee float64 `bson:"consultationFee,omitempty" json:"consultationFee,omitempty"`
	AverageRating   float64 `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	ProfilePicture  string  `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	IsAvailable     bool    `bson:"isAvailable" json:"isAvailable"`
}

// DoctorRegistration is the body of POST /api/auth/doctor/register.
// Numeric fields are pointers so a missing field can be told apart from zero.
type DoctorRegistration struct {
	FullName        string   `json:"fullname"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phoneNumber"`
	Age             *int     `json:"age"`
	Specialisation  string   `json:"specialisation"`
	Experience      *int     `json:"experience"`
	Hospital        string   `json:"hospital"`
	ConsultationFee *float64 `json:"consultationFee"`
	Password        string   `json:"password"`
	Address         string   `json:"address"`
}

type DoctorLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
