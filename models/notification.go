package models

// Notification kinds carried by queued SMS tasks.
const (
	NotificationStatusChange = "status"
	NotificationReminder     = "reminder"
)

// NotificationPayload is the body of an appointment SMS task.
type NotificationPayload struct {
	AppointmentID string `json:"appointmentId"`
	Kind          string `json:"kind"`
	Status        string `json:"status,omitempty"`
	To            string `json:"to"`
	Body          string `json:"body"`
}
