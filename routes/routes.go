package routes

import (
	"time"

	"telecare/handlers"
	"telecare/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPatientRoutes registers patient auth endpoints.
func RegisterPatientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth/user")
	{
		api.POST("/register", hb.Patient.RegisterHandler)
		api.POST("/verify", hb.Patient.VerifyHandler)
		api.POST("/resend-code", hb.Patient.ResendCodeHandler)
		api.POST("/login", hb.Patient.LoginHandler)
		api.POST("/verify-login", hb.Patient.VerifyLoginHandler)
		api.POST("/logout", hb.Patient.LogoutHandler)

		// Protected routes (Require Authentication)
		api.GET("/profile", hb.Auth.PatientAuth(), hb.Patient.ProfileHandler)
	}
}

// RegisterDoctorRoutes registers doctor auth, profile and availability endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth/doctor")
	{
		api.POST("/register", hb.Doctor.RegisterHandler)
		api.POST("/login", hb.Doctor.LoginHandler)
		api.POST("/logout", hb.Doctor.LogoutHandler)

		// Patients browse doctors and their schedules when booking.
		api.GET("/all", hb.Auth.AnyAuth(), hb.Doctor.ListHandler)
		api.GET("/:doctorId/availability", hb.Auth.AnyAuth(), hb.Doctor.GetDoctorAvailabilityHandler)

		protected := api.Group("")
		protected.Use(hb.Auth.DoctorAuth())
		protected.GET("/me", hb.Doctor.ProfileHandler)
		protected.GET("/appointments", hb.Doctor.AppointmentsHandler)
		protected.GET("/availability", hb.Doctor.GetOwnAvailabilityHandler)
		protected.PUT("/availability", hb.Doctor.UpdateAvailabilityHandler)
		protected.PUT("/profile-picture", hb.Doctor.ProfilePictureHandler)
	}
}

// RegisterAppointmentRoutes sets up the appointment lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		// Patient routes
		api.POST("/book", hb.Auth.PatientAuth(), hb.Appointment.BookHandler)
		api.GET("/user/all", hb.Auth.PatientAuth(), hb.Appointment.PatientAppointmentsHandler)
		api.POST("/:appointmentId/feedback", hb.Auth.PatientAuth(), hb.Appointment.FeedbackHandler)

		// Doctor routes
		api.GET("/doctor/all", hb.Auth.DoctorAuth(), hb.Appointment.DoctorAppointmentsHandler)
		api.PUT("/:appointmentId/confirm", hb.Auth.DoctorAuth(), hb.Appointment.ConfirmHandler)
		api.PUT("/:appointmentId/reject", hb.Auth.DoctorAuth(), hb.Appointment.RejectHandler)
		api.PUT("/:appointmentId/start", hb.Auth.DoctorAuth(), hb.Appointment.StartHandler)
		api.PUT("/:appointmentId/complete", hb.Auth.DoctorAuth(), hb.Appointment.CompleteHandler)

		// Shared routes (authorization handled in the service)
		api.GET("/:appointmentId", hb.Auth.AnyAuth(), hb.Appointment.GetHandler)
		api.PUT("/:appointmentId/cancel", hb.Auth.AnyAuth(), hb.Appointment.CancelHandler)
	}
}

// RegisterSignalingRoutes registers the video call signaling websocket.
func RegisterSignalingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws/signaling", hb.Signaling.ServeWS)
}

// RegisterOpsRoutes registers the health-check and metrics endpoints.
func RegisterOpsRoutes(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", utils.MetricsHandler())
}

// RegisterRoutes centralizes registration of all endpoints and CORS.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, clientURL string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if hb.RateLimiter != nil {
		r.Use(hb.RateLimiter.Middleware())
	}

	RegisterPatientRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterSignalingRoutes(r, hb)
	RegisterOpsRoutes(r)
}
