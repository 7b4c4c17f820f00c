package repository

import (
	appointmentRepo "telecare/database/repository/appointment"
	doctorRepo "telecare/database/repository/doctor"
	patientRepo "telecare/database/repository/patient"
)

// Re-export the PatientRepository interface and constructor.
type PatientRepository = patientRepo.PatientRepository

var NewMongoPatientRepo = patientRepo.NewMongoPatientRepo

// Re-export the DoctorRepository interface and constructor.
type DoctorRepository = doctorRepo.DoctorRepository

var NewMongoDoctorRepo = doctorRepo.NewMongoDoctorRepo

// Re-export the AppointmentRepository interface, its transition type and constructor.
type AppointmentRepository = appointmentRepo.AppointmentRepository

type StatusChange = appointmentRepo.StatusChange

var NewMongoAppointmentRepo = appointmentRepo.NewMongoAppointmentRepo
