package domain

import "time"

type Medicine struct {
	Medicine  string `json:"medicine" bson:"medicine"`
	Timetable string `json:"timetable" bson:"timetable"`
}

type LabTest struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

type Prescription struct {
	ID            string     `json:"id" bson:"_id"`
	BloodPressure string     `json:"blood_pressure" bson:"blood_pressure"`
	HeartRate     string     `json:"heart_rate" bson:"heart_rate"`
	Temperature   string     `json:"temperature" bson:"temperature"`
	Symptoms      string     `json:"symptoms" bson:"symptoms"`
	Disease       string     `json:"disease" bson:"disease"`
	Medicines     []Medicine `json:"medicines" bson:"medicines"`
	Tests         []LabTest  `json:"tests" bson:"tests"`
	TestsTotal    float64    `json:"tests_total" bson:"tests_total"`
	DoctorEmail   string     `json:"doctor_email" bson:"doctor_email"`
	PatientEmail  string     `json:"patient_email" bson:"patient_email"`
	PatientName   string     `json:"patient_name" bson:"patient_name"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}
