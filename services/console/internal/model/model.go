// Package model holds the records the console manages, one tagged type per
// resource, plus the form checks run before any network call.
package model

import "time"

// ImagePlaceholder marks a doctor without a photo.
const ImagePlaceholder = "placeholder"

type Department struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Services    []string `json:"services"`
	// Specialists is derived from the doctor list after every load.
	Specialists int `json:"specialists"`
}

type TimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Display   string `json:"display,omitempty"`
}

type Doctor struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Specialty       string     `json:"specialty"`
	DepartmentID    *int64     `json:"departmentId,omitempty"`
	Experience      string     `json:"experience"`
	Education       string     `json:"education"`
	Image           string     `json:"image"`
	AvailableDays   []string   `json:"availableDays"`
	TimeSlots       []TimeSlot `json:"timeSlots,omitempty"`
	ShortBio        string     `json:"shortBio"`
	ConsultationFee string     `json:"consultationFee"`
}

type HealthTest struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Price              float64  `json:"price"`
	Department         string   `json:"department"`
	AvailableTimeSlots []string `json:"availableTimeSlots"`
}

// DoctorCredential is the read shape; the password never comes back.
type DoctorCredential struct {
	ID          int64      `json:"id"`
	DoctorID    int64      `json:"doctorId"`
	DoctorName  string     `json:"doctorName"`
	Username    string     `json:"username"`
	HasPassword bool       `json:"hasPassword"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type CreateCredentialRequest struct {
	DoctorID int64  `json:"doctorId"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateCredentialRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

type Feedback struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Admin is the profile returned by the login endpoint and kept in the session.
type Admin struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

func (a Admin) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Weekdays in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CountSpecialists counts doctors whose specialty equals name exactly.
func CountSpecialists(name string, doctors []Doctor) int {
	n := 0
	for _, d := range doctors {
		if d.Specialty == name {
			n++
		}
	}
	return n
}

// WithSpecialists returns a copy of departments with Specialists recomputed.
func WithSpecialists(departments []Department, doctors []Doctor) []Department {
	out := make([]Department, len(departments))
	for i, d := range departments {
		d.Specialists = CountSpecialists(d.Name, doctors)
		out[i] = d
	}
	return out
}
