package model

import (
	"errors"
	"regexp"
	"strings"
)

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const msgRequired = "Please fill in all required fields"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (d Department) Validate() error {
	if blank(d.Name) || blank(d.Description) {
		return invalid(msgRequired)
	}
	if len(d.Services) == 0 {
		return invalid("Please add at least one service")
	}
	return nil
}

func (t HealthTest) Validate() error {
	if blank(t.Name) || blank(t.Department) || t.Price <= 0 {
		return invalid(msgRequired)
	}
	if len(t.AvailableTimeSlots) == 0 {
		return invalid("Please add at least one time slot")
	}
	return nil
}

// ValidateEdit checks the doctor edit form.
func (d Doctor) ValidateEdit() error {
	if blank(d.Name) || blank(d.Specialty) {
		return invalid("Name and specialty are required")
	}
	return nil
}

func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return invalid("Please fill in all fields")
	}
	if !IsValidEmail(r.Email) {
		return invalid("Please enter a valid email address")
	}
	return nil
}

func (r CreateCredentialRequest) Validate() error {
	if blank(r.Username) || r.Password == "" || r.DoctorID == 0 {
		return invalid("Please fill in all fields")
	}
	return nil
}

func (r UpdateCredentialRequest) Validate() error {
	if r.Username == nil && r.Password == nil {
		return invalid("Nothing to update")
	}
	if r.Username != nil && blank(*r.Username) {
		return invalid("Username cannot be empty")
	}
	if r.Password != nil && *r.Password == "" {
		return invalid("Password cannot be empty")
	}
	return nil
}

// AppendEntry trims entry and appends it unless blank.
func AppendEntry(list []string, entry string) []string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return list
	}
	return append(list, entry)
}

// RemoveAt drops the element at i; out of range indices are ignored.
func RemoveAt(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
