package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func joinValidationErrors(errs []ValidationError) *DomainError {
	msg := "validation failed: "
	for _, e := range errs {
		msg += e.Field + " (" + e.Message + "), "
	}
	return &DomainError{Code: CodeValidationError, Message: msg}
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FullName) == "" {
		errors = append(errors, ValidationError{"full_name", "is required"})
	} else if len(input.FullName) > 200 {
		errors = append(errors, ValidationError{"full_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.PhoneNumber) == "" {
		errors = append(errors, ValidationError{"phone_number", "is required"})
	} else if !isValidPhoneNumber(input.PhoneNumber) {
		errors = append(errors, ValidationError{"phone_number", "must be a valid phone number"})
	}

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Source != "" && input.Source != "meta" && input.Source != "google" &&
		input.Source != "manual" && input.Source != "upload" {
		errors = append(errors, ValidationError{"lead_source", "must be meta, google, manual or upload"})
	}

	return errors
}

func ValidateCreateFollowupInput(input CreateFollowupInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadName) == "" {
		errors = append(errors, ValidationError{"lead_name", "is required"})
	}

	if strings.TrimSpace(input.ScheduledDate) == "" {
		errors = append(errors, ValidationError{"scheduled_date", "is required"})
	} else if !isValidDate(input.ScheduledDate) {
		errors = append(errors, ValidationError{"scheduled_date", "must be a valid date (YYYY-MM-DD)"})
	}

	if strings.TrimSpace(input.ScheduledTime) == "" {
		errors = append(errors, ValidationError{"scheduled_time", "is required"})
	} else if !isValidTimeOfDay(input.ScheduledTime) {
		errors = append(errors, ValidationError{"scheduled_time", "must be a valid time (e.g. 10:00 AM)"})
	}

	switch input.Type {
	case "Call", "WhatsApp", "Meeting":
	case "":
		errors = append(errors, ValidationError{"type", "is required"})
	default:
		errors = append(errors, ValidationError{"type", "must be Call, WhatsApp or Meeting"})
	}

	if input.LeadRef == nil && strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required for standalone follow-ups"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func isValidDate(dateStr string) bool {
	if _, err := time.Parse("2006-01-02", dateStr); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return true
	}
	return false
}

func isValidTimeOfDay(timeStr string) bool {
	for _, layout := range []string{"3:04 PM", "03:04 PM", "15:04"} {
		if _, err := time.Parse(layout, strings.ToUpper(strings.TrimSpace(timeStr))); err == nil {
			return true
		}
	}
	return false
}
