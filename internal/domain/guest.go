package domain

import (
	"fmt"
	"time"
)

type Guest struct {
	ID            int64          `json:"id"`
	EventID       int64          `json:"eventId"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	CustomFields  map[string]any `json:"customFields,omitempty"`
	CheckInStatus bool           `json:"checkInStatus"`
	CheckInTime   *time.Time     `json:"checkInTime,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type RegisterGuestRequest struct {
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	CustomFields map[string]any `json:"customFields"`
}

func (r *RegisterGuestRequest) Normalize() {
	r.FirstName = NormalizeString(r.FirstName)
	r.LastName = NormalizeString(r.LastName)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = NormalizeString(r.Phone)
}

// Validate checks required fields and the custom answers against the event's
// declared registration fields. Unknown names and mistyped answers are
// rejected rather than silently stored.
func (r *RegisterGuestRequest) Validate(fields []FieldDescriptor) error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" {
		return &ValidationError{Msg: "firstName, lastName and email are required"}
	}
	if !IsValidEmail(r.Email) {
		return &ValidationError{Msg: "email is malformed"}
	}
	return ValidateAnswers(r.CustomFields, fields)
}

// ValidateAnswers checks a custom-field answer map against descriptors.
// Answers are optional; present answers must match a declared non-built-in
// field and its kind.
func ValidateAnswers(answers map[string]any, fields []FieldDescriptor) error {
	if len(answers) == 0 {
		return nil
	}

	declared := make(map[string]FieldKind, len(fields))
	for _, fd := range fields {
		switch fd.Name {
		case FieldFirstName, FieldLastName, FieldEmail, FieldPhone:
			continue
		}
		declared[fd.Name] = fd.Kind
	}

	for name, value := range answers {
		kind, ok := declared[name]
		if !ok {
			return &ValidationError{Msg: fmt.Sprintf("field %q is not declared for this event", name)}
		}
		if value == nil {
			continue
		}
		switch kind {
		case FieldText:
			if _, ok := value.(string); !ok {
				return &ValidationError{Msg: fmt.Sprintf("field %q must be text", name)}
			}
		case FieldNumber:
			// JSON numbers decode to float64
			if _, ok := value.(float64); !ok {
				return &ValidationError{Msg: fmt.Sprintf("field %q must be a number", name)}
			}
		case FieldBoolean:
			if _, ok := value.(bool); !ok {
				return &ValidationError{Msg: fmt.Sprintf("field %q must be a boolean", name)}
			}
		}
	}
	return nil
}

// GuestPatch carries full-replacement update semantics on the supplied
// fields; nil pointers leave the stored value untouched. CheckInStatus is
// accepted here because the update surface allows it, even though check-in
// normally goes through the coordinator.
type GuestPatch struct {
	FirstName     *string        `json:"firstName,omitempty"`
	LastName      *string        `json:"lastName,omitempty"`
	Email         *string        `json:"email,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	CustomFields  map[string]any `json:"customFields,omitempty"`
	CheckInStatus *bool          `json:"checkInStatus,omitempty"`
}

func (p *GuestPatch) Normalize() {
	if p.FirstName != nil {
		v := NormalizeString(*p.FirstName)
		p.FirstName = &v
	}
	if p.LastName != nil {
		v := NormalizeString(*p.LastName)
		p.LastName = &v
	}
	if p.Email != nil {
		v := NormalizeEmail(*p.Email)
		p.Email = &v
	}
	if p.Phone != nil {
		v := NormalizeString(*p.Phone)
		p.Phone = &v
	}
}
