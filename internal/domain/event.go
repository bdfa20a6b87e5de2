package domain

import (
	"fmt"
	"time"
)

// FieldKind is the declared type of a registration field answer.
type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldBoolean FieldKind = "boolean"
)

func ParseFieldKind(s string) (FieldKind, bool) {
	switch FieldKind(s) {
	case FieldText, FieldNumber, FieldBoolean:
		return FieldKind(s), true
	default:
		return "", false
	}
}

// FieldDescriptor declares one field the registration form collects.
type FieldDescriptor struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}

// Built-in guest fields. Answers for these land on the Guest record itself,
// not in CustomFields.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

// DefaultRegistrationFields is the descriptor set applied when an event is
// created without declaring any fields.
func DefaultRegistrationFields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: FieldFirstName, Kind: FieldText},
		{Name: FieldLastName, Kind: FieldText},
		{Name: FieldEmail, Kind: FieldText},
		{Name: FieldPhone, Kind: FieldText},
	}
}

type Event struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	StartDate          time.Time         `json:"startDate"`
	EndDate            time.Time         `json:"endDate"`
	RegistrationFields []FieldDescriptor `json:"registrationFields"`
	CreatedBy          int64             `json:"createdBy"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// CustomFieldDescriptors returns the declared fields that are not built-in
// guest columns, in declaration order.
func (e *Event) CustomFieldDescriptors() []FieldDescriptor {
	var out []FieldDescriptor
	for _, fd := range e.RegistrationFields {
		switch fd.Name {
		case FieldFirstName, FieldLastName, FieldEmail, FieldPhone:
			continue
		}
		out = append(out, fd)
	}
	return out
}

type CreateEventRequest struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	StartDate          time.Time         `json:"startDate"`
	EndDate            time.Time         `json:"endDate"`
	RegistrationFields []FieldDescriptor `json:"registrationFields"`
}

func (r *CreateEventRequest) Normalize() {
	r.Name = NormalizeString(r.Name)
	r.Description = NormalizeString(r.Description)
	for i := range r.RegistrationFields {
		r.RegistrationFields[i].Name = NormalizeString(r.RegistrationFields[i].Name)
	}
	if len(r.RegistrationFields) == 0 {
		r.RegistrationFields = DefaultRegistrationFields()
	}
}

func (r *CreateEventRequest) Validate() error {
	if r.Name == "" {
		return &ValidationError{Msg: "name is required"}
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return &ValidationError{Msg: "startDate and endDate are required"}
	}
	return ValidateFieldDescriptors(r.RegistrationFields)
}

// ValidateFieldDescriptors rejects empty or duplicate names and unknown kinds.
func ValidateFieldDescriptors(fields []FieldDescriptor) error {
	seen := make(map[string]struct{}, len(fields))
	for _, fd := range fields {
		if fd.Name == "" {
			return &ValidationError{Msg: "registration field name must not be empty"}
		}
		if _, dup := seen[fd.Name]; dup {
			return &ValidationError{Msg: fmt.Sprintf("duplicate registration field %q", fd.Name)}
		}
		seen[fd.Name] = struct{}{}
		if _, ok := ParseFieldKind(string(fd.Kind)); !ok {
			return &ValidationError{Msg: fmt.Sprintf("registration field %q has unknown kind %q", fd.Name, fd.Kind)}
		}
	}
	return nil
}
