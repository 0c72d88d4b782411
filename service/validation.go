package service

import (
	"regexp"
	"sort"
	"strings"

	"voter-registration/models"
)

const (
	PhoneLength          = 10
	DocumentNumberLength = 16

	FieldPhone          = "phone"
	FieldDocumentNumber = "document_number"
)

var digitsOnly = regexp.MustCompile(`^\d*$`)

// FormError lists the fields that failed validation, keyed by field name.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return ErrInvalidForm.Error() + ": " + strings.Join(parts, "; ")
}

func (e *FormError) Unwrap() error {
	return ErrInvalidForm
}

// FieldErrors returns the hint for every invalid field. Only lengths of the
// numeric inputs are checked; the ledger owns everything else.
func FieldErrors(form models.RegistrationForm) map[string]string {
	fields := make(map[string]string)

	if len(form.Phone) != PhoneLength || !digitsOnly.MatchString(form.Phone) {
		fields[FieldPhone] = "Phone number must be 10 digits"
	}
	if len(form.DocumentNumber) != DocumentNumberLength || !digitsOnly.MatchString(form.DocumentNumber) {
		fields[FieldDocumentNumber] = "Aadhar card number must be 16 digits"
	}

	return fields
}

func ValidateForm(form models.RegistrationForm) error {
	if fields := FieldErrors(form); len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}

// CanSubmit reports whether the submit control is enabled.
func CanSubmit(form models.RegistrationForm, current models.VoterRecord) bool {
	return !current.IsVerified && ValidateForm(form) == nil
}
