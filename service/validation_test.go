package service_test

import (
	"errors"
	"strings"
	"testing"

	"voter-registration/models"
	"voter-registration/service"
)

func TestFieldErrors(t *testing.T) {
	tests := []struct {
		name       string
		phone      string
		doc        string
		wantFields []string
	}{
		{"valid", "9841234567", "1234567890123456", nil},
		{"short phone", "984123456", "1234567890123456", []string{service.FieldPhone}},
		{"long phone", "98412345678", "1234567890123456", []string{service.FieldPhone}},
		{"letters in phone", "98412345ab", "1234567890123456", []string{service.FieldPhone}},
		{"short document", "9841234567", "123456789012345", []string{service.FieldDocumentNumber}},
		{"signed document", "9841234567", "-123456789012345", []string{service.FieldDocumentNumber}},
		{"both empty", "", "", []string{service.FieldPhone, service.FieldDocumentNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := service.FieldErrors(models.RegistrationForm{Phone: tt.phone, DocumentNumber: tt.doc})
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("expected %d field errors, got %v", len(tt.wantFields), fields)
			}
			for _, name := range tt.wantFields {
				if fields[name] == "" {
					t.Errorf("expected an error for %s", name)
				}
			}
		})
	}
}

func TestValidateFormError(t *testing.T) {
	err := service.ValidateForm(models.RegistrationForm{Phone: "1", DocumentNumber: "2"})
	if !errors.Is(err, service.ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "Phone number must be 10 digits") || !strings.Contains(msg, "Aadhar card number must be 16 digits") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestCanSubmit(t *testing.T) {
	form := models.RegistrationForm{Name: "Ava", Phone: "9841234567", DocumentNumber: "1234567890123456"}

	if !service.CanSubmit(form, models.VoterRecord{}) {
		t.Error("valid form for an unverified voter should be submittable")
	}
	if service.CanSubmit(form, models.VoterRecord{IsRegistered: true, IsVerified: true}) {
		t.Error("verified voter must not submit")
	}
	form.Phone = "123"
	if service.CanSubmit(form, models.VoterRecord{}) {
		t.Error("invalid phone must disable submit")
	}
}
