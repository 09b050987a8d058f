package booking

import (
	"errors"
	"testing"
)

func validDraft() Draft {
	return Draft{
		Service:     ServiceCertification,
		Date:        "2026-10-16",
		Slot:        "09:00 - 09:30",
		CitizenName: "Nguyễn Văn A",
		NationalID:  "079123456789",
		Phone:       "0909123456",
	}
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *Draft)
		field string
	}{
		{name: "valid"},
		{name: "missing name", edit: func(d *Draft) { d.CitizenName = "" }, field: "citizen_name"},
		{name: "blank name after trim", edit: func(d *Draft) { d.CitizenName = "   " }, field: "citizen_name"},
		{name: "short national id", edit: func(d *Draft) { d.NationalID = "07912345678" }, field: "national_id"},
		{name: "long national id", edit: func(d *Draft) { d.NationalID = "0791234567890" }, field: "national_id"},
		{name: "non-numeric national id", edit: func(d *Draft) { d.NationalID = "07912345678x" }, field: "national_id"},
		{name: "missing phone", edit: func(d *Draft) { d.Phone = " " }, field: "phone"},
		{name: "missing service", edit: func(d *Draft) { d.Service = "" }, field: "service"},
		{name: "unknown service", edit: func(d *Draft) { d.Service = "passport" }, field: "service"},
		{name: "bad date", edit: func(d *Draft) { d.Date = "16/10/2026" }, field: "date"},
		{name: "missing slot", edit: func(d *Draft) { d.Slot = "" }, field: "slot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			if tc.edit != nil {
				tc.edit(&d)
			}
			err := d.Normalize().Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected valid draft, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
			if !errors.Is(err, ErrInvalidDraft) {
				t.Fatalf("expected error to wrap ErrInvalidDraft")
			}
		})
	}
}

func TestServiceCounters(t *testing.T) {
	want := map[ServiceCategory]string{
		ServiceCertification:     "07",
		ServiceCivilStatus:       "10",
		ServiceMaritalStatus:     "10",
		ServiceSocialProtection:  "03",
		ServiceLand:              "11",
		ServiceHouseholdBusiness: "12",
		ServiceOther:             "01",
	}
	for svc, counter := range want {
		if got := svc.Counter(); got != counter {
			t.Errorf("%s: expected counter %s, got %s", svc, counter, got)
		}
	}
	if got := ServiceCategory("unknown").Counter(); got != "01" {
		t.Errorf("unknown service should use counter 01, got %s", got)
	}
	if len(Services()) != 7 {
		t.Errorf("expected 7 services, got %d", len(Services()))
	}
}
