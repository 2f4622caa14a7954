package cardscan

import (
	"reflect"
	"testing"
)

func TestParseCardTextFullCard(t *testing.T) {
	raw := "Acme Corp\nJohn Smith\nOperations Manager\njohn@acme.com\n(512) 555-0100"

	got := ParseCardText(raw)

	if got.Company != "Acme Corp" {
		t.Errorf("Company = %q, expected %q", got.Company, "Acme Corp")
	}
	if got.ContactName != "John Smith" {
		t.Errorf("ContactName = %q, expected %q", got.ContactName, "John Smith")
	}
	if got.ContactTitle != "Operations Manager" {
		t.Errorf("ContactTitle = %q, expected %q", got.ContactTitle, "Operations Manager")
	}
	if got.Email != "john@acme.com" {
		t.Errorf("Email = %q, expected %q", got.Email, "john@acme.com")
	}
	if got.Phone != "(512) 555-0100" {
		t.Errorf("Phone = %q, expected %q", got.Phone, "(512) 555-0100")
	}
}

func TestParseCardTextEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t \r\n  "} {
		got := ParseCardText(raw)
		if got.CardFields != (CardFields{}) {
			t.Errorf("ParseCardText(%q) = %+v, expected all empty fields", raw, got.CardFields)
		}
		if len(got.Emails) != 0 || len(got.Phones) != 0 {
			t.Errorf("ParseCardText(%q) returned candidates for empty input: %+v", raw, got)
		}
	}
}

func TestParseCardTextNameNeverEqualsCompany(t *testing.T) {
	raw := "Maria Garcia\nSummit Staffing\nRecruiter\nmaria@summit.com"

	got := ParseCardText(raw)

	if got.ContactName != "Maria Garcia" {
		t.Errorf("ContactName = %q, expected %q", got.ContactName, "Maria Garcia")
	}
	if got.Company != "Summit Staffing" {
		t.Errorf("Company = %q, expected %q", got.Company, "Summit Staffing")
	}
	if got.Company == got.ContactName {
		t.Errorf("company and contact name collided on %q", got.Company)
	}
}

func TestParseCardTextPhoneNormalization(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"dotted ten digits", "Call me at 512.555.0100", "(512) 555-0100"},
		{"parenthesized", "Office (512) 555-0100", "(512) 555-0100"},
		{"eleven digits stay raw", "Dial 1-512-555-0100 anytime", "1-512-555-0100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseCardText(tc.raw)
			if got.Phone != tc.expected {
				t.Errorf("Phone = %q, expected %q", got.Phone, tc.expected)
			}
		})
	}
}

func TestParseCardTextEmailDeduplication(t *testing.T) {
	raw := "jane@acme.com\njane@acme.com\nbilling@acme.com"

	got := ParseCardText(raw)

	expected := []string{"jane@acme.com", "billing@acme.com"}
	if !reflect.DeepEqual(got.Emails, expected) {
		t.Errorf("Emails = %v, expected %v", got.Emails, expected)
	}
	if got.Email != "jane@acme.com" {
		t.Errorf("Email = %q, expected first-seen match", got.Email)
	}
}

func TestParseCardTextWebsite(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"bare domain gets scheme", "Acme Industrial\nwww.acme.com", "http://www.acme.com"},
		{"existing scheme kept", "https://acme.com/careers", "https://acme.com/careers"},
		{"no website", "Acme Industrial\nJohn Smith", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseCardText(tc.raw)
			if got.Website != tc.expected {
				t.Errorf("Website = %q, expected %q", got.Website, tc.expected)
			}
		})
	}
}

func TestParseCardTextTitleFallbackScan(t *testing.T) {
	// The line after the name is a URL, so the title must come from the
	// keyword scan instead.
	raw := "John Smith\nwww.acme.com\nRegional Sales Director\nAcme Industrial"

	got := ParseCardText(raw)

	if got.ContactTitle != "Regional Sales Director" {
		t.Errorf("ContactTitle = %q, expected fallback keyword line", got.ContactTitle)
	}
}

func TestParseCardTextSkipsLongAndNumericLinesForName(t *testing.T) {
	raw := "A Very Long Line That Cannot Possibly Be A Name Because It Rambles On\n42 Industrial Way\nJohn Smith"

	got := ParseCardText(raw)

	if got.ContactName != "John Smith" {
		t.Errorf("ContactName = %q, expected %q", got.ContactName, "John Smith")
	}
}

func TestMerge(t *testing.T) {
	existing := CardFields{
		Company:     "Typed Company",
		ContactName: "Typed Name",
		Phone:       "(512) 555-0199",
	}
	extracted := CardFields{
		Company: "Acme Corp",
		Email:   "john@acme.com",
	}

	merged := Merge(existing, extracted)

	if merged.Company != "Acme Corp" {
		t.Errorf("non-empty extracted company should overwrite, got %q", merged.Company)
	}
	if merged.ContactName != "Typed Name" {
		t.Errorf("empty extracted name should not erase, got %q", merged.ContactName)
	}
	if merged.Phone != "(512) 555-0199" {
		t.Errorf("empty extracted phone should not erase, got %q", merged.Phone)
	}
	if merged.Email != "john@acme.com" {
		t.Errorf("extracted email should fill empty field, got %q", merged.Email)
	}
}
