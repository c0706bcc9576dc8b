package checkout

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/pkg/norvalid"
)

const maxFieldLength = 255

var zipCodePattern = regexp.MustCompile(`^\d{4}$`)

// validateRequest checks the checkout form and returns every issue found,
// one per field, so the frontend can annotate the whole form in one round.
func validateRequest(req *Request) []domain.ValidationIssue {
	issues := make([]domain.ValidationIssue, 0)

	addIssue := func(field, message string) {
		issues = append(issues, domain.ValidationIssue{Field: field, Message: message})
	}

	required := []struct {
		field string
		value string
	}{
		{"contactName", req.ContactName},
		{"contactEmail", req.ContactEmail},
		{"contactPhone", req.ContactPhone},
		{"street", req.Street},
		{"zipCode", req.ZipCode},
		{"city", req.City},
		{"eventTitle", req.EventTitle},
		{"organizerName", req.OrganizerName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			addIssue(f.field, "is required")
			continue
		}
		if len(f.value) > maxFieldLength {
			addIssue(f.field, "exceeds maximum length of 255 characters")
		}
	}

	if req.ContactEmail != "" {
		if err := norvalid.Email(req.ContactEmail); err != nil {
			addIssue("contactEmail", "is not a valid email address")
		}
	}

	if req.ZipCode != "" && !zipCodePattern.MatchString(req.ZipCode) {
		addIssue("zipCode", "must be exactly four digits")
	}

	if req.ContactPhone != "" && countDigits(req.ContactPhone) < 8 {
		addIssue("contactPhone", "must contain at least eight digits")
	}

	switch req.CustomerType {
	case domain.CustomerTypeSSN:
		if req.CustomerSSN == "" {
			addIssue("customerSsn", "is required for private customers")
		} else if err := norvalid.NationalID(req.CustomerSSN); err != nil {
			addIssue("customerSsn", "is not a valid national identity number")
		}
	case domain.CustomerTypeOrganization:
		if req.OrganizationNumber == "" {
			addIssue("organizationNumber", "is required for organization customers")
		} else if err := norvalid.OrganizationNumber(req.OrganizationNumber); err != nil {
			addIssue("organizationNumber", "is not a valid organization number")
		}
		if strings.TrimSpace(req.OrganizationName) == "" {
			addIssue("organizationName", "is required for organization customers")
		}
	default:
		addIssue("customerType", "must be 'ssn' or 'organization_number'")
	}

	return issues
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
