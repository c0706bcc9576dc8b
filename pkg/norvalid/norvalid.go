// Package norvalid validates Norwegian organization numbers and national
// identity numbers (modulus 11), plus a plausibility check for email
// addresses. These replace the legacy form validators the booking frontend
// relied on.
package norvalid

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidOrganizationNumber is returned for a malformed or
	// checksum-failing organization number.
	ErrInvalidOrganizationNumber = errors.New("norvalid: invalid organization number")

	// ErrInvalidNationalID is returned for a malformed or checksum-failing
	// national identity number.
	ErrInvalidNationalID = errors.New("norvalid: invalid national identity number")

	// ErrInvalidEmail is returned for an implausible email address.
	ErrInvalidEmail = errors.New("norvalid: invalid email address")
)

var orgNumberWeights = []int{3, 2, 7, 6, 5, 4, 3, 2}

var (
	nationalIDWeights1 = []int{3, 7, 6, 1, 8, 9, 4, 5, 2}
	nationalIDWeights2 = []int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// OrganizationNumber validates a nine-digit Norwegian organization number.
// Spaces are tolerated; the trailing digit is a modulus-11 control digit.
func OrganizationNumber(number string) error {
	digits, ok := parseDigits(number, 9)
	if !ok {
		return ErrInvalidOrganizationNumber
	}

	control, ok := mod11Control(digits[:8], orgNumberWeights)
	if !ok || control != digits[8] {
		return ErrInvalidOrganizationNumber
	}
	return nil
}

// NationalID validates an eleven-digit Norwegian national identity number
// using both modulus-11 control digits. It does not verify the birth date.
func NationalID(number string) error {
	digits, ok := parseDigits(number, 11)
	if !ok {
		return ErrInvalidNationalID
	}

	k1, ok := mod11Control(digits[:9], nationalIDWeights1)
	if !ok || k1 != digits[9] {
		return ErrInvalidNationalID
	}

	k2, ok := mod11Control(digits[:10], nationalIDWeights2)
	if !ok || k2 != digits[10] {
		return ErrInvalidNationalID
	}
	return nil
}

// Email checks that the address is plausibly formed. It deliberately stays
// loose: one @, a dot in the domain, no whitespace.
func Email(address string) error {
	if !emailPattern.MatchString(address) {
		return ErrInvalidEmail
	}
	return nil
}

// mod11Control computes the modulus-11 control digit for the given digits.
// A remainder of 1 has no valid control digit; ok is false then.
func mod11Control(digits []int, weights []int) (int, bool) {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	switch rest := sum % 11; rest {
	case 0:
		return 0, true
	case 1:
		return 0, false
	default:
		return 11 - rest, true
	}
}

func parseDigits(s string, want int) ([]int, bool) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) != want {
		return nil, false
	}
	digits := make([]int, want)
	for i, r := range s {
		if r < '0' || r > '9' {
			return nil, false
		}
		digits[i] = int(r - '0')
	}
	return digits, true
}
