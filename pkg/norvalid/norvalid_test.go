package norvalid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationNumberValid(t *testing.T) {
	require.NoError(t, OrganizationNumber("974760673"))
	require.NoError(t, OrganizationNumber("923609016"))
}

func TestOrganizationNumberToleratesSpaces(t *testing.T) {
	require.NoError(t, OrganizationNumber("974 760 673"))
}

func TestOrganizationNumberBadChecksum(t *testing.T) {
	err := OrganizationNumber("974760674")
	assert.ErrorIs(t, err, ErrInvalidOrganizationNumber)
}

func TestOrganizationNumberNoValidControlDigit(t *testing.T) {
	// First eight digits sum to remainder 1 mod 11, so no control digit
	// can make the number valid.
	for _, control := range []string{"0", "1", "5", "9"} {
		err := OrganizationNumber("06000000" + control)
		assert.ErrorIs(t, err, ErrInvalidOrganizationNumber)
	}
}

func TestOrganizationNumberMalformed(t *testing.T) {
	cases := []string{"", "12345678", "1234567890", "97476067a", "97476067 "}
	for _, c := range cases {
		assert.ErrorIs(t, OrganizationNumber(c), ErrInvalidOrganizationNumber, c)
	}
}

func TestNationalIDValid(t *testing.T) {
	require.NoError(t, NationalID("01010112377"))
	require.NoError(t, NationalID("010101 12377"))
}

func TestNationalIDBadChecksum(t *testing.T) {
	// Second control digit off by one.
	assert.ErrorIs(t, NationalID("01010112378"), ErrInvalidNationalID)
	// First control digit off by one.
	assert.ErrorIs(t, NationalID("01010112367"), ErrInvalidNationalID)
}

func TestNationalIDMalformed(t *testing.T) {
	cases := []string{"", "0101011237", "010101123777", "0101011237x"}
	for _, c := range cases {
		assert.ErrorIs(t, NationalID(c), ErrInvalidNationalID, c)
	}
}

func TestEmail(t *testing.T) {
	require.NoError(t, Email("booking@kommune.no"))
	require.NoError(t, Email("first.last+tag@sub.example.org"))

	invalid := []string{"", "plainaddress", "a@b", "a b@c.no", "a@@b.no", "a@b.no "}
	for _, c := range invalid {
		assert.ErrorIs(t, Email(c), ErrInvalidEmail, c)
	}
}
