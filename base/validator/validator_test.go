package validator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) TestIsValidAddress() {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "invalid address - hex",
			address:    "0x939ae6A4C8dfDBB1f7085189574F0A938013952A",
			expIsValid: false,
		},
		{
			desc:       "valid address - wrapped native mint",
			address:    "So11111111111111111111111111111111111111112",
			expIsValid: true,
		},
		{
			desc:       "valid address - system program",
			address:    "11111111111111111111111111111111",
			expIsValid: true,
		},
		{
			desc:       "too short",
			address:    "abc",
			expIsValid: false,
		},
		{
			desc:       "empty",
			address:    "",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidAddress(t.address), t.desc)
	}
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
