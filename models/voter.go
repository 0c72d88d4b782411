package models

import "github.com/ethereum/go-ethereum/common"

// VoterRecord mirrors the Voter struct held by the Election contract.
type VoterRecord struct {
	Address        common.Address `json:"address"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	DocumentNumber string         `json:"document_number"`
	HasVoted       bool           `json:"has_voted"`
	IsVerified     bool           `json:"is_verified"`
	IsRegistered   bool           `json:"is_registered"`
}

// RegistrationForm holds the pending values of the registration form.
type RegistrationForm struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	DocumentNumber string `json:"document_number"`
}
