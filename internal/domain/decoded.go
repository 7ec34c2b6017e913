package domain

import "math/big"

// DecodedAction is an action with its calldata resolved against the known ABIs
type DecodedAction struct {
	To       string       `json:"to"`
	Value    *big.Int     `json:"value"`
	Contract string       `json:"contract,omitempty"`
	Method   string       `json:"method,omitempty"`
	Args     []DecodedArg `json:"args,omitempty"`
	Raw      string       `json:"raw,omitempty"`
}

// DecodedArg is a named, formatted call argument
type DecodedArg struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
