package bloodbank

import (
	"encoding/json"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

// Counts maps a blood group to the number of units on hand.
// Unset groups read as zero; values are never negative.
type Counts map[domain.BloodType]int

// Set records units for bt.
func (c Counts) Set(bt domain.BloodType, units int) error {
	if !bt.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid blood type")
	}
	if units < 0 {
		return dErrors.New(dErrors.CodeValidation, "units must not be negative")
	}
	c[bt] = units
	return nil
}

// Get returns units for bt, zero when unset.
func (c Counts) Get(bt domain.BloodType) int {
	return c[bt]
}

// Clone copies the counts so an in-flight payload is unaffected by later edits.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Payload is the body posted to the backend: the token plus one field per group.
type Payload struct {
	Token      string `json:"token"`
	APositive  int    `json:"A_positive"`
	ANegative  int    `json:"A_negative"`
	BPositive  int    `json:"B_positive"`
	BNegative  int    `json:"B_negative"`
	OPositive  int    `json:"O_positive"`
	ONegative  int    `json:"O_negative"`
	ABPositive int    `json:"AB_positive"`
	ABNegative int    `json:"AB_negative"`
}

// NewPayload builds the request body, defaulting missing groups to zero.
func NewPayload(token string, c Counts) Payload {
	return Payload{
		Token:      token,
		APositive:  c.Get(domain.BloodTypeAPositive),
		ANegative:  c.Get(domain.BloodTypeANegative),
		BPositive:  c.Get(domain.BloodTypeBPositive),
		BNegative:  c.Get(domain.BloodTypeBNegative),
		OPositive:  c.Get(domain.BloodTypeOPositive),
		ONegative:  c.Get(domain.BloodTypeONegative),
		ABPositive: c.Get(domain.BloodTypeABPositive),
		ABNegative: c.Get(domain.BloodTypeABNegative),
	}
}

// MarshalJSON renders counts keyed by group label with every group present.
func (c Counts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, 8)
	for _, bt := range domain.BloodTypes() {
		out[bt.String()] = c.Get(bt)
	}
	return json.Marshal(out)
}
