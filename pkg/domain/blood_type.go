package domain

import dErrors "bloodlink/pkg/domain-errors"

// BloodType is an ABO/Rh group label such as "AB+".
// Invariant: the value must be one of the eight supported groups.
//
// Usage: construct via ParseBloodType at trust boundaries; direct casting
// bypasses validation.
type BloodType string

const (
	BloodTypeAPositive  BloodType = "A+"
	BloodTypeANegative  BloodType = "A-"
	BloodTypeBPositive  BloodType = "B+"
	BloodTypeBNegative  BloodType = "B-"
	BloodTypeOPositive  BloodType = "O+"
	BloodTypeONegative  BloodType = "O-"
	BloodTypeABPositive BloodType = "AB+"
	BloodTypeABNegative BloodType = "AB-"
)

// bloodTypes is the display order and the single source of truth.
var bloodTypes = []BloodType{
	BloodTypeAPositive,
	BloodTypeANegative,
	BloodTypeBPositive,
	BloodTypeBNegative,
	BloodTypeOPositive,
	BloodTypeONegative,
	BloodTypeABPositive,
	BloodTypeABNegative,
}

// wireFields maps each group to its backend field name.
var wireFields = map[BloodType]string{
	BloodTypeAPositive:  "A_positive",
	BloodTypeANegative:  "A_negative",
	BloodTypeBPositive:  "B_positive",
	BloodTypeBNegative:  "B_negative",
	BloodTypeOPositive:  "O_positive",
	BloodTypeONegative:  "O_negative",
	BloodTypeABPositive: "AB_positive",
	BloodTypeABNegative: "AB_negative",
}

// BloodTypes returns all supported groups in display order.
func BloodTypes() []BloodType {
	out := make([]BloodType, len(bloodTypes))
	copy(out, bloodTypes)
	return out
}

// ParseBloodType constructs a BloodType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseBloodType(s string) (BloodType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "blood type cannot be empty")
	}
	bt := BloodType(s)
	if !bt.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid blood type")
	}
	return bt, nil
}

// IsValid checks if the blood type is one of the supported groups.
func (b BloodType) IsValid() bool {
	_, ok := wireFields[b]
	return ok
}

// FieldName returns the backend field name, e.g. "AB_negative".
func (b BloodType) FieldName() string {
	return wireFields[b]
}

func (b BloodType) String() string {
	return string(b)
}
