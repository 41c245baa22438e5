package intake

import (
	"sync"
	"time"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// FormState is the donor intake form shared by all intake steps.
type FormState struct {
	FullName           string           `json:"full_name"`
	BloodType          domain.BloodType `json:"blood_type,omitempty"`
	DateOfBirth        string           `json:"date_of_birth,omitempty"`
	WeightKg           float64          `json:"weight_kg,omitempty"`
	LastDonation       string           `json:"last_donation,omitempty"`
	SelectedConditions Selection        `json:"selected_conditions"`
	HasDisease         bool             `json:"has_disease"`
}

// Patch is a partial FormState. Nil fields are left untouched by Update.
type Patch struct {
	FullName           *string           `json:"full_name,omitempty"`
	BloodType          *domain.BloodType `json:"blood_type,omitempty"`
	DateOfBirth        *string           `json:"date_of_birth,omitempty"`
	WeightKg           *float64          `json:"weight_kg,omitempty"`
	LastDonation       *string           `json:"last_donation,omitempty"`
	SelectedConditions *Selection        `json:"selected_conditions,omitempty"`
	HasDisease         *bool             `json:"has_disease,omitempty"`
}

// Validate checks the fields a client can set directly. The condition fields
// are rejected here; they only change through the condition selector.
func (p Patch) Validate() error {
	if p.SelectedConditions != nil || p.HasDisease != nil {
		return dErrors.New(dErrors.CodeValidation, "conditions are changed through the medical history step")
	}
	if p.BloodType != nil && *p.BloodType != "" && !p.BloodType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid blood type")
	}
	if p.WeightKg != nil && *p.WeightKg < 0 {
		return dErrors.New(dErrors.CodeValidation, "weight must not be negative")
	}
	for field, v := range map[string]*string{"date_of_birth": p.DateOfBirth, "last_donation": p.LastDonation} {
		if v == nil || *v == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, *v); err != nil {
			return dErrors.New(dErrors.CodeValidation, field+" must be YYYY-MM-DD")
		}
	}
	return nil
}

// Container owns a FormState. Update merges a Patch shallowly and atomically.
type Container interface {
	Read() FormState
	Update(p Patch)
}

// Form is the in-memory Container used per session.
type Form struct {
	mu    sync.RWMutex
	state FormState
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{state: FormState{SelectedConditions: Selection{}}}
}

func (f *Form) Read() FormState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := f.state
	out.SelectedConditions = append(Selection{}, f.state.SelectedConditions...)
	return out
}

func (f *Form) Update(p Patch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.FullName != nil {
		f.state.FullName = *p.FullName
	}
	if p.BloodType != nil {
		f.state.BloodType = *p.BloodType
	}
	if p.DateOfBirth != nil {
		f.state.DateOfBirth = *p.DateOfBirth
	}
	if p.WeightKg != nil {
		f.state.WeightKg = *p.WeightKg
	}
	if p.LastDonation != nil {
		f.state.LastDonation = *p.LastDonation
	}
	if p.SelectedConditions != nil {
		f.state.SelectedConditions = append(Selection{}, (*p.SelectedConditions)...)
	}
	if p.HasDisease != nil {
		f.state.HasDisease = *p.HasDisease
	}
}
