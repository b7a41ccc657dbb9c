package listing

import (
	"github.com/shopspring/decimal"

	"github.com/laplataremata/remata-engine/internal/models"
)

// Form holds the auction entry fields between edits. After a
// successful creation every field returns to its default.
type Form struct {
	Title         string
	Description   string
	Condition     models.Condition
	StartingPrice decimal.Decimal
	EndTime       string
	ImageName     string
}

// NewForm returns a form with default values.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset restores the defaults: empty fields, zero starting price,
// condition "nuevo".
func (f *Form) Reset() {
	*f = Form{
		Condition:     models.ConditionNew,
		StartingPrice: decimal.Zero,
	}
}
