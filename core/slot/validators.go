package slot

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmukandila/ratiba/core"
)

var (
	endAfterStartTag  = "endafterstart"
	endAfterStartText = "end time must be after start time"
)

func init() {
	core.Validate.RegisterStructValidation(valuesStructValidation, Values{})
	core.RegisterCustomTranslation(endAfterStartTag, endAfterStartText)
}

// valuesStructValidation checks that the slot window is a valid interval:
// end strictly after start, on the same date.
func valuesStructValidation(sl validator.StructLevel) {
	vals, ok := sl.Current().Interface().(Values)
	if !ok {
		return
	}
	start, err := time.Parse(timeLayout, vals.StartTime)
	if err != nil {
		return // field-level datetime tag reports this one
	}
	end, err := time.Parse(timeLayout, vals.EndTime)
	if err != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(vals.EndTime, "endTime", "EndTime", endAfterStartTag, "")
	}
}
