package leave

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
)

var (
	endBeforeStartTag  = "endafterstart"
	endBeforeStartText = "end date cannot be before start date"

	commentsRequiredTag  = "rejectcomments"
	commentsRequiredText = "comments are required when rejecting a request"
)

// InitValidators registers the leave form rules.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newRequestStructValidation, NewRequest{})
	validate.RegisterStructValidation(decisionStructValidation, Decision{})

	core.RegisterCustomTranslation(validate, translator, endBeforeStartTag, endBeforeStartText)
	core.RegisterCustomTranslation(validate, translator, commentsRequiredTag, commentsRequiredText)
}

// newRequestStructValidation checks that the leave does not end before it starts.
func newRequestStructValidation(sl validator.StructLevel) {
	nr := sl.Current().Interface().(NewRequest)
	start, err1 := time.Parse(core.DateLayout, nr.StartDate)
	end, err2 := time.Parse(core.DateLayout, nr.EndDate)
	if err1 != nil || err2 != nil {
		return // reported by the field rules
	}
	if end.Before(start) {
		sl.ReportError(nr.EndDate, "endDate", "EndDate", endBeforeStartTag, "")
	}
}

// decisionStructValidation requires comments on rejection.
func decisionStructValidation(sl validator.StructLevel) {
	d := sl.Current().Interface().(Decision)
	if d.Decision == "reject" && core.CleanString(d.Comments) == "" {
		sl.ReportError(d.Comments, "comments", "Comments", commentsRequiredTag, "")
	}
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.Reason = core.CleanString(nr.Reason)
	nr.AdditionalDetails = core.CleanString(nr.AdditionalDetails)
	return validate.Struct(nr)
}

func (d *Decision) Validate(validate *validator.Validate) error {
	d.Decision = core.CleanString(d.Decision, true /* lower */)
	d.Comments = core.CleanString(d.Comments)
	return validate.Struct(d)
}
