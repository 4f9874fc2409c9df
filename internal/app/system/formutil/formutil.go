// Package formutil holds the error state of a full-page form that is
// re-rendered after a failed submission.
//
// Embed Form next to viewdata.BaseVM:
//
//	type registerFormData struct {
//		viewdata.BaseVM
//		formutil.Form
//		Email string
//	}
//
//	if errs := inputval.Struct(form); errs != nil {
//		data.SetFieldErrors(errs)
//	}
package formutil

import "github.com/dalemusser/skillmatch/internal/app/system/inputval"

// Form carries a summary message and per-input messages.
type Form struct {
	Error string

	// FieldErrors holds inline messages keyed by input name.
	FieldErrors inputval.Errors
}

// SetError sets the summary message shown above the form.
func (f *Form) SetError(msg string) {
	f.Error = msg
}

// SetFieldErrors records inline messages. A nil or empty map clears them.
func (f *Form) SetFieldErrors(errs inputval.Errors) {
	if len(errs) == 0 {
		f.FieldErrors = nil
		return
	}
	f.FieldErrors = make(inputval.Errors, len(errs))
	for k, v := range errs {
		f.FieldErrors[k] = v
	}
}

// FieldError returns the inline message for name, or "".
func (f Form) FieldError(name string) string {
	return f.FieldErrors[name]
}

// HasErrors reports whether any summary or field error is set.
func (f Form) HasErrors() bool {
	return f.Error != "" || len(f.FieldErrors) > 0
}
