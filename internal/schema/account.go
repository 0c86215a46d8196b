package schema

import "github.com/go-playground/validator/v10"

// AccountUpdate is a self-service account mutation. Every field is optional;
// absent and empty are distinct, which is why fields are pointers.
type AccountUpdate struct {
	Name               *string `json:"name" validate:"omitnil,max=100"`
	Email              *string `json:"email" validate:"omitnil,email"`
	CurrentPassword    *string `json:"currentPassword" validate:"omitnil,min=6"`
	NewPassword        *string `json:"newPassword" validate:"omitnil,min=6"`
	ConfirmNewPassword *string `json:"confirmNewPassword" validate:"omitnil,min=6"`
}

// RequiresReauth reports whether the payload touches credentials and must be
// preceded by a current-password check.
func (a AccountUpdate) RequiresReauth() bool {
	return set(a.CurrentPassword) || set(a.NewPassword) || set(a.ConfirmNewPassword)
}

func (a AccountUpdate) WantsNewPassword() bool { return set(a.NewPassword) }

func (a AccountUpdate) EmailValue() string {
	if a.Email == nil {
		return ""
	}
	return *a.Email
}

var accountMessages = map[string]string{
	"name/max":                       "Name is too long.",
	"email/email":                    "This is not a valid email.",
	"currentPassword/min":            "Password must be at least 6 characters.",
	"newPassword/min":                "Password must be at least 6 characters.",
	"confirmNewPassword/min":         "Password must be at least 6 characters.",
	"currentPassword/allpasswords":   "Current password and both new password fields must be filled.",
	"confirmNewPassword/match":       "Passwords do not match.",
	"currentPassword/emailrequires":  "Current password is required to change email.",
	"name/atleastone":                "At least one field must be changed.",
}

// accountUpdateRules holds the cross-field constraints. Each rule is checked
// independently so a payload can collect several violations at once.
func accountUpdateRules(sl validator.StructLevel) {
	a := sl.Current().Interface().(AccountUpdate)

	// Starting a password change requires the full triple.
	if set(a.NewPassword) || set(a.ConfirmNewPassword) {
		if !set(a.CurrentPassword) || !set(a.NewPassword) || !set(a.ConfirmNewPassword) {
			sl.ReportError(a.CurrentPassword, "currentPassword", "CurrentPassword", "allpasswords", "")
		}
	}

	if set(a.NewPassword) && set(a.ConfirmNewPassword) && *a.NewPassword != *a.ConfirmNewPassword {
		sl.ReportError(a.ConfirmNewPassword, "confirmNewPassword", "ConfirmNewPassword", "match", "")
	}

	if set(a.Email) && !set(a.CurrentPassword) {
		sl.ReportError(a.CurrentPassword, "currentPassword", "CurrentPassword", "emailrequires", "")
	}

	if !set(a.Name) && !set(a.Email) && !set(a.NewPassword) {
		sl.ReportError(a.Name, "name", "Name", "atleastone", "")
	}
}

// ValidateAccountUpdate returns nil or a validation error listing every
// violated rule.
func ValidateAccountUpdate(a AccountUpdate) error {
	return run(a, accountMessages)
}
