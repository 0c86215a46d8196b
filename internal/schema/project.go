package schema

// ProjectCreate is the payload for creating a project together with its
// first rotation. Assignee and reviewer entries are role tags, kept in the
// order submitted.
type ProjectCreate struct {
	Name               string   `json:"name" validate:"required,max=100"`
	Description        *string  `json:"description" validate:"omitnil,max=500"`
	RotationPeriodDays int      `json:"rotationPeriodDays" validate:"min=1,max=365"`
	StartDate          string   `json:"startDate" validate:"required"`
	Assignees          []string `json:"assignees" validate:"min=1,dive,required,max=100"`
	Reviewers          []string `json:"reviewers" validate:"min=1,dive,required,max=100"`
}

var projectMessages = map[string]string{
	"name/required":           "Project name is required.",
	"name/max":                "Project name is too long.",
	"description/max":         "Description is too long.",
	"rotationPeriodDays/min":  "Rotation period must be at least 1 day.",
	"rotationPeriodDays/max":  "Rotation period cannot exceed 365 days.",
	"startDate/required":      "Start date is required.",
	"assignees/min":           "At least one assignee role is required.",
	"assignees/required":      "Assignee name cannot be empty.",
	"assignees/max":           "Assignee name is too long.",
	"reviewers/min":           "At least one reviewer role is required.",
	"reviewers/required":      "Reviewer name cannot be empty.",
	"reviewers/max":           "Reviewer name is too long.",
}

// ValidateProjectCreate returns nil or a validation error listing every
// violated rule. Date parsing is left to the lifecycle manager; here the
// start date only has to be present.
func ValidateProjectCreate(p ProjectCreate) error {
	return run(p, projectMessages)
}
