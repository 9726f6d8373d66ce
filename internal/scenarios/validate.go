package scenarios

import (
	"fmt"
	"strings"
	"time"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
)

// dateLayouts are the accepted forms of a scenario bound
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a scenario start or end
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// ValidStep reports whether step is one of domain.TimeSteps
func ValidStep(step string) bool {
	for _, s := range domain.TimeSteps {
		if s == step {
			return true
		}
	}
	return false
}

// ParseOptimism reads 1, 2, 3 or their names; anything else is 0, which
// Validate rejects
func ParseOptimism(s string) domain.Optimism {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, o := range []domain.Optimism{domain.OptimismPessimistic, domain.OptimismAverage, domain.OptimismOptimistic} {
		if s == fmt.Sprint(int(o)) || s == o.String() {
			return o
		}
	}
	return 0
}

// Validate checks a scenario draft before it is sent
func Validate(draft domain.Scenario) error {
	required := []struct {
		field, value string
	}{
		{"name", draft.Name},
		{"description", draft.Description},
		{"start", draft.Start},
		{"end", draft.End},
		{"step", draft.Step},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return herrors.InvalidInput(r.field+" is required").WithDetail("field", r.field)
		}
	}

	start, err := ParseDate(draft.Start)
	if err != nil {
		return herrors.InvalidInput(err.Error()).WithDetail("field", "start")
	}
	end, err := ParseDate(draft.End)
	if err != nil {
		return herrors.InvalidInput(err.Error()).WithDetail("field", "end")
	}
	if !end.After(start) {
		return herrors.InvalidInput("end must be after start").WithDetail("field", "end")
	}

	if !ValidStep(draft.Step) {
		return herrors.InvalidInput(fmt.Sprintf("step must be one of %s", strings.Join(domain.TimeSteps, ", "))).
			WithDetail("field", "step")
	}
	if !draft.SocialOptimism.Valid() {
		return herrors.InvalidInput("social optimism must be 1, 2 or 3").WithDetail("field", "social_optimism")
	}
	if !draft.EcologicalOptimism.Valid() {
		return herrors.InvalidInput("ecological optimism must be 1, 2 or 3").WithDetail("field", "ecological_optimism")
	}
	return nil
}
