package importer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateImportSchema checks field constraints and cross references and
// returns every problem found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error
	if err := validate.Struct(schema); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []error{err}
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	teamRefs := make(map[string]bool, len(schema.Teams))
	for i, t := range schema.Teams {
		if t.Ref == "" {
			continue
		}
		if teamRefs[t.Ref] {
			errs = append(errs, fmt.Errorf("teams[%d]: duplicate ref %q", i, t.Ref))
		}
		teamRefs[t.Ref] = true
	}

	scopes := make(map[string]bool, len(schema.Capacity))
	for i, c := range schema.Capacity {
		if c.Scope == "" {
			continue
		}
		if scopes[c.Scope] {
			errs = append(errs, fmt.Errorf("capacity[%d]: duplicate scope %q", i, c.Scope))
		}
		scopes[c.Scope] = true
	}

	for i, init := range schema.Initiatives {
		if init.Status != "" {
			if _, err := domain.ParseInitiativeStatus(init.Status); err != nil {
				errs = append(errs, fmt.Errorf("initiatives[%d].status: %w", i, err))
			}
		}
		if init.PlanningYear == 0 && schema.PlanningYear == 0 {
			errs = append(errs, fmt.Errorf("initiatives[%d].planning_year is required (no file default)", i))
		}
		seen := make(map[string]bool, len(init.Assignments))
		for j, a := range init.Assignments {
			if a.Team == "" {
				continue
			}
			if seen[a.Team] {
				errs = append(errs, fmt.Errorf("initiatives[%d].assignments[%d]: team %q assigned twice", i, j, a.Team))
			}
			seen[a.Team] = true
		}
	}
	return errs
}

// Warnings reports suspicious but importable data.
func Warnings(schema *ImportSchema) []string {
	var out []string
	hasTotals := false
	for _, c := range schema.Capacity {
		if c.Scope == domain.TotalsScope {
			hasTotals = true
		}
		for _, pair := range []struct {
			name string
			fig  FigureImport
		}{
			{"funded_hc", c.FundedHC},
			{"team_bis", c.TeamBIS},
			{"effective_bis", c.EffectiveBIS},
		} {
			if pair.fig.Net > pair.fig.Gross {
				out = append(out, fmt.Sprintf("capacity %q %s: net %.2f exceeds gross %.2f", c.Scope, pair.name, pair.fig.Net, pair.fig.Gross))
			}
		}
	}
	if len(schema.Capacity) > 0 && !hasTotals {
		out = append(out, fmt.Sprintf("capacity has no %q scope; the organization limit will be 0", domain.TotalsScope))
	}
	return out
}

func fieldError(fe validator.FieldError) error {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "gt":
		return fmt.Errorf("%s must be greater than %s", path, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", path, fe.Param())
	case "datetime":
		return fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", path, fe.Value())
	default:
		return fmt.Errorf("%s failed %q validation", path, fe.Tag())
	}
}
