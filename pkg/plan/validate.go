package plan

import (
	"errors"
	"fmt"
)

// ErrInvalidPlan is wrapped by ValidationResult.Err when a plan has
// blocking findings.
var ErrInvalidPlan = errors.New("plan: invalid plan")

// ValidationSeverity indicates whether a validation finding blocks the
// build or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the build
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ElementID ID                 // wall or opening with the problem (zero if plan-level)
	Message   string             // human-readable description
	Severity  ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ElementID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] element %s: %s", e.Severity, e.ElementID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	ElementID ID
	Message   string
}

func (w ValidationWarning) String() string {
	if w.ElementID.IsZero() {
		return w.Message
	}
	return fmt.Sprintf("element %s: %s", w.ElementID.Short(), w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns nil when r has no errors, otherwise an error wrapping
// ErrInvalidPlan and every finding.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors)+1)
	errs = append(errs, fmt.Errorf("%w: %d error(s)", ErrInvalidPlan, len(r.Errors)))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Validate runs the Tier 1 structural checks and returns the findings. An
// empty slice means the plan is structurally sound. Validate never
// mutates the plan.
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLevel(p)...)
	errs = append(errs, validateIDs(p)...)
	errs = append(errs, validateWallDimensions(p)...)
	errs = append(errs, validateOpeningRefs(p)...)
	return errs
}

// ValidateAll runs all validation tiers (structural, geometric) and
// returns a ValidationResult with separated errors and warnings.
func ValidateAll(p *Plan) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(p) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				ElementID: e.ElementID,
				Message:   e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	geomErrs, geomWarnings := validateGeometry(p)
	result.Errors = append(result.Errors, geomErrs...)
	result.Warnings = append(result.Warnings, geomWarnings...)
	return result
}

// ---------------------------------------------------------------------------
// Tier 1: structural validation
// ---------------------------------------------------------------------------

func validateLevel(p *Plan) []ValidationError {
	var errs []ValidationError
	if p.Level.CeilingHeight <= 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("ceiling height is %.4f, must be positive", p.Level.CeilingHeight),
			Severity: SeverityError,
		})
	}
	if p.Level.MinRoomArea < 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("minimum room area is %.4f, must not be negative", p.Level.MinRoomArea),
			Severity: SeverityError,
		})
	}
	if len(p.Walls) == 0 {
		errs = append(errs, ValidationError{
			Message:  "plan has no walls",
			Severity: SeverityWarning,
		})
	}
	return errs
}

// validateIDs checks that ids are set and unique and that wall names are
// unique.
func validateIDs(p *Plan) []ValidationError {
	var errs []ValidationError
	seen := make(map[ID]bool)
	check := func(id ID, what string) {
		if id.IsZero() {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("%s has no id", what),
				Severity: SeverityError,
			})
			return
		}
		if seen[id] {
			errs = append(errs, ValidationError{
				ElementID: id,
				Message:   fmt.Sprintf("duplicate id on %s", what),
				Severity:  SeverityError,
			})
		}
		seen[id] = true
	}

	names := make(map[string]bool)
	for _, w := range p.Walls {
		check(w.ID, "wall "+w.Label())
		if w.Name == "" {
			continue
		}
		if names[w.Name] {
			errs = append(errs, ValidationError{
				ElementID: w.ID,
				Message:   fmt.Sprintf("duplicate wall name %q", w.Name),
				Severity:  SeverityError,
			})
		}
		names[w.Name] = true
	}
	for _, o := range p.Openings {
		check(o.ID, o.Kind.String())
	}
	return errs
}

func validateWallDimensions(p *Plan) []ValidationError {
	var errs []ValidationError
	for _, w := range p.Walls {
		if w.Thickness <= 0 {
			errs = append(errs, ValidationError{
				ElementID: w.ID,
				Message:   fmt.Sprintf("wall %s thickness is %.4f, must be positive", w.Label(), w.Thickness),
				Severity:  SeverityError,
			})
		}
		if w.Height <= 0 {
			errs = append(errs, ValidationError{
				ElementID: w.ID,
				Message:   fmt.Sprintf("wall %s height is %.4f, must be positive", w.Label(), w.Height),
				Severity:  SeverityError,
			})
		}
	}
	return errs
}

func validateOpeningRefs(p *Plan) []ValidationError {
	var errs []ValidationError
	for _, o := range p.Openings {
		if p.Wall(o.Wall) == nil {
			errs = append(errs, ValidationError{
				ElementID: o.ID,
				Message:   fmt.Sprintf("%s references wall %s which does not exist", o.Kind, o.Wall.Short()),
				Severity:  SeverityError,
			})
		}
		if o.Width <= 0 || o.Height <= 0 {
			errs = append(errs, ValidationError{
				ElementID: o.ID,
				Message:   fmt.Sprintf("%s size %.1fx%.1f must be positive", o.Kind, o.Width, o.Height),
				Severity:  SeverityError,
			})
		}
		if o.Sill < 0 {
			errs = append(errs, ValidationError{
				ElementID: o.ID,
				Message:   fmt.Sprintf("%s sill %.1f must not be negative", o.Kind, o.Sill),
				Severity:  SeverityError,
			})
		}
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors and warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(p *Plan) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	warnings = append(warnings, validateWallLength(p)...)
	warnings = append(warnings, validateCeiling(p)...)

	fitErrs, fitWarnings := validateOpeningFit(p)
	errs = append(errs, fitErrs...)
	warnings = append(warnings, fitWarnings...)

	errs = append(errs, validateOpeningOverlap(p)...)
	return errs, warnings
}

// validateWallLength flags walls the pipeline will skip.
func validateWallLength(p *Plan) []ValidationWarning {
	var warnings []ValidationWarning
	for _, w := range p.Walls {
		if w.Degenerate() {
			warnings = append(warnings, ValidationWarning{
				ElementID: w.ID,
				Message:   fmt.Sprintf("wall %s has length %.6f and will be skipped", w.Label(), w.Length()),
			})
		}
	}
	return warnings
}

// validateCeiling warns when walls poke through the ceiling.
func validateCeiling(p *Plan) []ValidationWarning {
	var warnings []ValidationWarning
	for _, w := range p.Walls {
		if top := w.Base + w.Height; top > p.Level.CeilingHeight+1e-9 && p.Level.CeilingHeight > 0 {
			warnings = append(warnings, ValidationWarning{
				ElementID: w.ID,
				Message:   fmt.Sprintf("wall %s top %.1f is above the ceiling at %.1f", w.Label(), top, p.Level.CeilingHeight),
			})
		}
	}
	return warnings
}

// validateOpeningFit checks that every opening lies inside its wall, and
// warns when it sits closer to a wall end than half the wall thickness,
// where it would cut into the corner joint.
func validateOpeningFit(p *Plan) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning
	for _, o := range p.Openings {
		w := p.Wall(o.Wall)
		if w == nil || w.Degenerate() || o.Width <= 0 || o.Height <= 0 {
			continue // reported by Tier 1 or the wall-length check
		}
		lo, hi := o.Span()
		l := w.Length()
		if lo < 0 || hi > l {
			errs = append(errs, ValidationError{
				ElementID: o.ID,
				Message:   fmt.Sprintf("%s span [%.1f, %.1f] is outside wall %s of length %.1f", o.Kind, lo, hi, w.Label(), l),
				Severity:  SeverityError,
			})
			continue
		}
		if o.Top() > w.Height {
			errs = append(errs, ValidationError{
				ElementID: o.ID,
				Message:   fmt.Sprintf("%s top %.1f is above wall %s height %.1f", o.Kind, o.Top(), w.Label(), w.Height),
				Severity:  SeverityError,
			})
			continue
		}
		if margin := w.Thickness / 2; lo < margin || l-hi < margin {
			warnings = append(warnings, ValidationWarning{
				ElementID: o.ID,
				Message:   fmt.Sprintf("%s is within %.1f of an end of wall %s", o.Kind, margin, w.Label()),
			})
		}
	}
	return errs, warnings
}

// validateOpeningOverlap checks that openings on one wall do not overlap.
func validateOpeningOverlap(p *Plan) []ValidationError {
	var errs []ValidationError
	for _, w := range p.Walls {
		ops := p.OpeningsOn(w.ID)
		for i := 1; i < len(ops); i++ {
			cur := ops[i]
			lo, hi := cur.Span()
			for _, prev := range ops[:i] {
				prevLo, prevHi := prev.Span()
				if lo >= prevHi || prevLo >= hi {
					continue
				}
				// Openings stacked vertically may share a span.
				if cur.Sill >= prev.Top() || prev.Sill >= cur.Top() {
					continue
				}
				errs = append(errs, ValidationError{
					ElementID: cur.ID,
					Message:   fmt.Sprintf("%s overlaps %s %s on wall %s", cur.Kind, prev.Kind, prev.ID.Short(), w.Label()),
					Severity:  SeverityError,
				})
				break
			}
		}
	}
	return errs
}
