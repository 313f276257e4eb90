package fluentspec

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// RuleKind identifies what a rule constrains. The mapper dispatches on it
// when translating a rule chain into schema constraints.
type RuleKind string

// Rule kinds understood by the mapper.
const (
	KindNotEmpty           RuleKind = "notEmpty"
	KindNotNull            RuleKind = "notNull"
	KindMinimumLength      RuleKind = "minimumLength"
	KindMaximumLength      RuleKind = "maximumLength"
	KindLength             RuleKind = "length"
	KindGreaterThan        RuleKind = "greaterThan"
	KindGreaterThanOrEqual RuleKind = "greaterThanOrEqual"
	KindLessThan           RuleKind = "lessThan"
	KindLessThanOrEqual    RuleKind = "lessThanOrEqual"
	KindInclusiveBetween   RuleKind = "inclusiveBetween"
	KindExclusiveBetween   RuleKind = "exclusiveBetween"
	KindMatches            RuleKind = "matches"
	KindEmailAddress       RuleKind = "emailAddress"
	KindInEnum             RuleKind = "isInEnum"
)

// EmailPattern is the pattern written to schemas for EmailAddress rules.
const EmailPattern = `^[^@\s]+@[^@\s]+$`

// Rule is one declarative validation rule for a property. Rules carry the
// parameters the schema mapper needs and an executable runtime check, so a
// chain documents and enforces the same contract.
//
// Numeric bounds are held as exact decimals: a bound declared as 5.1 merges
// against another 5.1, never against a binary-float artifact.
type Rule struct {
	Kind    RuleKind
	Lower   decimal.NullDecimal
	Upper   decimal.NullDecimal
	MinLen  *int
	MaxLen  *int
	Pattern string
	Values  []any

	exec validation.Rule
}

// Validate runs the rule's runtime check against a value.
// Documentation-only parameters do not affect the check.
func (r Rule) Validate(value any) error {
	if r.exec == nil {
		return nil
	}
	return r.exec.Validate(value)
}

// RuleChain is the ordered rule sequence attached to one property. Order
// matters only where the merge policy is last-rule-wins (pattern, enum).
type RuleChain []Rule

// NotEmpty requires the property to be present and non-zero. String-typed
// properties additionally get minLength 1.
func NotEmpty() Rule {
	return Rule{Kind: KindNotEmpty, exec: validation.Required}
}

// NotNull requires the property to be non-nil. Schema-side it behaves like
// NotEmpty.
func NotNull() Rule {
	return Rule{Kind: KindNotNull, exec: validation.NotNil}
}

// MinimumLength proposes a minLength bound.
func MinimumLength(n int) Rule {
	return Rule{Kind: KindMinimumLength, MinLen: &n, exec: validation.RuneLength(n, 0)}
}

// MaximumLength proposes a maxLength bound.
func MaximumLength(n int) Rule {
	return Rule{Kind: KindMaximumLength, MaxLen: &n, exec: validation.RuneLength(0, n)}
}

// Length proposes both length bounds.
func Length(minLen, maxLen int) Rule {
	return Rule{Kind: KindLength, MinLen: &minLen, MaxLen: &maxLen, exec: validation.RuneLength(minLen, maxLen)}
}

// GreaterThan proposes an exclusive minimum.
func GreaterThan(v float64) Rule {
	return Rule{Kind: KindGreaterThan, Lower: dec(v), exec: validation.Min(v).Exclusive()}
}

// GreaterThanOrEqual proposes an inclusive minimum.
func GreaterThanOrEqual(v float64) Rule {
	return Rule{Kind: KindGreaterThanOrEqual, Lower: dec(v), exec: validation.Min(v)}
}

// LessThan proposes an exclusive maximum.
func LessThan(v float64) Rule {
	return Rule{Kind: KindLessThan, Upper: dec(v), exec: validation.Max(v).Exclusive()}
}

// LessThanOrEqual proposes an inclusive maximum.
func LessThanOrEqual(v float64) Rule {
	return Rule{Kind: KindLessThanOrEqual, Upper: dec(v), exec: validation.Max(v)}
}

// InclusiveBetween proposes inclusive bounds on both ends.
func InclusiveBetween(minVal, maxVal float64) Rule {
	return Rule{
		Kind:  KindInclusiveBetween,
		Lower: dec(minVal),
		Upper: dec(maxVal),
		exec:  rules{validation.Min(minVal), validation.Max(maxVal)},
	}
}

// ExclusiveBetween proposes exclusive bounds on both ends.
func ExclusiveBetween(minVal, maxVal float64) Rule {
	return Rule{
		Kind:  KindExclusiveBetween,
		Lower: dec(minVal),
		Upper: dec(maxVal),
		exec:  rules{validation.Min(minVal).Exclusive(), validation.Max(maxVal).Exclusive()},
	}
}

// Matches proposes a regular-expression pattern. The pattern must compile;
// Matches panics otherwise, the same way regexp.MustCompile does.
func Matches(pattern string) Rule {
	return Rule{Kind: KindMatches, Pattern: pattern, exec: validation.Match(regexp.MustCompile(pattern))}
}

// EmailAddress proposes the fixed EmailPattern and validates addresses at
// runtime.
func EmailAddress() Rule {
	return Rule{Kind: KindEmailAddress, Pattern: EmailPattern, exec: is.Email}
}

// InEnum proposes an enumerated value set. A later InEnum in the same chain
// replaces the set; sets are never unioned.
func InEnum(values ...any) Rule {
	return Rule{Kind: KindInEnum, Values: values, exec: validation.In(values...)}
}

func dec(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

// rules runs a fixed set of checks in order, stopping at the first failure.
type rules []validation.Rule

func (rs rules) Validate(value any) error {
	for _, r := range rs {
		if err := r.Validate(value); err != nil {
			return err
		}
	}
	return nil
}
