package fluentspec

import (
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PropertyRules pairs a property name with its rule chain. Name is the Go
// field name as declared on the type; name resolution to schema keys happens
// during augmentation.
type PropertyRules struct {
	Name  string
	Chain RuleChain
}

// Validator exposes the rule chains declared for one type. Implementations
// are registered in a Registry and consumed by the Augmenter.
type Validator interface {
	Rules() []PropertyRules
}

// TypeValidator is a fluent Validator for one type. Chains declared for the
// same property accumulate in declaration order.
//
//	v := fluentspec.NewValidator().
//	    RuleFor("Name", fluentspec.NotEmpty(), fluentspec.MaximumLength(100)).
//	    RuleFor("Email", fluentspec.EmailAddress())
type TypeValidator struct {
	props []PropertyRules
	index map[string]int
}

// NewValidator returns an empty TypeValidator.
func NewValidator() *TypeValidator {
	return &TypeValidator{index: make(map[string]int)}
}

// RuleFor appends rules to the chain for the named property and returns the
// validator for chaining.
func (v *TypeValidator) RuleFor(name string, rules ...Rule) *TypeValidator {
	if i, ok := v.index[name]; ok {
		v.props[i].Chain = append(v.props[i].Chain, rules...)
		return v
	}
	v.index[name] = len(v.props)
	v.props = append(v.props, PropertyRules{Name: name, Chain: RuleChain(rules)})
	return v
}

// Rules returns the declared chains in declaration order.
func (v *TypeValidator) Rules() []PropertyRules {
	return v.props
}

// ValidateValue runs every declared chain against the matching fields of a
// struct value. The returned error is a validation.Errors map keyed by
// property name, or nil when all checks pass.
func (v *TypeValidator) ValidateValue(value any) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	errs := validation.Errors{}
	for _, pr := range v.props {
		fv, ok := fieldByName(rv, pr.Name)
		if !ok {
			continue
		}
		for _, rule := range pr.Chain {
			if err := rule.Validate(fv.Interface()); err != nil {
				errs[pr.Name] = err
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// fieldByName finds an exported struct field by exact name, falling back to
// a case-insensitive match.
func fieldByName(rv reflect.Value, name string) (reflect.Value, bool) {
	t := rv.Type()
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		return rv.FieldByIndex(f.Index), true
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}
