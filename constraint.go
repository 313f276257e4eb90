package fluentspec

import "github.com/shopspring/decimal"

// ConstraintSet accumulates the schema-level facts proposed by one
// property's rule chain before they are written to a SchemaNode.
//
// Merge policy when several rules propose the same field:
//   - lower bounds (minLength, minimum) keep the maximum proposal — a higher
//     floor is stricter;
//   - upper bounds (maxLength, maximum) keep the minimum proposal;
//   - required and nullable are monotonic ORs, never reset once true;
//   - pattern and enum are last-rule-wins.
//
// The numeric merges are commutative, so bound proposals may arrive in any
// chain order. The set does not police semantic sanity: a chain declaring
// minLength > maxLength surfaces as-is in the schema.
type ConstraintSet struct {
	required bool
	nullable bool

	minLength *int
	maxLength *int

	minimum      decimal.NullDecimal
	maximum      decimal.NullDecimal
	exclusiveMin bool
	exclusiveMax bool

	pattern *string
	enum    []any
}

// ProposeRequired marks the property required.
func (c *ConstraintSet) ProposeRequired() {
	c.required = true
}

// ProposeNullable marks the property nullable.
func (c *ConstraintSet) ProposeNullable() {
	c.nullable = true
}

// ProposeMinLength merges a minLength proposal; the highest floor wins.
func (c *ConstraintSet) ProposeMinLength(n int) {
	if c.minLength == nil || n > *c.minLength {
		c.minLength = &n
	}
}

// ProposeMaxLength merges a maxLength proposal; the lowest ceiling wins.
func (c *ConstraintSet) ProposeMaxLength(n int) {
	if c.maxLength == nil || n < *c.maxLength {
		c.maxLength = &n
	}
}

// ProposeMinimum merges a numeric minimum. A higher bound replaces a lower
// one; on equal bounds exclusivity is ORed, since excluding the endpoint is
// the stricter reading.
func (c *ConstraintSet) ProposeMinimum(v decimal.Decimal, exclusive bool) {
	switch {
	case !c.minimum.Valid || v.GreaterThan(c.minimum.Decimal):
		c.minimum = decimal.NullDecimal{Decimal: v, Valid: true}
		c.exclusiveMin = exclusive
	case v.Equal(c.minimum.Decimal):
		c.exclusiveMin = c.exclusiveMin || exclusive
	}
}

// ProposeMaximum merges a numeric maximum, symmetric to ProposeMinimum.
func (c *ConstraintSet) ProposeMaximum(v decimal.Decimal, exclusive bool) {
	switch {
	case !c.maximum.Valid || v.LessThan(c.maximum.Decimal):
		c.maximum = decimal.NullDecimal{Decimal: v, Valid: true}
		c.exclusiveMax = exclusive
	case v.Equal(c.maximum.Decimal):
		c.exclusiveMax = c.exclusiveMax || exclusive
	}
}

// ProposePattern replaces the pattern; the last proposal wins.
func (c *ConstraintSet) ProposePattern(pattern string) {
	c.pattern = &pattern
}

// ProposeEnum replaces the enumerated value set; the last proposal wins.
func (c *ConstraintSet) ProposeEnum(values []any) {
	c.enum = values
}

// Required reports whether the set marks the property required.
func (c *ConstraintSet) Required() bool { return c.required }

// Apply writes the accumulated constraints onto a node. Writing to an
// EmptyNode discards everything; required marking is the context's concern
// and is not part of Apply.
func (c *ConstraintSet) Apply(node SchemaNode) {
	if node == nil {
		return
	}
	if c.nullable {
		node.SetNullable(true)
	}
	if c.minLength != nil {
		node.SetMinLength(*c.minLength)
	}
	if c.maxLength != nil {
		node.SetMaxLength(*c.maxLength)
	}
	if c.minimum.Valid {
		node.SetMinimum(c.minimum.Decimal, c.exclusiveMin)
	}
	if c.maximum.Valid {
		node.SetMaximum(c.maximum.Decimal, c.exclusiveMax)
	}
	if c.pattern != nil {
		node.SetPattern(*c.pattern)
	}
	if c.enum != nil {
		node.SetEnum(c.enum)
	}
}
