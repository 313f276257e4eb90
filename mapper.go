package fluentspec

// ApplyRules maps a property's rule chain onto its schema. It resolves the
// property node through the context, folds every rule into a ConstraintSet,
// and writes the merged result. Required marking goes to the owning schema
// via the context.
//
// An unreachable property yields an EmptyNode, so the whole application is a
// silent no-op except for required marking, which only needs the parent.
func ApplyRules(ctx SchemaContext, name string, chain RuleChain) {
	applyChain(ctx, name, ctx.PropertyNode(name), chain)
}

func applyChain(ctx SchemaContext, name string, node SchemaNode, chain RuleChain) {
	if len(chain) == 0 {
		return
	}
	if node == nil {
		node = EmptyNode{}
	}

	var set ConstraintSet
	for _, rule := range chain {
		mapRule(&set, rule, node.IsString())
	}

	if set.Required() {
		ctx.MarkRequired(name)
	}
	set.Apply(node)
}

// mapRule folds one rule into the constraint set. Each rule kind is handled
// independently; ordering semantics live entirely in the merge policy.
func mapRule(set *ConstraintSet, rule Rule, isString bool) {
	switch rule.Kind {
	case KindNotEmpty, KindNotNull:
		set.ProposeRequired()
		if isString {
			set.ProposeMinLength(1)
		}

	case KindMinimumLength:
		if rule.MinLen != nil {
			set.ProposeMinLength(*rule.MinLen)
		}

	case KindMaximumLength:
		if rule.MaxLen != nil {
			set.ProposeMaxLength(*rule.MaxLen)
		}

	case KindLength:
		if rule.MinLen != nil {
			set.ProposeMinLength(*rule.MinLen)
		}
		if rule.MaxLen != nil {
			set.ProposeMaxLength(*rule.MaxLen)
		}

	case KindGreaterThan:
		if rule.Lower.Valid {
			set.ProposeMinimum(rule.Lower.Decimal, true)
		}

	case KindGreaterThanOrEqual:
		if rule.Lower.Valid {
			set.ProposeMinimum(rule.Lower.Decimal, false)
		}

	case KindLessThan:
		if rule.Upper.Valid {
			set.ProposeMaximum(rule.Upper.Decimal, true)
		}

	case KindLessThanOrEqual:
		if rule.Upper.Valid {
			set.ProposeMaximum(rule.Upper.Decimal, false)
		}

	case KindInclusiveBetween:
		if rule.Lower.Valid {
			set.ProposeMinimum(rule.Lower.Decimal, false)
		}
		if rule.Upper.Valid {
			set.ProposeMaximum(rule.Upper.Decimal, false)
		}

	case KindExclusiveBetween:
		if rule.Lower.Valid {
			set.ProposeMinimum(rule.Lower.Decimal, true)
		}
		if rule.Upper.Valid {
			set.ProposeMaximum(rule.Upper.Decimal, true)
		}

	case KindMatches, KindEmailAddress:
		if rule.Pattern != "" {
			set.ProposePattern(rule.Pattern)
		}

	case KindInEnum:
		if rule.Values != nil {
			set.ProposeEnum(rule.Values)
		}
	}
}
