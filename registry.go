package fluentspec

import "reflect"

// Registry holds validators keyed by the type they apply to. Validators are
// registered at startup and looked up through typed methods; no runtime type
// inspection is involved.
//
// A type may have both unkeyed validators and named (keyed) validators.
// Lookup order is unkeyed first, then keyed, each in registration order.
type Registry struct {
	opts    options
	unkeyed map[reflect.Type][]Validator
	keyed   map[reflect.Type][]keyedValidator
}

type keyedValidator struct {
	key string
	v   Validator
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		opts:    o,
		unkeyed: make(map[reflect.Type][]Validator),
		keyed:   make(map[reflect.Type][]keyedValidator),
	}
}

// Register adds an unkeyed validator for type T.
func Register[T any](r *Registry, v Validator) {
	r.RegisterType(reflect.TypeFor[T](), v)
}

// RegisterKeyed adds a named validator for type T.
func RegisterKeyed[T any](r *Registry, key string, v Validator) {
	r.RegisterKeyedType(reflect.TypeFor[T](), key, v)
}

// RegisterType adds an unkeyed validator for t.
func (r *Registry) RegisterType(t reflect.Type, v Validator) {
	if v == nil {
		return
	}
	r.unkeyed[t] = append(r.unkeyed[t], v)
}

// RegisterKeyedType adds a named validator for t.
func (r *Registry) RegisterKeyedType(t reflect.Type, key string, v Validator) {
	if v == nil {
		return
	}
	r.keyed[t] = append(r.keyed[t], keyedValidator{key: key, v: v})
}

// Validators returns the validators applicable to t: unkeyed first, then
// keyed in registration order. When oneValidatorPerType is enabled (the
// default) at most the first validator is returned. A type with no
// validators yields nil; that is not an error.
func (r *Registry) Validators(t reflect.Type) []Validator {
	t = indirectType(t)

	var out []Validator
	out = append(out, r.unkeyed[t]...)
	for _, kv := range r.keyed[t] {
		out = append(out, kv.v)
	}

	if r.opts.oneValidatorPerType && len(out) > 1 {
		out = out[:1]
	}
	return out
}

// ValidatorFor returns the primary validator for t, if any.
func (r *Registry) ValidatorFor(t reflect.Type) (Validator, bool) {
	vs := r.Validators(t)
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
