package elemset

import "github.com/code19m/errx"

// Union returns every element present in a or b. For an id present in both,
// the attributes are merged and b's value wins on a key collision.
func Union(a, b *Set) (*Set, error) {
	out, err := newResult(a, b)
	if err != nil {
		return nil, err
	}
	for id, el := range a.elements {
		out.elements[id] = el.clone()
	}
	for id, el := range b.elements {
		if existing, ok := out.elements[id]; ok {
			out.elements[id] = existing.merge(el)
			continue
		}
		out.elements[id] = el.clone()
	}
	return out.settle(), nil
}

// Intersection returns the elements whose id is present in both a and b,
// merging attributes the same way Union does.
func Intersection(a, b *Set) (*Set, error) {
	out, err := newResult(a, b)
	if err != nil {
		return nil, err
	}
	for id, el := range a.elements {
		if other, ok := b.elements[id]; ok {
			out.elements[id] = el.merge(other)
		}
	}
	return out.settle(), nil
}

// UnionAll left-folds Union over sets.
func UnionAll(sets ...*Set) (*Set, error) {
	return reduce(Union, sets)
}

// IntersectAll left-folds Intersection over sets.
func IntersectAll(sets ...*Set) (*Set, error) {
	return reduce(Intersection, sets)
}

func reduce(op func(a, b *Set) (*Set, error), sets []*Set) (*Set, error) {
	if len(sets) == 0 {
		return nil, errx.New(
			"at least one set is required",
			errx.WithCode(CodeNoSets),
			errx.WithType(errx.T_Validation),
		)
	}
	acc := sets[0]
	if acc == nil {
		return nil, nilOperand()
	}
	if len(sets) == 1 {
		return Union(acc, &Set{kind: acc.kind, multiple: acc.multiple})
	}
	for _, s := range sets[1:] {
		next, err := op(acc, s)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

func newResult(a, b *Set) (*Set, error) {
	if a == nil || b == nil {
		return nil, nilOperand()
	}
	kind := a.kind
	switch {
	case kind == "":
		kind = b.kind
	case b.kind != "" && b.kind != kind:
		return nil, errx.New(
			"cannot combine sets of different kinds",
			errx.WithCode(CodeKindMismatch),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"left": string(a.kind), "right": string(b.kind)}),
		)
	}
	return &Set{
		kind:     kind,
		multiple: a.multiple || b.multiple,
		elements: make(map[string]Element, len(a.elements)+len(b.elements)),
	}, nil
}

// settle marks a result holding several elements as multiple so it stays a valid set.
func (s *Set) settle() *Set {
	if len(s.elements) > 1 {
		s.multiple = true
	}
	return s
}

func nilOperand() error {
	return errx.New("set operand is nil", errx.WithCode(CodeInvalidPayload), errx.WithType(errx.T_Validation))
}
