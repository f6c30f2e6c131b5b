package scene

// Aspect selects entities by the component types they carry and the ones they
// must not carry. Overlapping include and exclude sets are legal and match nothing.
type Aspect struct {
	Include ComponentMask
	Exclude ComponentMask
}

// NewAspect returns an empty aspect, which matches every entity.
func NewAspect() Aspect {
	return Aspect{}
}

// With returns a copy of a that also requires types.
func (a Aspect) With(types ...ComponentType) Aspect {
	out := Aspect{Include: a.Include.Clone(), Exclude: a.Exclude.Clone()}
	for _, ct := range types {
		out.Include.Set(ct.Bit)
	}
	return out
}

// Without returns a copy of a that also rejects types.
func (a Aspect) Without(types ...ComponentType) Aspect {
	out := Aspect{Include: a.Include.Clone(), Exclude: a.Exclude.Clone()}
	for _, ct := range types {
		out.Exclude.Set(ct.Bit)
	}
	return out
}

// Union combines both requirement sets.
func (a Aspect) Union(other Aspect) Aspect {
	return Aspect{
		Include: a.Include.Union(other.Include),
		Exclude: a.Exclude.Union(other.Exclude),
	}
}

// Matches reports whether m satisfies the aspect.
func (a Aspect) Matches(m ComponentMask) bool {
	return m.ContainsAll(a.Include) && m.ContainsNone(a.Exclude)
}

func (a Aspect) Equal(other Aspect) bool {
	return a.Include.Equal(other.Include) && a.Exclude.Equal(other.Exclude)
}

func (a Aspect) String() string {
	return "+" + a.Include.String() + " -" + a.Exclude.String()
}
