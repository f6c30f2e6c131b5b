// Package aspectql parses textual aspects such as "Position & Velocity & !Frozen".
//
// A term is a component name, a negated component name or a parenthesised group.
// Terms are joined with "&" or ",". Names are resolved by the caller, usually with
// scene.TypeRegistry.Lookup, so both short ("Position") and qualified
// ("game.Position") names work.
package aspectql

import (
	"strconv"
	"strings"

	"github.com/TheBitDrifter/scene"
	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"
)

type aqlName struct {
	Parts []string `@Ident ( "." @Ident )*`
}

func (n *aqlName) String() string {
	return strings.Join(n.Parts, ".")
}

type aqlFactor struct {
	Not   *aqlName `  "!" @@`
	Group *aqlTerm `| "(" @@ ")"`
	Name  *aqlName `| @@`
}

type aqlTerm struct {
	Left  *aqlFactor   `@@`
	Right []*aqlFactor `( ( "&" | "," ) @@ )*`
}

var parser = participle.MustBuild[aqlTerm]()

// LookupFunc resolves a component name.
type LookupFunc func(name string) (scene.ComponentType, error)

// Parse converts text into an aspect. Blank text is the empty aspect.
func Parse(text string, lookup LookupFunc) (scene.Aspect, error) {
	if strings.TrimSpace(text) == "" {
		return scene.NewAspect(), nil
	}
	term, err := parser.ParseString("", text)
	if err != nil {
		return scene.Aspect{}, eris.Wrapf(err, "parse aspect %q", text)
	}
	var b builder
	if err := b.term(term, lookup); err != nil {
		return scene.Aspect{}, eris.Wrapf(err, "resolve aspect %q", text)
	}
	return scene.NewAspect().With(b.include...).Without(b.exclude...), nil
}

// ParseWith is Parse using r to resolve names.
func ParseWith(text string, r *scene.TypeRegistry) (scene.Aspect, error) {
	return Parse(text, r.Lookup)
}

// MustParse is ParseWith for setup code.
func MustParse(text string, r *scene.TypeRegistry) scene.Aspect {
	a, err := ParseWith(text, r)
	if err != nil {
		panic(err)
	}
	return a
}

type builder struct {
	include []scene.ComponentType
	exclude []scene.ComponentType
}

func (b *builder) term(t *aqlTerm, lookup LookupFunc) error {
	if t.Left == nil {
		return eris.New("empty expression")
	}
	if err := b.factor(t.Left, lookup); err != nil {
		return err
	}
	for _, f := range t.Right {
		if err := b.factor(f, lookup); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) factor(f *aqlFactor, lookup LookupFunc) error {
	switch {
	case f.Not != nil:
		ct, err := lookup(f.Not.String())
		if err != nil {
			return eris.Wrapf(err, "component %s", f.Not)
		}
		b.exclude = append(b.exclude, ct)
	case f.Group != nil:
		return b.term(f.Group, lookup)
	case f.Name != nil:
		ct, err := lookup(f.Name.String())
		if err != nil {
			return eris.Wrapf(err, "component %s", f.Name)
		}
		b.include = append(b.include, ct)
	default:
		return eris.New("unknown term")
	}
	return nil
}

// Format renders a in the syntax Parse accepts, using short names from r.
// Bits r does not know are written as "#bit".
func Format(a scene.Aspect, r *scene.TypeRegistry) string {
	names := make(map[uint32]string)
	for _, ct := range r.Types() {
		name := ct.Name
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		names[ct.Bit] = name
	}
	render := func(bit uint32) string {
		if name, ok := names[bit]; ok {
			return name
		}
		return "#" + strconv.FormatUint(uint64(bit), 10)
	}

	var parts []string
	for _, bit := range a.Include.Bits() {
		parts = append(parts, render(bit))
	}
	for _, bit := range a.Exclude.Bits() {
		parts = append(parts, "!"+render(bit))
	}
	return strings.Join(parts, " & ")
}
