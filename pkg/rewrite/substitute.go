package rewrite

import (
	"fmt"

	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
)

// Substitute applies sub to replacement, producing the rewritten term.
// Meta-functions in the replacement execute here, at substitution
// time, via the metaphi.Registry.
func Substitute(replacement phi.Term, sub Substitution, ctx *Context, bindings []phi.Binding) (phi.Term, error) {
	switch v := replacement.(type) {
	case *phi.MetaObject:
		t, ok := sub.Objects[v.ID]
		if !ok {
			return nil, fmt.Errorf("substitution missing binding for meta-variable !%s", v.ID)
		}
		return t, nil

	case *phi.MetaFunction:
		var arg phi.Term
		if v.Arg != nil {
			a, err := Substitute(v.Arg, sub, ctx, bindings)
			if err != nil {
				return nil, err
			}
			arg = a
		}
		fn, ok := metaphi.Registry[v.Name]
		if !ok {
			// Rule compilation validates every meta-function name
			// against the registry (pkg/metaphi.Compile); reaching
			// this point means the registry changed underneath an
			// already-compiled ruleset, a programmer error.
			panic("rewrite: unknown meta-function " + v.Name + " reached substitution")
		}
		return fn(arg, bindings)

	case phi.Global:
		return v, nil
	case phi.This:
		return v, nil
	case phi.Termination:
		return v, nil

	case *phi.Formation:
		out, err := substituteBindings(v.Bindings, sub, ctx)
		if err != nil {
			return nil, err
		}
		return &phi.Formation{Bindings: out}, nil

	case *phi.Application:
		fn, err := Substitute(v.Fun, sub, ctx, bindings)
		if err != nil {
			return nil, err
		}
		out, err := substituteBindings(v.Bindings, sub, ctx)
		if err != nil {
			return nil, err
		}
		return &phi.Application{Fun: fn, Bindings: out}, nil

	case *phi.Dispatch:
		recv, err := Substitute(v.Receiver, sub, ctx, bindings)
		if err != nil {
			return nil, err
		}
		attr, err := substituteAttr(v.Attr, sub)
		if err != nil {
			return nil, err
		}
		return &phi.Dispatch{Receiver: recv, Attr: attr}, nil

	default:
		return nil, fmt.Errorf("substitute: unsupported replacement term %T", replacement)
	}
}

func substituteAttr(attr phi.Attribute, sub Substitution) (phi.Attribute, error) {
	if id, ok := isMetaAttr(attr); ok {
		resolved, ok := sub.Attrs[id]
		if !ok {
			return phi.Attribute{}, fmt.Errorf("substitution missing binding for meta-attribute !%s", id)
		}
		return resolved, nil
	}
	return attr, nil
}

func substituteBindings(bindings []phi.Binding, sub Substitution, ctx *Context) ([]phi.Binding, error) {
	var out []phi.Binding
	for _, b := range bindings {
		switch bv := b.(type) {
		case phi.MetaBindings:
			seq, ok := sub.Bindings[bv.ID]
			if !ok {
				return nil, fmt.Errorf("substitution missing binding for meta-bindings !%s", bv.ID)
			}
			out = append(out, seq...)
		case phi.AlphaBinding:
			attr, err := substituteAttr(bv.Attribute, sub)
			if err != nil {
				return nil, err
			}
			obj, err := Substitute(bv.Object, sub, ctx, bindings)
			if err != nil {
				return nil, err
			}
			out = append(out, phi.AlphaBinding{Attribute: attr, Object: obj})
		case phi.EmptyBinding:
			attr, err := substituteAttr(bv.Attribute, sub)
			if err != nil {
				return nil, err
			}
			out = append(out, phi.EmptyBinding{Attribute: attr})
		default:
			out = append(out, b)
		}
	}
	return out, nil
}
