package rewrite

import "github.com/phi-calculus/phinorm/pkg/phi"

// Substitution is the result of one successful match: meta-object
// bindings, meta-bindings-sequence bindings, and meta-attribute
// bindings.
type Substitution struct {
	Objects  map[string]phi.Term
	Bindings map[string][]phi.Binding
	Attrs    map[string]phi.Attribute
}

func emptySubstitution() Substitution {
	return Substitution{
		Objects:  map[string]phi.Term{},
		Bindings: map[string][]phi.Binding{},
		Attrs:    map[string]phi.Attribute{},
	}
}

func (s Substitution) clone() Substitution {
	out := emptySubstitution()
	for k, v := range s.Objects {
		out.Objects[k] = v
	}
	for k, v := range s.Bindings {
		out.Bindings[k] = v
	}
	for k, v := range s.Attrs {
		out.Attrs[k] = v
	}
	return out
}

// Match unifies pattern against subject, returning the ordered sequence
// of substitutions. A single pattern matches multiple
// ways when it contains more than one MetaBindings slot within the
// same binding list, or an unbound meta-attribute binding that more
// than one subject binding can satisfy.
func Match(pattern, subject phi.Term) []Substitution {
	return matchTerm(pattern, subject, emptySubstitution())
}

func matchTerm(pattern, subject phi.Term, sub Substitution) []Substitution {
	switch p := pattern.(type) {
	case *phi.MetaObject:
		if existing, ok := sub.Objects[p.ID]; ok {
			if phi.Equal(existing, subject) {
				return []Substitution{sub}
			}
			return nil
		}
		next := sub.clone()
		next.Objects[p.ID] = subject
		return []Substitution{next}

	case phi.Global:
		if _, ok := subject.(phi.Global); ok {
			return []Substitution{sub}
		}
		return nil

	case phi.This:
		if _, ok := subject.(phi.This); ok {
			return []Substitution{sub}
		}
		return nil

	case phi.Termination:
		if _, ok := subject.(phi.Termination); ok {
			return []Substitution{sub}
		}
		return nil

	case *phi.Formation:
		sv, ok := subject.(*phi.Formation)
		if !ok {
			return nil
		}
		return matchBindingList(p.Bindings, sv.Bindings, sub)

	case *phi.Application:
		sv, ok := subject.(*phi.Application)
		if !ok {
			return nil
		}
		var out []Substitution
		for _, s1 := range matchTerm(p.Fun, sv.Fun, sub) {
			out = append(out, matchBindingList(p.Bindings, sv.Bindings, s1)...)
		}
		return out

	case *phi.Dispatch:
		sv, ok := subject.(*phi.Dispatch)
		if !ok {
			return nil
		}
		next, ok := matchAttr(p.Attr, sv.Attr, sub)
		if !ok {
			return nil
		}
		return matchTerm(p.Receiver, sv.Receiver, next)

	default:
		// MetaFunction terms are sanctioned only in rule replacements
		// (SPEC_FULL.md §5 / DESIGN.md); one appearing in a pattern
		// cannot unify with anything but a literally identical
		// MetaFunction, which is not a useful match, so it always
		// fails here.
		return nil
	}
}

// isMetaAttr reports whether attr encodes an attribute meta-variable
// (our parser represents `!id` attributes as a Label beginning with
// "!", since phi.Attribute has no dedicated meta variant).
func isMetaAttr(attr phi.Attribute) (string, bool) {
	if attr.Kind == phi.AttrLabel && len(attr.Label) > 1 && attr.Label[0] == '!' {
		return attr.Label[1:], true
	}
	return "", false
}

func matchAttr(pattern, subject phi.Attribute, sub Substitution) (Substitution, bool) {
	if id, ok := isMetaAttr(pattern); ok {
		if existing, bound := sub.Attrs[id]; bound {
			return sub, existing.Equal(subject)
		}
		next := sub.clone()
		next.Attrs[id] = subject
		return next, true
	}
	return sub, pattern.Equal(subject)
}

// bindingPath is one partial match through a binding list: the
// substitution accumulated so far together with which subject indices
// it has claimed. matchBindingList carries a set of these in parallel
// instead of a single shared claimed slice, since an unbound
// meta-attribute binding (findUnclaimed, below) may have more than one
// same-kind candidate and each must be tried on its own branch, not
// committed to greedily.
type bindingPath struct {
	sub     Substitution
	claimed []bool
}

// matchBindingList matches a pattern binding list against a subject
// binding list. Non-MetaBindings pattern entries are matched by
// attribute lookup against the subject (each concrete attribute occurs
// at most once); the entries that remain after every literal pattern
// binding claims its subject counterpart are the "captured middle"
// a MetaBindings slot absorbs. With at most one
// MetaBindings slot in the pattern (the common case) the remainder is
// bound to it directly, in its original subject order. With more than
// one MetaBindings slot, every way of partitioning the remainder into
// that many ordered, contiguous, order-preserving groups is enumerated.
func matchBindingList(pattern, subject []phi.Binding, sub Substitution) []Substitution {
	var metaSlots []int
	cur := []bindingPath{{sub: sub, claimed: make([]bool, len(subject))}}

	for i, pb := range pattern {
		if _, ok := pb.(phi.MetaBindings); ok {
			metaSlots = append(metaSlots, i)
			continue
		}
		var next []bindingPath
		for _, path := range cur {
			for _, idx := range findUnclaimed(pb, subject, path.claimed, path.sub) {
				s2, ok := matchLiteralBinding(pb, subject[idx], path.sub)
				if !ok {
					continue
				}
				claimed2 := append([]bool{}, path.claimed...)
				claimed2[idx] = true
				next = append(next, bindingPath{sub: s2, claimed: claimed2})
			}
		}
		cur = next
		if len(cur) == 0 {
			return nil
		}
	}

	var out []Substitution
	for _, path := range cur {
		var remainder []phi.Binding
		for i, c := range path.claimed {
			if !c {
				remainder = append(remainder, subject[i])
			}
		}

		if len(metaSlots) == 0 {
			if len(remainder) != 0 {
				continue
			}
			out = append(out, path.sub)
			continue
		}

		out = append(out, bindMetaSlots(pattern, metaSlots, remainder, path.sub)...)
	}
	return out
}

// findUnclaimed locates every unclaimed subject binding whose
// attribute corresponds to pb's attribute (resolving a meta-attribute
// against sub first). A bound attribute (literal, or a meta-attribute
// already resolved by an earlier binding in the same pattern) has at
// most one subject counterpart, since attributes are unique within a
// binding list; an unbound meta-attribute may match several same-kind
// bindings, and matchBindingList branches over all of them rather than
// committing to the first.
func findUnclaimed(pb phi.Binding, subject []phi.Binding, claimed []bool, sub Substitution) []int {
	attr := pb.Attr()
	if id, ok := isMetaAttr(attr); ok {
		if bound, has := sub.Attrs[id]; has {
			attr = bound
		} else {
			var out []int
			for i, sb := range subject {
				if claimed[i] {
					continue
				}
				if sameBindingKind(pb, sb) {
					out = append(out, i)
				}
			}
			return out
		}
	}
	for i, sb := range subject {
		if claimed[i] {
			continue
		}
		if sb.Attr().Equal(attr) {
			return []int{i}
		}
	}
	return nil
}

func sameBindingKind(a, b phi.Binding) bool {
	switch a.(type) {
	case phi.AlphaBinding:
		_, ok := b.(phi.AlphaBinding)
		return ok
	case phi.EmptyBinding:
		_, ok := b.(phi.EmptyBinding)
		return ok
	case phi.DeltaBinding:
		_, ok := b.(phi.DeltaBinding)
		return ok
	case phi.LambdaBinding:
		_, ok := b.(phi.LambdaBinding)
		return ok
	default:
		return false
	}
}

func matchLiteralBinding(pattern, subject phi.Binding, sub Substitution) (Substitution, bool) {
	switch p := pattern.(type) {
	case phi.AlphaBinding:
		sv, ok := subject.(phi.AlphaBinding)
		if !ok {
			return sub, false
		}
		next, ok := matchAttr(p.Attribute, sv.Attribute, sub)
		if !ok {
			return sub, false
		}
		subs := matchTerm(p.Object, sv.Object, next)
		if len(subs) == 0 {
			return sub, false
		}
		return subs[0], true
	case phi.EmptyBinding:
		sv, ok := subject.(phi.EmptyBinding)
		if !ok {
			return sub, false
		}
		return matchAttr(p.Attribute, sv.Attribute, sub)
	case phi.DeltaBinding:
		sv, ok := subject.(phi.DeltaBinding)
		if !ok || len(p.Bytes) != len(sv.Bytes) {
			return sub, false
		}
		for i := range p.Bytes {
			if p.Bytes[i] != sv.Bytes[i] {
				return sub, false
			}
		}
		return sub, true
	case phi.LambdaBinding:
		sv, ok := subject.(phi.LambdaBinding)
		return sub, ok && p.Name == sv.Name
	default:
		return sub, false
	}
}

// bindMetaSlots enumerates every way to partition remainder into
// len(slots) ordered, contiguous, order-preserving groups and binds
// each group to its MetaBindings id.
func bindMetaSlots(pattern []phi.Binding, slots []int, remainder []phi.Binding, sub Substitution) []Substitution {
	ids := make([]string, len(slots))
	for i, idx := range slots {
		ids[i] = pattern[idx].(phi.MetaBindings).ID
	}
	var out []Substitution
	var rec func(pos int, rest []phi.Binding, s Substitution)
	rec = func(pos int, rest []phi.Binding, s Substitution) {
		if pos == len(ids)-1 {
			next := s.clone()
			next.Bindings[ids[pos]] = append([]phi.Binding{}, rest...)
			out = append(out, next)
			return
		}
		for cut := 0; cut <= len(rest); cut++ {
			next := s.clone()
			next.Bindings[ids[pos]] = append([]phi.Binding{}, rest[:cut]...)
			rec(pos+1, rest[cut:], next)
		}
	}
	rec(0, remainder, sub)
	return out
}
