package load

import (
	"strings"

	"github.com/fwojciec/siteport"
)

// ResolveReferences returns a deep copy of fields with every LocalRef
// marker replaced by a Link to the created entry in idMap. A marker
// whose entry was not created is dropped: a single value removes the
// locale from its field, an array element is left out.
func ResolveReferences(fields siteport.Fields, idMap map[string]string) siteport.Fields {
	out := make(siteport.Fields, len(fields))
	for field, locales := range fields {
		resolved := make(map[string]any, len(locales))
		for locale, v := range locales {
			if r, keep := resolveValue(v, idMap); keep {
				resolved[locale] = r
			}
		}
		if len(resolved) > 0 {
			out[field] = resolved
		}
	}
	return out
}

// resolveValue resolves one value. keep is false for an unresolved
// marker.
func resolveValue(v any, idMap map[string]string) (any, bool) {
	if ref, ok := asLocalRef(v); ok {
		id, found := idMap[ref.LocalID]
		if !found {
			return nil, false
		}
		return siteport.NewLink(id, ref.LinkType), true
	}

	switch t := v.(type) {
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if r, keep := resolveValue(item, idMap); keep {
				out = append(out, r)
			}
		}
		return out, true
	case []siteport.LocalRef:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if r, keep := resolveValue(item, idMap); keep {
				out = append(out, r)
			}
		}
		return out, true
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if r, keep := resolveValue(item, idMap); keep {
				out[k] = r
			}
		}
		return out, true
	case []string:
		return append([]string(nil), t...), true
	}
	return v, true
}

// asLocalRef recognizes LocalRef values as well as their decoded JSON
// form.
func asLocalRef(v any) (siteport.LocalRef, bool) {
	switch t := v.(type) {
	case siteport.LocalRef:
		return t, true
	case *siteport.LocalRef:
		if t == nil {
			return siteport.LocalRef{}, false
		}
		return *t, true
	case map[string]any:
		id, ok := t["_localRef"].(string)
		if !ok {
			return siteport.LocalRef{}, false
		}
		linkType, _ := t["_linkType"].(string)
		return siteport.LocalRef{LocalID: id, LinkType: linkType}, true
	}
	return siteport.LocalRef{}, false
}

// SortByDependencies orders entries so every entry follows the entries it
// depends on, keeping input order otherwise. Dependencies on unknown local
// IDs are ignored. A dependency cycle is an EINVALID error.
func SortByDependencies(entries []siteport.EntryPayload) ([]siteport.EntryPayload, error) {
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.LocalID] = i
	}

	var (
		sorted   = make([]siteport.EntryPayload, 0, len(entries))
		visiting = make(map[string]bool)
		done     = make(map[string]bool)
		path     []string
	)
	var visit func(i int) error
	visit = func(i int) error {
		e := entries[i]
		if done[e.LocalID] {
			return nil
		}
		if visiting[e.LocalID] {
			return siteport.Errorf(siteport.EINVALID, "dependency cycle: %s", cycleString(path, e.LocalID))
		}
		visiting[e.LocalID] = true
		path = append(path, e.LocalID)
		for _, dep := range e.DependsOn {
			j, ok := byID[dep]
			if !ok {
				continue
			}
			if err := visit(j); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		done[e.LocalID] = true
		sorted = append(sorted, e)
		return nil
	}

	for i := range entries {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// cycleString renders the part of path that closes the cycle at id.
func cycleString(path []string, id string) string {
	start := 0
	for i, p := range path {
		if p == id {
			start = i
			break
		}
	}
	return strings.Join(append(append([]string(nil), path[start:]...), id), " -> ")
}
