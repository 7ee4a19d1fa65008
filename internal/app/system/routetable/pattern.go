package routetable

import (
	"fmt"
	"path"
	"strings"
)

type segKind int

// Lower kinds are more specific.
const (
	segStatic segKind = iota
	segParam
	segCatchAll
)

type segment struct {
	kind  segKind
	value string // literal text, or the param name
}

type pattern struct {
	segs []segment
}

func (p pattern) catchAll() bool {
	return len(p.segs) > 0 && p.segs[len(p.segs)-1].kind == segCatchAll
}

// rootCatchAll reports whether the pattern is "/*name" and so matches every path.
func (p pattern) rootCatchAll() bool {
	return len(p.segs) == 1 && p.segs[0].kind == segCatchAll
}

// parsePattern compiles a route path such as "/courses/:id" or "/*rest".
func parsePattern(raw string) (pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return pattern{}, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, raw)
	}
	if canonicalPath(raw) != raw {
		return pattern{}, fmt.Errorf("%w: %q is not canonical (want %q)", ErrInvalidPattern, raw, canonicalPath(raw))
	}

	parts := splitPath(raw)
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]bool)

	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return pattern{}, fmt.Errorf("%w: catch-all must be the last segment in %q", ErrInvalidPattern, raw)
			}
			name := part[1:]
			if name == "" {
				return pattern{}, fmt.Errorf("%w: catch-all in %q needs a name", ErrInvalidPattern, raw)
			}
			if seen[name] {
				return pattern{}, fmt.Errorf("%w: param %q repeated in %q", ErrInvalidPattern, name, raw)
			}
			segs = append(segs, segment{kind: segCatchAll, value: name})
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return pattern{}, fmt.Errorf("%w: empty param name in %q", ErrInvalidPattern, raw)
			}
			if seen[name] {
				return pattern{}, fmt.Errorf("%w: param %q repeated in %q", ErrInvalidPattern, name, raw)
			}
			seen[name] = true
			segs = append(segs, segment{kind: segParam, value: name})
		default:
			segs = append(segs, segment{kind: segStatic, value: part})
		}
	}

	return pattern{segs: segs}, nil
}

// match tests the pattern against canonical path segments.
func (p pattern) match(parts []string) (map[string]string, bool) {
	var params map[string]string
	set := func(k, v string) {
		if params == nil {
			params = make(map[string]string)
		}
		params[k] = v
	}

	for i, seg := range p.segs {
		if seg.kind == segCatchAll {
			set(seg.value, strings.Join(parts[i:], "/"))
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch seg.kind {
		case segStatic:
			if parts[i] != seg.value {
				return nil, false
			}
		case segParam:
			set(seg.value, parts[i])
		}
	}

	if len(parts) != len(p.segs) {
		return nil, false
	}
	return params, true
}

// rank returns the per-position specificity of the pattern for a path with
// n segments. A catch-all fills every remaining position.
func (p pattern) rank(n int) []segKind {
	out := make([]segKind, 0, n)
	for _, seg := range p.segs {
		if seg.kind == segCatchAll {
			out = append(out, segCatchAll)
			for len(out) < n {
				out = append(out, segCatchAll)
			}
			return out
		}
		out = append(out, seg.kind)
	}
	return out
}

// moreSpecific reports whether rank a beats rank b. At the first differing
// position the lower kind wins. If one rank is a prefix of the other the
// shorter one wins (an exact root beats a root catch-all).
func moreSpecific(a, b []segKind) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// canonicalPath strips query and fragment, forces a leading slash, collapses
// duplicate slashes, resolves dot segments and drops a trailing slash.
func canonicalPath(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return path.Clean(raw)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
