package lower

import (
	"strconv"
	"strings"

	"github.com/brahmand-io/graphplan/perr"
)

// CTE naming conventions observable in emitted SQL (spec.md section 6.3).

func withCteName(anchorAlias string, n int) string {
	return "with_" + anchorAlias + "_cte_" + strconv.Itoa(n)
}

func edgeListCteName(relLabel, relAlias string) string {
	return relLabel + "_" + relAlias
}

func bitmapCteName(relLabel, direction, relAlias string) string {
	return relLabel + "_" + direction + "_" + relAlias
}

func multiTypeUnionCteName(fromConn, toConn string) string {
	return "rel_" + fromConn + "_" + toConn
}

func vlpCteName(fromConn, toConn string) string {
	return "vlp_" + fromConn + "_" + toConn
}

// validateCteName checks a name against the conventions above, returning
// MalformedCTEName (spec.md section 6.4) for one that matches none of them.
// Nothing in this package calls it during lowering.
func validateCteName(name string) error {
	switch {
	case strings.HasPrefix(name, "with_") && strings.Contains(name, "_cte_"):
		return nil
	case strings.HasPrefix(name, "rel_"):
		return nil
	case strings.HasPrefix(name, "vlp_"):
		return nil
	case name != "" && !strings.ContainsAny(name, " \t\n"):
		// single-type edge-list / bitmap CTE names are just
		// "<label>_<alias>" / "<label>_<direction>_<alias>" — any
		// non-empty, whitespace-free identifier is accepted here since the
		// label vocabulary is schema-defined and not enumerable by this
		// package.
		return nil
	default:
		return perr.MalformedCTENameKind.New(name)
	}
}
