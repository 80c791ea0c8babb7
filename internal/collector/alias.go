package collector

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// alias is a legacy family name exposed next to its replacement. Aliases are
// always plain gauges without a unit suffix.
type alias struct {
	name        string
	replacement string
	help        string
}

// withAliases appends a copy of the replacement family for every alias when
// enabled is set.
func withAliases[T any](fams []family[T], aliases []alias, enabled bool) []family[T] {
	if !enabled {
		return fams
	}
	out := slices.Clone(fams)
	for _, a := range aliases {
		i := slices.IndexFunc(fams, func(f family[T]) bool { return f.name == a.replacement })
		if i < 0 {
			panic(errors.AssertionFailedf("alias %q refers to unknown family %q", a.name, a.replacement))
		}
		f := fams[i]
		f.kind = gaugeKind
		f.name = a.name
		f.unit = ""
		f.help = a.help
		out = append(out, f)
	}
	return out
}
