package beam

import (
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/grid"
)

// UnreachablePolicy decides what happens to splitters no signal reached.
type UnreachablePolicy string

const (
	// UnreachableIgnore leaves unreachable splitters out of every count.
	UnreachableIgnore UnreachablePolicy = "ignore"
	// UnreachableWarn reports unreachable splitters without failing.
	UnreachableWarn UnreachablePolicy = "warn"
	// UnreachableError fails the solve with UNREACHABLE_SPLITTER.
	UnreachableError UnreachablePolicy = "error"
)

// ParseUnreachablePolicy parses a policy name. The empty string selects
// [UnreachableIgnore].
func ParseUnreachablePolicy(s string) (UnreachablePolicy, error) {
	switch p := UnreachablePolicy(s); p {
	case "":
		return UnreachableIgnore, nil
	case UnreachableIgnore, UnreachableWarn, UnreachableError:
		return p, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput,
			"unknown unreachable policy %q (want ignore, warn or error)", s)
	}
}

// Check applies the policy to the splitters left Ready after a traversal.
// Only [UnreachableError] returns an error.
func (p UnreachablePolicy) Check(unreachable []grid.Coord) error {
	if p != UnreachableError || len(unreachable) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeUnreachableSplitter,
		"%d splitter(s) unreachable, first at %s", len(unreachable), unreachable[0])
}
