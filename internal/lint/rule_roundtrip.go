package lint

import (
	"fmt"
	"reflect"

	"github.com/docsmith/docsmith/internal/config"
)

// RoundTripRule verifies that parsing and re-serializing the configuration
// yields a semantically equivalent structure: same keys, same ordered
// lists, same nested option maps.
type RoundTripRule struct{}

// Name returns the rule identifier.
func (r *RoundTripRule) Name() string { return "round-trip" }

// Check re-parses the serialized form and compares it to the original.
func (r *RoundTripRule) Check(ctx *Context) ([]Issue, error) {
	if len(ctx.Raw) == 0 {
		return nil, nil
	}

	first, err := config.Parse(ctx.Raw)
	if err != nil {
		return nil, fmt.Errorf("parse original config: %w", err)
	}
	serialized, err := config.Marshal(first)
	if err != nil {
		return nil, fmt.Errorf("serialize config: %w", err)
	}
	second, err := config.Parse(serialized)
	if err != nil {
		return []Issue{{
			Severity:    SeverityError,
			Rule:        r.Name(),
			Subject:     "config",
			Message:     "re-serialized configuration does not parse",
			Explanation: err.Error(),
		}}, nil
	}

	if !reflect.DeepEqual(first, second) {
		return []Issue{{
			Severity:    SeverityError,
			Rule:        r.Name(),
			Subject:     "config",
			Message:     "configuration does not survive a parse/serialize round trip",
			Explanation: "Re-parsing the serialized configuration produced a different structure; ordered sections or option maps are being lost.",
		}}, nil
	}
	return nil, nil
}
