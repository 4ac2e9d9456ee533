// Package report parses the host's free-text status reports. Each
// object is reported on its own line, the type tag first and the
// identifier in square brackets:
//
//	Window [win1]
//	  Frame [frm1]
//	    Plot [plot1]
//	      Curve [crv1]
//
// Current extracts the identifier of the most recent object of a kind,
// All collects every identifier of a kind in report order.
package report

import (
	"fmt"
	"strings"

	"github.com/openchips/legend/pkg/chips"
)

// Current returns the identifier from the last line tagged with kind.
func Current(rep string, kind chips.ObjectKind) (string, error) {
	lines, err := matching(rep, kind)
	if err != nil {
		return "", err
	}
	return extractID(lines[len(lines)-1], kind)
}

// All returns every identifier tagged with kind, in report order.
func All(rep string, kind chips.ObjectKind) ([]string, error) {
	lines, err := matching(rep, kind)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		id, err := extractID(line, kind)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func matching(rep string, kind chips.ObjectKind) ([]string, error) {
	if rep == "" {
		return nil, fmt.Errorf("no %s objects to operate on: %w", kind, chips.ErrNotFound)
	}
	var out []string
	for _, line := range strings.Split(rep, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), string(kind)) {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %s objects to operate on: %w", kind, chips.ErrNotFound)
	}
	return out, nil
}

func extractID(line string, kind chips.ObjectKind) (string, error) {
	open := strings.IndexByte(line, '[')
	if open < 0 {
		return "", fmt.Errorf("%s report line %q has no identifier: %w", kind, strings.TrimSpace(line), chips.ErrNotFound)
	}
	rest := line[open+1:]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", fmt.Errorf("%s report line %q has no identifier: %w", kind, strings.TrimSpace(line), chips.ErrNotFound)
	}
	return rest[:end], nil
}
