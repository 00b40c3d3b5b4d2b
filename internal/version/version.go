package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// UpToDate is returned by Difference when the first three components match.
const UpToDate = "up to date"

var componentNames = [3]string{"major", "minor", "patch"}

// Parse converts a version string into its numeric components.
// A single leading "v" is stripped, the remainder is split on '.', '-' and '+',
// and every segment becomes the integer formed by its leading digits (0 when there are none).
// Parse never fails and always returns at least one component.
func Parse(v string) []int {
	segments := split(strings.TrimPrefix(v, "v"))

	parts := make([]int, len(segments))
	for i, seg := range segments {
		parts[i] = leadingInt(seg)
	}
	return parts
}

// Compare returns -1, 0 or 1 when v1 is older than, equal to or newer than v2.
// Components are compared most-significant first; missing trailing components count as 0.
func Compare(v1, v2 string) int {
	p1 := Parse(v1)
	p2 := Parse(v2)

	n := max(len(p1), len(p2))
	for i := 0; i < n; i++ {
		a, b := component(p1, i), component(p2, i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Difference describes how far current is behind latest, e.g. "2 major versions".
// Only major, minor and patch are inspected; a difference in a fourth or later
// component reports UpToDate even though Compare sees it.
func Difference(current, latest string) string {
	cur := Parse(current)
	lat := Parse(latest)

	for i, name := range componentNames {
		c, l := component(cur, i), component(lat, i)
		if c == l {
			continue
		}
		diff := l - c
		unit := name + " version"
		if diff != 1 {
			unit += "s"
		}
		return fmt.Sprintf("%d %s", diff, unit)
	}
	return UpToDate
}

// IsSemver reports whether v parses as a semantic version (a leading "v" is allowed).
func IsSemver(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}

func component(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// split keeps empty segments so positions survive ("1..2" is [1 0 2]).
func split(v string) []string {
	var out []string
	start := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '.', '-', '+':
			out = append(out, v[start:i])
			start = i + 1
		}
	}
	return append(out, v[start:])
}

// leadingInt reads the run of digits that follows any leading whitespace.
// Values outside the int range saturate.
func leadingInt(seg string) int {
	s := strings.TrimLeft(seg, " \t\n\r\v\f")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}
