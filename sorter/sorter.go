// Package sorter parses client sort strings such as "name:asc,created_at:desc"
// into sort options over a fixed set of fields.
package sorter

import (
	"slices"
	"strings"

	"github.com/code19m/errx"
)

type (
	SortOpts []Opt

	SortDirection string
)

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"

	// expectedPartsCount is the expected number of parts in a sort option (field:direction).
	expectedPartsCount = 2
)

const CodeInvalidSort = "INVALID_SORT"

// Parse reads a sort string. Each comma separated part is field:direction,
// where the direction may be omitted and defaults to asc. Unknown fields and
// malformed parts are rejected.
func Parse(sortString string, allowedFields ...string) (SortOpts, error) {
	if strings.TrimSpace(sortString) == "" {
		return nil, nil
	}

	var options SortOpts
	for pair := range strings.SplitSeq(sortString, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) > expectedPartsCount {
			return nil, invalidSort("sort option must be field:direction", pair)
		}

		key := strings.TrimSpace(parts[0])
		if !slices.Contains(allowedFields, key) {
			return nil, invalidSort("sorting by this field is not supported", pair)
		}

		direction := Asc
		if len(parts) == expectedPartsCount {
			direction = SortDirection(strings.ToLower(strings.TrimSpace(parts[1])))
		}
		if direction != Asc && direction != Desc {
			return nil, invalidSort("sort direction must be asc or desc", pair)
		}

		options = append(options, Opt{F: key, D: direction})
	}

	return options, nil
}

// Make creates a slice of Opt from a variadic list of Opt.
func Make(sortOptions ...Opt) SortOpts {
	return sortOptions
}

// Opt represents a single sorting option, consisting of a field and a direction.
type Opt struct {
	F string        // F is the field to sort by.
	D SortDirection // D is the sorting direction (asc or desc).
}

// ToSQL converts an Opt into an SQL order clause (e.g., "name ASC").
func (o Opt) ToSQL() string {
	return o.F + " " + strings.ToUpper(string(o.D))
}

// Compare orders a and b by the options in turn. cmp compares one field and
// returns a negative, zero or positive result like strings.Compare.
func (s SortOpts) Compare(cmp func(field string) int) int {
	for _, o := range s {
		c := cmp(o.F)
		if o.D == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func invalidSort(msg, part string) error {
	return errx.New(
		msg,
		errx.WithCode(CodeInvalidSort),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"sort": part}),
	)
}
