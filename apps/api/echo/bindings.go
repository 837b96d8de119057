package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/organizer/core"
)

var orderingParam = "ordering"

// Ordering parses `?ordering=title,-uploaded_at` into database orderings.
// Fields are checked against a whitelist by the repositories.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// String is the query value that produced the orderings.
func (ord Ordering) String() string {
	fields := make([]string, 0, len(ord.Orderings))
	for _, o := range ord.Orderings {
		if o.Ascending {
			fields = append(fields, o.Field)
		} else {
			fields = append(fields, "-"+o.Field)
		}
	}
	return strings.Join(fields, ",")
}
