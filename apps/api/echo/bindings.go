package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/user"
)

// bindQueryFilter reads `?search=..&role=..&role=..&verified=true` into a user.QueryFilter.
// Roles may also be comma separated. An unparsable `verified` is ignored.
func bindQueryFilter(ctx echo.Context) user.QueryFilter {
	var filter user.QueryFilter
	data := ctx.QueryParams()
	if len(data) == 0 {
		return filter
	}

	filter.Search = data.Get("search")
	for _, val := range data["role"] {
		for _, role := range strings.Split(val, ",") {
			if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
				filter.Roles = append(filter.Roles, role)
			}
		}
	}
	if val := data.Get("verified"); val != "" {
		if verified, err := strconv.ParseBool(val); err == nil {
			filter.Verified = &verified
		}
	}
	return filter
}
