package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/forum"
)

var (
	searchParam   = "search"
	categoryParam = "category"
	statusParam   = "status"
)

// Filter binds a question listing request's query parameters.
type Filter struct {
	forum.QueryFilter
}

func (f *Filter) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	f.Search = data.Get(searchParam)
	f.Category = forum.Category(data.Get(categoryParam))
	f.Status = forum.Status(data.Get(statusParam))
	f.Clean()
}
