package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/internal/service"
	"github.com/daniilk04/tracker/pkg/entity"
)

const (
	defaultPageSize = 7
	maxPageSize     = 50
)

// Query parameters degrade gracefully: a value outside its allow-list acts
// as if the parameter wasn't sent at all, it never fails the request.

func parseTaskFilter(r *http.Request) repository.TaskFilter {
	q := r.URL.Query()
	filter := repository.TaskFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   repository.ParseTaskSort(q.Get("sort")),
	}
	if status := entity.TaskStatus(q.Get("status")); status.Valid() {
		filter.Status = status
	}
	return filter
}

func parseHabitFilter(r *http.Request) repository.HabitFilter {
	q := r.URL.Query()
	filter := repository.HabitFilter{
		Search: strings.TrimSpace(q.Get("search")),
	}
	if frequency := entity.HabitFrequency(q.Get("frequency")); frequency.Valid() {
		filter.Frequency = frequency
	}
	switch q.Get("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}
	return filter
}

func parsePagination(r *http.Request) (page int, pagination service.PaginationOpts) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	page, err = strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return page, service.PaginationOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
