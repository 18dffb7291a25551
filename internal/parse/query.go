// Package parse turns HTTP query strings into listing options.
package parse

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"robot-registry/internal/model"
	"robot-registry/internal/validation"
)

// ListOptions reads q, sort, order, limit, offset and include_archived from
// values. A leading "-" on sort selects descending order unless order is
// given explicitly. Range checks are left to the validator.
func ListOptions(values url.Values) (model.ListOptions, error) {
	errs := validation.Errors{}
	opts := model.ListOptions{Q: strings.TrimSpace(values.Get("q"))}

	sort := strings.TrimSpace(values.Get("sort"))
	if field, ok := strings.CutPrefix(sort, "-"); ok {
		sort = field
		opts.Order = model.OrderDesc
	}
	opts.Sort = model.SortField(strings.ToLower(sort))
	if order := strings.TrimSpace(values.Get("order")); order != "" {
		opts.Order = model.SortOrder(strings.ToLower(order))
	}

	var err error
	if opts.Limit, err = intParam(values, "limit"); err != nil {
		errs["limit"] = err.Error()
	}
	if opts.Offset, err = intParam(values, "offset"); err != nil {
		errs["offset"] = err.Error()
	}
	if opts.IncludeArchived, err = Flag(values, "include_archived"); err != nil {
		errs["include_archived"] = err.Error()
	}

	if len(errs) > 0 {
		return opts, errs
	}
	return opts, nil
}

// Flag reads a boolean parameter. An absent key is false and a bare key
// ("?include_archived") is true. Bad values yield validation.Errors.
func Flag(values url.Values, key string) (bool, error) {
	raw, present := values[key]
	if !present {
		return false, nil
	}
	if len(raw) == 0 || raw[0] == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(raw[0])
	if err != nil {
		return false, validation.Errors{key: key + " must be a boolean"}
	}
	return b, nil
}

func intParam(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
