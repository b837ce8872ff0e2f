package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// the outward search surface.  filter groups combine with logical AND; the
// values inside one group combine with logical OR.  results are ordered by
// date currentness (best relevance rank first, undated records last).

const defaultSearchLimit = 20
const maxSearchLimit = 100

type searchFilter struct {
	ID     string        `json:"id"`
	Values []interface{} `json:"values"`
}

type searchRequest struct {
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Filters []searchFilter `json:"filters"`
}

type searchResponse struct {
	Label string       `json:"label"`
	Total int64        `json:"total"`
	Data  []searchItem `json:"data"`
}

var searchFilterIDs = []string{"fulltext", "date", "daterange", "keyword", "activity_type", "entity"}

type searchContext struct {
	svc *serviceContext
	cl  *clientContext
	req searchRequest
}

func (svc *serviceContext) newSearchContext(cl *clientContext, req searchRequest) *searchContext {
	return &searchContext{svc: svc, cl: cl, req: req}
}

func (sc *searchContext) validate() error {
	if sc.req.Limit <= 0 {
		sc.req.Limit = defaultSearchLimit
	}

	if sc.req.Limit > maxSearchLimit {
		sc.req.Limit = maxSearchLimit
	}

	if sc.req.Offset < 0 {
		sc.req.Offset = 0
	}

	for _, filter := range sc.req.Filters {
		if sliceContainsString(searchFilterIDs, filter.ID, false) == false {
			return fmt.Errorf("received unrecognized filter: [%s]", filter.ID)
		}

		if len(filter.Values) == 0 {
			return fmt.Errorf("filter [%s] has no values", filter.ID)
		}
	}

	return nil
}

func stringValues(values []interface{}) []string {
	var out []string

	for _, val := range values {
		switch v := val.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}

		case map[string]interface{}:
			// keyword chips arrive as {"id": "..."} objects
			if id, ok := v["id"].(string); ok == true && id != "" {
				out = append(out, id)
			}
		}
	}

	return out
}

// one filter group as a gorm condition on activity_records
func (sc *searchContext) applyFilter(q *gorm.DB, filter searchFilter) (*gorm.DB, error) {
	db := sc.svc.store.db

	switch filter.ID {
	case "fulltext":
		terms := stringValues(filter.Values)
		if len(terms) == 0 {
			return nil, fmt.Errorf("filter [fulltext] has no usable values")
		}

		var conds []string
		var args []interface{}

		for _, term := range terms {
			conds = append(conds, "text ILIKE ?")
			args = append(args, "%"+term+"%")
		}

		sub := db.Model(&searchTextRow{}).
			Select("object_id").
			Where("language = ?", sc.cl.lang).
			Where(strings.Join(conds, " OR "), args...)

		return q.Where("activity_records.id IN (?)", sub), nil

	case "date":
		var cond *gorm.DB

		for _, val := range stringValues(filter.Values) {
			from := expandEndpoint(val, true)
			to := expandEndpoint(val, false)

			if from == "" || to == "" {
				return nil, fmt.Errorf("filter [date] has an invalid value: [%s]", val)
			}

			dateSub := db.Model(&searchDateRow{}).
				Select("object_id").
				Where("date >= ? AND date <= ?", from, to)

			rangeSub := db.Model(&searchDateRangeRow{}).
				Select("object_id").
				Where("date_from <= ? AND date_to >= ?", to, from)

			one := db.Where("activity_records.id IN (?)", dateSub).
				Or("activity_records.id IN (?)", rangeSub)

			if cond == nil {
				cond = one
			} else {
				cond = cond.Or(one)
			}
		}

		return q.Where(cond), nil

	case "daterange":
		var cond *gorm.DB

		for _, val := range filter.Values {
			var dr dateRange

			if decodeList(val, &dr) == false {
				return nil, fmt.Errorf("filter [daterange] has an invalid value")
			}

			from := expandEndpoint(dr.DateFrom, true)
			to := expandEndpoint(dr.DateTo, false)

			if from == "" || to == "" {
				return nil, fmt.Errorf("filter [daterange] needs both endpoints")
			}

			dateSub := db.Model(&searchDateRow{}).
				Select("object_id").
				Where("date >= ? AND date <= ?", from, to)

			rangeSub := db.Model(&searchDateRangeRow{}).
				Select("object_id").
				Where("date_from <= ? AND date_to >= ?", to, from)

			one := db.Where("activity_records.id IN (?)", dateSub).
				Or("activity_records.id IN (?)", rangeSub)

			if cond == nil {
				cond = one
			} else {
				cond = cond.Or(one)
			}
		}

		return q.Where(cond), nil

	case "keyword":
		keywords := stringValues(filter.Values)
		if len(keywords) == 0 {
			return nil, fmt.Errorf("filter [keyword] has no usable values")
		}

		var cond *gorm.DB

		for _, keyword := range keywords {
			encoded, err := json.Marshal([]string{keyword})
			if err != nil {
				return nil, err
			}

			one := db.Where("activity_records.keywords @> ?", string(encoded))

			if cond == nil {
				cond = one
			} else {
				cond = cond.Or(one)
			}
		}

		return q.Where(cond), nil

	case "activity_type":
		types := stringValues(filter.Values)
		if len(types) == 0 {
			return nil, fmt.Errorf("filter [activity_type] has no usable values")
		}

		return q.Where("activity_records.type_source IN ?", types), nil

	case "entity":
		entities := stringValues(filter.Values)
		if len(entities) == 0 {
			return nil, fmt.Errorf("filter [entity] has no usable values")
		}

		return q.Where("activity_records.entity_id IN ?", entities), nil
	}

	return nil, fmt.Errorf("received unrecognized filter: [%s]", filter.ID)
}

func (sc *searchContext) buildQuery(ctx context.Context) (*gorm.DB, error) {
	q := sc.svc.store.db.WithContext(ctx).Table("activity_records")

	for _, filter := range sc.req.Filters {
		var err error

		q, err = sc.applyFilter(q, filter)
		if err != nil {
			return nil, err
		}
	}

	return q, nil
}

type searchRow struct {
	activityRecord `gorm:"embedded"`
	Score          *float64
}

func (sc *searchContext) execute(ctx context.Context) (int, interface{}) {
	if err := sc.validate(); err != nil {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	countQuery, err := sc.buildQuery(ctx)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	var total int64

	if err := countQuery.Count(&total).Error; err != nil {
		sc.cl.errorf("search count failed: %s", err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "search failed"}
	}

	fetchQuery, err := sc.buildQuery(ctx)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	var rows []searchRow

	err = fetchQuery.
		Select("activity_records.*, relevance.rank AS score").
		Joins("LEFT JOIN (SELECT object_id, MIN(rank) AS rank FROM search_date_relevance_rows GROUP BY object_id) relevance ON relevance.object_id = activity_records.id").
		Order("relevance.rank ASC NULLS LAST, activity_records.updated_at DESC").
		Limit(sc.req.Limit).
		Offset(sc.req.Offset).
		Find(&rows).Error

	if err != nil {
		sc.cl.errorf("search query failed: %s", err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "search failed"}
	}

	pc := sc.svc.newProjectContext(sc.cl)

	res := searchResponse{
		Label: sc.cl.localize("SearchResultsLabel"),
		Total: total,
		Data:  []searchItem{},
	}

	for i := range rows {
		rec := rows[i].activityRecord

		media, mediaErr := sc.svc.store.mediaByObject(ctx, rec.ID)
		if mediaErr != nil {
			sc.cl.warnf("failed to load media for [%s]: %s", rec.ID, mediaErr.Error())
		}

		item := pc.projectActivity(&rec, media, sc.cl.lang)

		if rows[i].Score != nil {
			item.Score = *rows[i].Score
		}

		res.Data = append(res.Data, item)
	}

	sc.cl.infof("search: %d filters, %d total, returning %d", len(sc.req.Filters), total, len(res.Data))

	return http.StatusOK, res
}
