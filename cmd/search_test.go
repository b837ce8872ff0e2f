package main

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSearchValidateUnknownFilter(t *testing.T) {
	sc := &searchContext{
		req: searchRequest{
			Filters: []searchFilter{
				{ID: "flavor", Values: []interface{}{"vanilla"}},
			},
		},
	}

	err := sc.validate()

	if err == nil {
		t.Fatalf("expected validation error")
	}

	if strings.Contains(err.Error(), "received unrecognized filter: [flavor]") == false {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestSearchValidateEmptyValues(t *testing.T) {
	sc := &searchContext{
		req: searchRequest{
			Filters: []searchFilter{
				{ID: "fulltext"},
			},
		},
	}

	if err := sc.validate(); err == nil {
		t.Errorf("expected validation error for empty values")
	}
}

func TestSearchValidatePaginationDefaults(t *testing.T) {
	sc := &searchContext{req: searchRequest{Limit: -5, Offset: -1}}

	if err := sc.validate(); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if sc.req.Limit != defaultSearchLimit || sc.req.Offset != 0 {
		t.Errorf("unexpected defaults: limit=%d offset=%d", sc.req.Limit, sc.req.Offset)
	}

	sc = &searchContext{req: searchRequest{Limit: 5000}}

	if err := sc.validate(); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if sc.req.Limit != maxSearchLimit {
		t.Errorf("limit not capped: %d", sc.req.Limit)
	}
}

// a dry-run session builds SQL without a reachable database
func testDryRunStore(t *testing.T) *storeContext {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=activities dbname=activities"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %s", err.Error())
	}

	return &storeContext{db: db}
}

// two filter groups intersect with AND; the values inside one group combine
// with OR
func TestSearchFiltersCombineWithAND(t *testing.T) {
	svc := newTestService(t)
	svc.store = testDryRunStore(t)

	sc := svc.newSearchContext(newTestClient(t), searchRequest{
		Filters: []searchFilter{
			{ID: "fulltext", Values: []interface{}{"pattern", "engine"}},
			{ID: "entity", Values: []interface{}{"jane"}},
		},
	})

	q, err := sc.buildQuery(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	var rows []searchRow

	stmt := q.Find(&rows).Statement
	sql := stmt.SQL.String()

	if strings.Contains(sql, "search_text_rows") == false {
		t.Fatalf("fulltext subquery missing: %s", sql)
	}

	if strings.Count(sql, "ILIKE") != 2 || strings.Contains(sql, " OR ") == false {
		t.Errorf("fulltext values not combined with OR: %s", sql)
	}

	if strings.Contains(sql, "entity_id IN") == false {
		t.Fatalf("entity condition missing: %s", sql)
	}

	if strings.Contains(sql, " AND ") == false {
		t.Errorf("filter groups not combined with AND: %s", sql)
	}

	// language restriction plus one term per value plus the entity id
	if len(stmt.Vars) != 4 {
		t.Errorf("unexpected bind variables: %v", stmt.Vars)
	}
}

func TestStringValuesAcceptsChips(t *testing.T) {
	values := []interface{}{
		"plain",
		map[string]interface{}{"id": "Chip"},
		map[string]interface{}{"name": "ignored"},
		"",
	}

	got := stringValues(values)

	if len(got) != 2 || got[0] != "plain" || got[1] != "Chip" {
		t.Errorf("unexpected values: %v", got)
	}
}
