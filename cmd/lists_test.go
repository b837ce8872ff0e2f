package main

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func testListContext(t *testing.T, taxo taxonomy) *listContext {
	t.Helper()

	svc := newTestService(t)

	if taxo == nil {
		taxo = &fakeTaxonomy{}
	}

	return &listContext{
		svc:   svc,
		taxo:  taxo,
		cc:    &classifyContext{taxo: taxo, collections: map[string]string{}},
		langs: svc.config.Languages,
	}
}

func monographActivity(t *testing.T, title, year string) activityRecord {
	t.Helper()

	raw := rawRecord{
		"title": title,
		"type":  map[string]interface{}{"source": "https://vocab.example.org/concepts/monograph"},
		"data": map[string]interface{}{
			"date": year,
			"authors": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{
							"source": "https://vocab.example.org/roles/author",
							"label":  map[string]interface{}{"en": "Author", "de": "Autor*in"},
						},
					},
				},
			},
		},
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to encode fixture: %s", err.Error())
	}

	return activityRecord{
		ID:    uuid.New(),
		Title: title,
		Raw:   datatypes.JSON(encoded),
	}
}

func TestRenderListsNestedAndOrdered(t *testing.T) {
	typeURI := "https://vocab.example.org/concepts/monograph"

	taxo := &fakeTaxonomy{
		collections: map[string][]string{"monographs": {typeURI}},
	}

	lc := testListContext(t, taxo)

	recs := []activityRecord{
		monographActivity(t, "Older Book", "2019"),
		monographActivity(t, "Newer Book", "2023"),
	}

	lists := lc.renderLists(recs, "jane")

	category, ok := lists["document_publication"]
	if ok == false {
		t.Fatalf("expected document_publication category, got %v", lists)
	}

	en, ok := category["en"]
	if ok == false {
		t.Fatalf("expected en rendering")
	}

	if en.Label != "Documents and publications" {
		t.Errorf("unexpected category label: %s", en.Label)
	}

	if len(en.Data) != 1 {
		t.Fatalf("expected one sub-list, got %d", len(en.Data))
	}

	sub, ok := en.Data[0].(commonList)
	if ok == false {
		t.Fatalf("expected nested commonList, got %T", en.Data[0])
	}

	if sub.Label != "Monographs" {
		t.Errorf("unexpected sub-list label: %s", sub.Label)
	}

	if len(sub.Data) != 2 {
		t.Fatalf("expected two items, got %d", len(sub.Data))
	}

	first := sub.Data[0].(commonListItem)
	second := sub.Data[1].(commonListItem)

	if first.Value != "Newer Book" || second.Value != "Older Book" {
		t.Errorf("items not ordered newest first: %s, %s", first.Value, second.Value)
	}
}

func TestListItemAttributes(t *testing.T) {
	typeURI := "https://vocab.example.org/concepts/monograph"

	taxo := &fakeTaxonomy{
		prefLabels: map[string]map[string]string{
			typeURI: {"en": "Monograph"},
		},
		collections: map[string][]string{"monographs": {typeURI}},
	}

	lc := testListContext(t, taxo)

	rec := monographActivity(t, "A Book", "2019")
	rec.Subtitle = "second edition"

	var raw rawRecord
	if err := json.Unmarshal(rec.Raw, &raw); err != nil {
		t.Fatalf("failed to decode fixture: %s", err.Error())
	}

	entry := listEntry{rec: &rec, raw: raw, date: mostRelevantDate(raw)}

	item := lc.renderItem(&entry, "jane", "en")

	if item.Value != "A Book" || item.Source != rec.ID.String() {
		t.Errorf("unexpected item identity: %+v", item)
	}

	if len(item.Attributes) != 2 {
		t.Fatalf("expected two attributes, got %v", item.Attributes)
	}

	if item.Attributes[0] != "second edition (Monograph)" {
		t.Errorf("unexpected first attribute: %s", item.Attributes[0])
	}

	if item.Attributes[1] != "Author, 2019" {
		t.Errorf("unexpected second attribute: %s", item.Attributes[1])
	}
}

func TestRenderListsDedupes(t *testing.T) {
	typeURI := "https://vocab.example.org/concepts/monograph"

	taxo := &fakeTaxonomy{
		collections: map[string][]string{"monographs": {typeURI}},
	}

	lc := testListContext(t, taxo)

	rec := monographActivity(t, "A Book", "2019")

	lists := lc.renderLists([]activityRecord{rec, rec}, "jane")

	sub := lists["document_publication"]["en"].Data[0].(commonList)

	if len(sub.Data) != 1 {
		t.Errorf("duplicate record not suppressed: %d items", len(sub.Data))
	}
}

func TestRenderListsOmitsUninvolved(t *testing.T) {
	lc := testListContext(t, nil)

	rec := monographActivity(t, "A Book", "2019")

	lists := lc.renderLists([]activityRecord{rec}, "somebody-else")

	if len(lists) != 0 {
		t.Errorf("expected no lists for uninvolved person, got %v", lists)
	}
}
