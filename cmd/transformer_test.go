package main

import (
	"errors"
	"reflect"
	"testing"
)

func TestTransformUnknownSchema(t *testing.T) {
	tc := newTestTransformContext(t, softwareRecord(), "interpretive_dance", nil, nil)

	if _, err := tc.transform(); errors.Is(err, errMappingNotFound) == false {
		t.Errorf("expected errMappingNotFound, got %v", err)
	}
}

func TestFieldTransformerRegistryIsComplete(t *testing.T) {
	if missing := validateFieldTransformers(); len(missing) != 0 {
		t.Errorf("fields with no transformer function: %v", missing)
	}
}

func TestTransformSoftwareRecord(t *testing.T) {
	entries := fakeEntries{"jane": "Jane Doe"}

	tc := newTestTransformContext(t, softwareRecord(), "software", nil, entries)

	display, err := tc.transform()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if len(display.PrimaryDetails) == 0 || len(display.SecondaryDetails) == 0 || len(display.List) == 0 {
		t.Fatalf("expected all three sections populated")
	}

	headline := display.PrimaryDetails[0][langDefault]

	if headline.Label != "Pattern Engine" {
		t.Errorf("unexpected headline label: %s", headline.Label)
	}

	if headline.Data != "a generative toolkit" {
		t.Errorf("unexpected headline data: %v", headline.Data)
	}
}

// two developers select the plural label, one the singular
func TestRoleFieldPluralLabels(t *testing.T) {
	tc := newTestTransformContext(t, softwareRecord(), "software", nil, nil)

	frags, err := tc.fieldSoftwareDevelopers()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if len(frags) != 1 {
		t.Fatalf("expected one fragment, got %d", len(frags))
	}

	if got := frags[0]["en"].Label; got != "Software developers" {
		t.Errorf("expected plural label, got %s", got)
	}

	single := softwareRecord()
	single["data"].(map[string]interface{})["software_developers"] = []interface{}{
		map[string]interface{}{"label": "Jane Doe", "source": "jane"},
	}

	tc = newTestTransformContext(t, single, "software", nil, nil)

	frags, err = tc.fieldSoftwareDevelopers()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if got := frags[0]["en"].Label; got != "Software developer" {
		t.Errorf("expected singular label, got %s", got)
	}
}

// a holder known to the repository links back to its entry
func TestEntityReferenceRendering(t *testing.T) {
	entries := fakeEntries{"jane": "Jane Doe (Artist Page)"}

	tc := newTestTransformContext(t, softwareRecord(), "software", nil, entries)

	frags, err := tc.fieldSoftwareDevelopers()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	objs, ok := frags[0]["en"].Data.([]commonTextObject)
	if ok == false {
		t.Fatalf("expected object list data, got %T", frags[0]["en"].Data)
	}

	if objs[0].Value != "Jane Doe (Artist Page)" || objs[0].Source != "jane" {
		t.Errorf("known holder did not resolve: %+v", objs[0])
	}

	if objs[1].Value != "External Collaborator" || objs[1].Source != "" {
		t.Errorf("external holder should render as supplied: %+v", objs[1])
	}
}

func TestTextsWithTypesMatchesLanguage(t *testing.T) {
	tc := newTestTransformContext(t, softwareRecord(), "software", nil, nil)

	frags, err := tc.fieldTextsWithTypes()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if len(frags) != 1 {
		t.Fatalf("expected one fragment, got %d", len(frags))
	}

	if frags[0]["en"].Data != "An engine for patterns." {
		t.Errorf("unexpected en text: %v", frags[0]["en"].Data)
	}

	if frags[0]["de"].Data != "Eine Engine für Muster." {
		t.Errorf("unexpected de text: %v", frags[0]["de"].Data)
	}

	if frags[0]["en"].Label != "Description" {
		t.Errorf("expected block type label, got %s", frags[0]["en"].Label)
	}
}

// multiple concepts summarized under one label select their alternate
// (plural) taxonomy labels; a single concept keeps the preferred label
func TestConceptListPrefersAlternateLabels(t *testing.T) {
	printURI := "https://vocab.example.org/concepts/print"
	etchingURI := "https://vocab.example.org/concepts/etching"

	taxo := &fakeTaxonomy{
		prefLabels: map[string]map[string]string{
			printURI:   {"en": "Print"},
			etchingURI: {"en": "Etching"},
		},
		altLabels: map[string]map[string]string{
			printURI:   {"en": "Prints"},
			etchingURI: {"en": "Etchings"},
		},
	}

	rec := softwareRecord()
	rec["keywords"] = []interface{}{
		map[string]interface{}{"source": printURI},
		map[string]interface{}{"source": etchingURI},
	}

	tc := newTestTransformContext(t, rec, "software", taxo, nil)

	frags, err := tc.fieldKeywords()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	labels, ok := frags[0]["en"].Data.([]string)
	if ok == false {
		t.Fatalf("expected label list data, got %T", frags[0]["en"].Data)
	}

	if labels[0] != "Prints" || labels[1] != "Etchings" {
		t.Errorf("expected alternate labels, got %v", labels)
	}

	rec["keywords"] = []interface{}{
		map[string]interface{}{"source": printURI},
	}

	tc = newTestTransformContext(t, rec, "software", taxo, nil)

	frags, err = tc.fieldKeywords()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if frags[0]["en"].Data != "Print" {
		t.Errorf("expected preferred label for a single concept, got %v", frags[0]["en"].Data)
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	entries := fakeEntries{"jane": "Jane Doe"}

	first, err := newTestTransformContext(t, softwareRecord(), "software", nil, entries).transform()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	second, err := newTestTransformContext(t, softwareRecord(), "software", nil, entries).transform()
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if reflect.DeepEqual(first, second) == false {
		t.Errorf("repeated transformation of an unchanged record differs")
	}
}
