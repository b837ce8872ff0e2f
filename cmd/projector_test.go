package main

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestMediaImageURLPrefersImages(t *testing.T) {
	cover, _ := json.Marshal(map[string]string{"gif": "http://m/c.gif", "jpg": "http://m/c.jpg"})

	media := []mediumRecord{
		{Kind: "video", Cover: datatypes.JSON(cover)},
		{Kind: "image", Thumbnail: "http://m/t.jpg"},
	}

	if got := mediaImageURL(media); got != "http://m/t.jpg" {
		t.Errorf("expected image thumbnail, got %s", got)
	}
}

func TestMediaImageURLVideoCover(t *testing.T) {
	cover, _ := json.Marshal(map[string]string{"gif": "http://m/c.gif", "jpg": "http://m/c.jpg"})

	media := []mediumRecord{
		{Kind: "video", Cover: datatypes.JSON(cover)},
		{Kind: "audio", Thumbnail: "http://m/a.jpg"},
	}

	if got := mediaImageURL(media); got != "http://m/c.gif" {
		t.Errorf("expected animated cover, got %s", got)
	}

	still, _ := json.Marshal(map[string]string{"jpg": "http://m/c.jpg"})
	media[0].Cover = datatypes.JSON(still)

	if got := mediaImageURL(media); got != "http://m/c.jpg" {
		t.Errorf("expected still cover, got %s", got)
	}
}

func TestMediaImageURLFallback(t *testing.T) {
	media := []mediumRecord{
		{Kind: "document"},
		{Kind: "audio", Thumbnail: "http://m/a.jpg"},
	}

	if got := mediaImageURL(media); got != "http://m/a.jpg" {
		t.Errorf("expected fallback thumbnail, got %s", got)
	}

	if got := mediaImageURL(nil); got != "" {
		t.Errorf("expected empty url, got %s", got)
	}
}

func TestProjectActivity(t *testing.T) {
	taxo := &fakeTaxonomy{
		prefLabels: map[string]map[string]string{
			softwareTypeURI: {"en": "Software"},
		},
	}

	pc := &projectContext{taxo: taxo, cl: newTestClient(t)}

	encoded, err := json.Marshal(softwareRecord())
	if err != nil {
		t.Fatalf("failed to encode fixture: %s", err.Error())
	}

	rec := activityRecord{
		ID:         uuid.New(),
		SourceRepo: "repo-a",
		Title:      "Pattern Engine",
		Subtitle:   "a generative toolkit",
		Raw:        datatypes.JSON(encoded),
	}

	item := pc.projectActivity(&rec, nil, "en")

	if item.Type != itemTypeActivity {
		t.Errorf("unexpected type: %s", item.Type)
	}

	if item.Title != "Pattern Engine" || item.Subtitle != "a generative toolkit" {
		t.Errorf("unexpected identity: %+v", item)
	}

	if item.Description != "Sam Helper, Jane Doe, External Collaborator" {
		t.Errorf("unexpected description: %s", item.Description)
	}

	if item.AlternativeText != "Software" {
		t.Errorf("unexpected alternative text: %s", item.AlternativeText)
	}

	if item.SourceInstitution != "repo-a" {
		t.Errorf("unexpected source institution: %s", item.SourceInstitution)
	}
}

// a field name with no registered function renders empty without failing
func TestProjectedFieldWithoutFunction(t *testing.T) {
	pc := &projectContext{taxo: &fakeTaxonomy{}, cl: newTestClient(t)}

	if got := pc.projectedField(softwareRecord(), "awards_won", "en"); got != "" {
		t.Errorf("expected empty value for unregistered field, got %s", got)
	}
}

func TestProjectArtistsContributors(t *testing.T) {
	pc := &projectContext{taxo: &fakeTaxonomy{}, cl: newTestClient(t)}

	raw := rawRecord{
		"data": map[string]interface{}{
			"artists": []interface{}{
				map[string]interface{}{"label": "Ana Artist"},
			},
			"contributors": []interface{}{
				map[string]interface{}{"label": "Sam Helper"},
			},
		},
	}

	if got := pc.projectedField(raw, "artists_contributors", "en"); got != "Ana Artist, Sam Helper" {
		t.Errorf("expected artists before contributors, got %s", got)
	}
}

func TestProjectEntityTitleFallback(t *testing.T) {
	pc := &projectContext{taxo: &fakeTaxonomy{}, cl: newTestClient(t)}

	ent := entityRecord{ID: "jane.doe", Username: "jane.doe"}

	item := pc.projectEntity(&ent)

	if item.Type != entityKindPerson {
		t.Errorf("unexpected type: %s", item.Type)
	}

	if item.Title != "Jane Doe" {
		t.Errorf("unexpected title: %s", item.Title)
	}
}
