package main

import (
	"encoding/json"
	"strings"

	"github.com/igorsobreira/titlecase"
)

// builds the compact localized search-result summary for records and entities

const (
	entityKindPerson      = "person"
	entityKindInstitution = "institution"
	entityKindDepartment  = "department"
)

const (
	itemTypeActivity = "activity"
	itemTypeAlbum    = "album"
)

type searchItem struct {
	ID                string  `json:"id"`
	Type              string  `json:"type"`
	Title             string  `json:"title"`
	Subtitle          string  `json:"subtitle,omitempty"`
	Description       string  `json:"description,omitempty"`
	AlternativeText   string  `json:"alternative_text,omitempty"`
	ImageURL          string  `json:"image_url,omitempty"`
	SourceInstitution string  `json:"source_institution,omitempty"`
	Score             float64 `json:"score,omitempty"`
}

type projectContext struct {
	taxo taxonomy
	cl   *clientContext
}

func (svc *serviceContext) newProjectContext(cl *clientContext) *projectContext {
	return &projectContext{taxo: svc.vocab, cl: cl}
}

// summary slots are filled through a field -> function table per item type,
// producing flat joined strings.  a configured field with no function renders
// empty; that only surfaces in debug logs, never as a request failure.

type projectorField func(pc *projectContext, raw rawRecord, lang string) string

var projectorFields = map[string]projectorField{
	"contributors_line":    (*projectContext).projectContributorsLine,
	"artists_contributors": (*projectContext).projectArtistsContributors,
	"type_label":           (*projectContext).projectTypeLabel,
}

// item type -> summary slot -> field name
var projectorSlots = map[string]map[string]string{
	itemTypeActivity: {
		"description":      "contributors_line",
		"alternative_text": "type_label",
	},
	itemTypeAlbum: {
		"description":      "artists_contributors",
		"alternative_text": "type_label",
	},
}

func (pc *projectContext) projectContributorsLine(raw rawRecord, lang string) string {
	return contributorsLine(raw)
}

// artist labels first, then contributor labels
func (pc *projectContext) projectArtistsContributors(raw rawRecord, lang string) string {
	var labels []string

	labels = append(labels, holderLabels(raw.holders("artists"))...)
	labels = append(labels, holderLabels(raw.holders("contributors"))...)

	return strings.Join(uniqueStrings(labels), ", ")
}

func (pc *projectContext) projectTypeLabel(raw rawRecord, lang string) string {
	ref := raw.typeRef()
	if ref == nil {
		return ""
	}

	if label := pc.taxo.resolveLabel(ref.Source, lang, false); label != "" {
		return label
	}

	return ref.labelFor(lang)
}

func (pc *projectContext) projectedField(raw rawRecord, field, lang string) string {
	fn := projectorFields[field]

	if fn == nil {
		pc.cl.debugf("no projector function for field [%s]", field)
		return ""
	}

	return fn(pc, raw, lang)
}

// preview image selection: first image thumbnail, else first video cover
// (animated gif preferred over the still), else any remaining thumbnail
func mediaImageURL(media []mediumRecord) string {
	for i := range media {
		if media[i].Kind == "image" && media[i].Thumbnail != "" {
			return media[i].Thumbnail
		}
	}

	for i := range media {
		if media[i].Kind != "video" {
			continue
		}

		var cover map[string]string

		if err := json.Unmarshal(media[i].Cover, &cover); err != nil {
			continue
		}

		if cover["gif"] != "" {
			return cover["gif"]
		}

		if cover["jpg"] != "" {
			return cover["jpg"]
		}
	}

	for i := range media {
		if media[i].Thumbnail != "" {
			return media[i].Thumbnail
		}
	}

	return ""
}

func (pc *projectContext) projectActivity(rec *activityRecord, media []mediumRecord, lang string) searchItem {
	item := searchItem{
		ID:                rec.ID.String(),
		Type:              itemTypeActivity,
		Title:             rec.Title,
		Subtitle:          rec.Subtitle,
		ImageURL:          mediaImageURL(media),
		SourceInstitution: rec.SourceRepo,
	}

	var raw rawRecord
	if err := json.Unmarshal(rec.Raw, &raw); err != nil {
		return item
	}

	for slot, field := range projectorSlots[item.Type] {
		val := pc.projectedField(raw, field, lang)

		switch slot {
		case "description":
			item.Description = val

		case "alternative_text":
			item.AlternativeText = val
		}
	}

	return item
}

func (pc *projectContext) projectEntity(ent *entityRecord) searchItem {
	item := searchItem{
		ID:                ent.ID,
		Type:              ent.Kind,
		Title:             ent.Title,
		Subtitle:          ent.Institution,
		SourceInstitution: ent.Institution,
	}

	if item.Type == "" {
		item.Type = entityKindPerson
	}

	// entities pulled before their profile arrives only carry a username
	if item.Title == "" && ent.Username != "" {
		item.Title = titlecase.Title(strings.ReplaceAll(ent.Username, ".", " "))
	}

	return item
}
