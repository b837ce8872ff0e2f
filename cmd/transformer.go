package main

import (
	"errors"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// the field transformer registry: every schema maps to three ordered lists of
// semantic field names; every field name maps to a transformer function.
// both tables are static and validated against each other at startup, so a
// missing function is caught before the service accepts records.

var errMappingNotFound = errors.New("no field mapping for schema")

type fieldTransformerError struct {
	schema string
	field  string
}

func (e *fieldTransformerError) Error() string {
	return fmt.Sprintf("no transformer function for field [%s] (schema [%s])", e.field, e.schema)
}

// resolves labels and collection membership against the taxonomy; satisfied
// by vocabContext, and by fakes in tests
type taxonomy interface {
	resolveLabel(conceptURI, lang string, preferAlt bool) string
	schemaOf(conceptURI string) string
	conceptInCollection(conceptURI, collection string) bool
	conceptInAnyCollection(conceptURI string, collections []string) bool
}

// resolves role-holder sources to internally known repository entries;
// satisfied by storeContext
type entryResolver interface {
	entryTitle(source string) (string, bool)
}

type schemaFields struct {
	primary   []string
	secondary []string
	list      []string
}

var schemaFieldTable = map[string]schemaFields{
	"document": {
		primary:   []string{"headline", "type", "authors", "editors", "publishers", "date", "isbn_doi", "keywords", "url"},
		secondary: []string{"texts_with_types", "published_in", "volume_issue_pages"},
		list:      []string{"contributors"},
	},
	"conference": {
		primary:   []string{"headline", "type", "organisers", "lecturers", "date_range_time_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"conference_contribution": {
		primary:   []string{"headline", "type", "lecturers", "date_location_description", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"event": {
		primary:   []string{"headline", "type", "date_time_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"exhibition": {
		primary:   []string{"headline", "type", "artists", "curators", "date_opening_location", "keywords", "url"},
		secondary: []string{"texts_with_types", "opening"},
		list:      []string{"contributors"},
	},
	"fellowship_visiting_affiliation": {
		primary:   []string{"headline", "type", "fellow_scholar", "funding", "date_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"workshop": {
		primary:   []string{"headline", "type", "organisers", "lecturers", "date_range_time_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"award": {
		primary:   []string{"headline", "type", "winners", "granted_by", "jury", "category", "date_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"concert": {
		primary:   []string{"headline", "type", "music", "conductors", "composition", "date_time_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"festival": {
		primary:   []string{"headline", "type", "organisers", "artists", "curators", "date_range_time_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"research_project": {
		primary:   []string{"headline", "type", "project_lead", "project_partnership", "funding", "date_range", "keywords", "url"},
		secondary: []string{"texts_with_types", "funding_category"},
		list:      []string{"contributors"},
	},
	"architecture": {
		primary:   []string{"headline", "type", "architecture", "date_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types", "material_format_dimensions"},
		list:      []string{"contributors"},
	},
	"audio": {
		primary:   []string{"headline", "type", "authors", "artists", "date_location", "duration", "keywords", "url"},
		secondary: []string{"texts_with_types", "material_format_dimensions", "published_in"},
		list:      []string{"contributors"},
	},
	"film_video": {
		primary:   []string{"headline", "type", "directors", "date_location", "duration", "keywords", "url"},
		secondary: []string{"texts_with_types", "material_format_dimensions", "published_in"},
		list:      []string{"contributors"},
	},
	"design": {
		primary:   []string{"headline", "type", "design", "commissions", "date_location", "keywords", "url"},
		secondary: []string{"texts_with_types", "material_format_dimensions"},
		list:      []string{"contributors"},
	},
	"education_qualification": {
		primary:   []string{"headline", "type", "lecturers", "date_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types"},
		list:      []string{"contributors"},
	},
	"performance": {
		primary:   []string{"headline", "type", "artists", "date_time_range_location", "keywords", "url"},
		secondary: []string{"texts_with_types", "material_format_dimensions"},
		list:      []string{"contributors"},
	},
	"sculpture": {
		primary:   []string{"headline", "type", "artists", "date_location", "keywords", "url"},
		secondary: []string{"texts_with_types", "material_format_dimensions"},
		list:      []string{"contributors"},
	},
	"software": {
		primary:   []string{"headline", "type", "software_developers", "date", "open_source_license", "keywords", "url"},
		secondary: []string{"texts_with_types", "programming_language", "git_url", "documentation_url", "software_version"},
		list:      []string{"contributors"},
	},
}

type fieldTransformer func(tc *transformContext) ([]localizedFragment, error)

var fieldTransformers = map[string]fieldTransformer{
	"headline":                       (*transformContext).fieldHeadline,
	"type":                           (*transformContext).fieldType,
	"keywords":                       (*transformContext).fieldKeywords,
	"url":                            (*transformContext).fieldURL,
	"texts_with_types":               (*transformContext).fieldTextsWithTypes,
	"date":                           (*transformContext).fieldDate,
	"date_range":                     (*transformContext).fieldDateRange,
	"date_location":                  (*transformContext).fieldDateLocation,
	"date_location_description":      (*transformContext).fieldDateLocationDescription,
	"date_opening_location":          (*transformContext).fieldDateOpeningLocation,
	"date_range_location":            (*transformContext).fieldDateRangeLocation,
	"date_range_time_range_location": (*transformContext).fieldDateRangeTimeRangeLocation,
	"date_time_range_location":       (*transformContext).fieldDateTimeRangeLocation,
	"opening":                        (*transformContext).fieldOpening,
	"architecture":                   (*transformContext).fieldArchitecture,
	"artists":                        (*transformContext).fieldArtists,
	"authors":                        (*transformContext).fieldAuthors,
	"commissions":                    (*transformContext).fieldCommissions,
	"composition":                    (*transformContext).fieldComposition,
	"conductors":                     (*transformContext).fieldConductors,
	"contributors":                   (*transformContext).fieldContributors,
	"curators":                       (*transformContext).fieldCurators,
	"design":                         (*transformContext).fieldDesign,
	"directors":                      (*transformContext).fieldDirectors,
	"editors":                        (*transformContext).fieldEditors,
	"fellow_scholar":                 (*transformContext).fieldFellowScholar,
	"funding":                        (*transformContext).fieldFunding,
	"granted_by":                     (*transformContext).fieldGrantedBy,
	"jury":                           (*transformContext).fieldJury,
	"lecturers":                      (*transformContext).fieldLecturers,
	"music":                          (*transformContext).fieldMusic,
	"organisers":                     (*transformContext).fieldOrganisers,
	"project_lead":                   (*transformContext).fieldProjectLead,
	"project_partnership":            (*transformContext).fieldProjectPartnership,
	"publishers":                     (*transformContext).fieldPublishers,
	"software_developers":            (*transformContext).fieldSoftwareDevelopers,
	"winners":                        (*transformContext).fieldWinners,
	"category":                       (*transformContext).fieldCategory,
	"funding_category":               (*transformContext).fieldFundingCategory,
	"open_source_license":            (*transformContext).fieldOpenSourceLicense,
	"programming_language":           (*transformContext).fieldProgrammingLanguage,
	"git_url":                        (*transformContext).fieldGitURL,
	"documentation_url":              (*transformContext).fieldDocumentationURL,
	"software_version":               (*transformContext).fieldSoftwareVersion,
	"isbn_doi":                       (*transformContext).fieldISBNDOI,
	"published_in":                   (*transformContext).fieldPublishedIn,
	"volume_issue_pages":             (*transformContext).fieldVolumeIssuePages,
	"material_format_dimensions":     (*transformContext).fieldMaterialFormatDimensions,
	"duration":                       (*transformContext).fieldDuration,
}

type transformContext struct {
	svc     *serviceContext
	taxo    taxonomy
	entries entryResolver
	record  rawRecord
	schema  string
	langs   []string
}

// pluralized static label: one item selects the singular message form,
// more than one the plural form
func (tc *transformContext) label(xid string, count int, lang string) string {
	localizer := tc.svc.localizerFor(lang)

	label, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:   xid,
		PluralCount: count,
	})
	if err != nil {
		return xid
	}

	return label
}

func (svc *serviceContext) newTransformContext(rec rawRecord, schema string) *transformContext {
	return &transformContext{
		svc:     svc,
		taxo:    svc.vocab,
		entries: svc.store,
		record:  rec,
		schema:  schema,
		langs:   svc.config.Languages,
	}
}

func (tc *transformContext) renderFields(names []string) ([]localizedFragment, error) {
	var out []localizedFragment

	for _, name := range names {
		fn := fieldTransformers[name]

		if fn == nil {
			// registry drift; fatal for this record
			return nil, &fieldTransformerError{schema: tc.schema, field: name}
		}

		frags, err := fn(tc)
		if err != nil {
			return nil, err
		}

		out = append(out, frags...)
	}

	return out, nil
}

// build the full display structure for one record.  an unknown schema or a
// field with no registered transformer propagates as a mapping defect; the
// record is not partially persisted.
func (tc *transformContext) transform() (*displayStructure, error) {
	fields, ok := schemaFieldTable[tc.schema]
	if ok == false {
		return nil, fmt.Errorf("%w: [%s]", errMappingNotFound, tc.schema)
	}

	primary, err := tc.renderFields(fields.primary)
	if err != nil {
		return nil, err
	}

	secondary, err := tc.renderFields(fields.secondary)
	if err != nil {
		return nil, err
	}

	list, err := tc.renderFields(fields.list)
	if err != nil {
		return nil, err
	}

	return &displayStructure{
		PrimaryDetails:   primary,
		SecondaryDetails: secondary,
		List:             list,
	}, nil
}

// startup completeness check: every field name configured for any schema must
// have a registered transformer function
func validateFieldTransformers() []string {
	var missing []string

	seen := make(map[string]bool)

	for _, fields := range schemaFieldTable {
		var all []string
		all = append(all, fields.primary...)
		all = append(all, fields.secondary...)
		all = append(all, fields.list...)

		for _, name := range all {
			if seen[name] == true {
				continue
			}
			seen[name] = true

			if fieldTransformers[name] == nil {
				missing = append(missing, name)
			}
		}
	}

	return missing
}
