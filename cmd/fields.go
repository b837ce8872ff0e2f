package main

import (
	"fmt"
	"strings"
)

// per-field transformer functions.  each receives the full transform context
// and renders zero or more localized display fragments for its field.  absent
// or empty source data renders nothing; only structural defects are errors.

// localized label for a referenced concept, preferring the live taxonomy and
// falling back to the labels embedded in the record
func (tc *transformContext) conceptLabel(ref *conceptRef, lang string, preferAlt bool) string {
	if ref == nil {
		return ""
	}

	if label := tc.taxo.resolveLabel(ref.Source, lang, preferAlt); label != "" {
		return label
	}

	return ref.labelFor(lang)
}

// labels for a concept list.  more than one concept under a shared label
// selects the alternate (plural) taxonomy labels.
func (tc *transformContext) conceptLabels(refs []conceptRef, lang string) []string {
	preferAlt := len(refs) > 1

	var labels []string

	for i := range refs {
		if label := tc.conceptLabel(&refs[i], lang, preferAlt); label != "" {
			labels = append(labels, label)
		}
	}

	return labels
}

// a fragment with the same label/value pair in every configured language
func (tc *transformContext) perLanguage(xid string, count int, data func(lang string) interface{}) []localizedFragment {
	frag := localizedFragment{}

	for _, lang := range tc.langs {
		val := data(lang)
		if val == nil {
			continue
		}

		frag[lang] = commonText{Label: tc.label(xid, count, lang), Data: val}
	}

	if len(frag) == 0 {
		return nil
	}

	return []localizedFragment{frag}
}

func (tc *transformContext) stringField(field, xid string) []localizedFragment {
	val := tc.record.dataStr(field)
	if val == "" {
		return nil
	}

	return tc.perLanguage(xid, 1, func(lang string) interface{} { return val })
}

// a language-independent fragment with a fixed label
func defaultFragment(label, val string) []localizedFragment {
	if val == "" {
		return nil
	}

	return []localizedFragment{{langDefault: commonText{Label: label, Data: val}}}
}

// lists of one entry collapse to a plain string
func entriesOrSingle(entries []string) interface{} {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		return entries[0]
	default:
		return entries
	}
}

func formatDateRange(from, to string) string {
	switch {
	case from != "" && to != "":
		if from == to {
			return from
		}
		return fmt.Sprintf("%s – %s", from, to)

	case from != "":
		return from

	default:
		return to
	}
}

func formatTimeRange(from, to string) string {
	switch {
	case from != "" && to != "":
		return fmt.Sprintf("%s–%s", from, to)

	case from != "":
		return from

	default:
		return to
	}
}

// "place1, place2, free-text description" for one dated entry
func (tc *transformContext) placePart(location []conceptRef, description, lang string) string {
	parts := locationLabels([][]conceptRef{location}, lang)

	if description != "" {
		parts = append(parts, description)
	}

	return joinNonempty(parts, ", ")
}

// role-holder fields

func (tc *transformContext) holderObjects(holders []roleHolder, lang string, includeRoles bool) []commonTextObject {
	var objs []commonTextObject

	for i := range holders {
		h := holders[i]

		obj := commonTextObject{Value: h.Label}

		// holders known to the repository link back to their entry
		if title, ok := tc.entries.entryTitle(h.Source); ok == true {
			obj.Value = title
			obj.Source = h.Source
		}

		if obj.Value == "" {
			continue
		}

		if includeRoles == true {
			var roles []string

			for j := range h.Roles {
				if label := tc.conceptLabel(&h.Roles[j], lang, false); label != "" {
					roles = append(roles, label)
				}
			}

			obj.Additional = strings.Join(roles, ", ")
		}

		objs = append(objs, obj)
	}

	return objs
}

func (tc *transformContext) roleField(field, xid string, includeRoles bool) []localizedFragment {
	holders := tc.record.holders(field)
	if len(holders) == 0 {
		return nil
	}

	return tc.perLanguage(xid, len(holders), func(lang string) interface{} {
		objs := tc.holderObjects(holders, lang, includeRoles)
		if len(objs) == 0 {
			return nil
		}
		return objs
	})
}

func (tc *transformContext) fieldArchitecture() ([]localizedFragment, error) {
	return tc.roleField("architecture", "FieldArchitecture", false), nil
}

func (tc *transformContext) fieldArtists() ([]localizedFragment, error) {
	return tc.roleField("artists", "FieldArtists", false), nil
}

func (tc *transformContext) fieldAuthors() ([]localizedFragment, error) {
	return tc.roleField("authors", "FieldAuthors", false), nil
}

func (tc *transformContext) fieldCommissions() ([]localizedFragment, error) {
	return tc.roleField("commissions", "FieldCommissions", false), nil
}

func (tc *transformContext) fieldComposition() ([]localizedFragment, error) {
	return tc.roleField("composition", "FieldComposition", false), nil
}

func (tc *transformContext) fieldConductors() ([]localizedFragment, error) {
	return tc.roleField("conductors", "FieldConductors", false), nil
}

func (tc *transformContext) fieldContributors() ([]localizedFragment, error) {
	return tc.roleField("contributors", "FieldContributors", true), nil
}

func (tc *transformContext) fieldCurators() ([]localizedFragment, error) {
	return tc.roleField("curators", "FieldCurators", false), nil
}

func (tc *transformContext) fieldDesign() ([]localizedFragment, error) {
	return tc.roleField("design", "FieldDesign", false), nil
}

func (tc *transformContext) fieldDirectors() ([]localizedFragment, error) {
	return tc.roleField("directors", "FieldDirectors", false), nil
}

func (tc *transformContext) fieldEditors() ([]localizedFragment, error) {
	return tc.roleField("editors", "FieldEditors", false), nil
}

func (tc *transformContext) fieldFellowScholar() ([]localizedFragment, error) {
	return tc.roleField("fellow_scholar", "FieldFellowScholar", false), nil
}

func (tc *transformContext) fieldFunding() ([]localizedFragment, error) {
	return tc.roleField("funding", "FieldFunding", false), nil
}

func (tc *transformContext) fieldGrantedBy() ([]localizedFragment, error) {
	return tc.roleField("granted_by", "FieldGrantedBy", false), nil
}

func (tc *transformContext) fieldJury() ([]localizedFragment, error) {
	return tc.roleField("jury", "FieldJury", false), nil
}

func (tc *transformContext) fieldLecturers() ([]localizedFragment, error) {
	return tc.roleField("lecturers", "FieldLecturers", false), nil
}

func (tc *transformContext) fieldMusic() ([]localizedFragment, error) {
	return tc.roleField("music", "FieldMusic", false), nil
}

func (tc *transformContext) fieldOrganisers() ([]localizedFragment, error) {
	return tc.roleField("organisers", "FieldOrganisers", false), nil
}

func (tc *transformContext) fieldProjectLead() ([]localizedFragment, error) {
	return tc.roleField("project_lead", "FieldProjectLead", false), nil
}

func (tc *transformContext) fieldProjectPartnership() ([]localizedFragment, error) {
	return tc.roleField("project_partnership", "FieldProjectPartnership", false), nil
}

func (tc *transformContext) fieldPublishers() ([]localizedFragment, error) {
	return tc.roleField("publishers", "FieldPublishers", false), nil
}

func (tc *transformContext) fieldSoftwareDevelopers() ([]localizedFragment, error) {
	return tc.roleField("software_developers", "FieldSoftwareDevelopers", false), nil
}

func (tc *transformContext) fieldWinners() ([]localizedFragment, error) {
	return tc.roleField("winners", "FieldWinners", false), nil
}

// headline and descriptive fields

func (tc *transformContext) fieldHeadline() ([]localizedFragment, error) {
	title := tc.record.str("title")
	if title == "" {
		return nil, nil
	}

	return []localizedFragment{{langDefault: commonText{Label: title, Data: tc.record.str("subtitle")}}}, nil
}

func (tc *transformContext) fieldType() ([]localizedFragment, error) {
	ref := tc.record.typeRef()
	if ref == nil {
		return nil, nil
	}

	return tc.perLanguage("FieldType", 1, func(lang string) interface{} {
		label := tc.conceptLabel(ref, lang, false)
		if label == "" {
			return nil
		}
		return label
	}), nil
}

func (tc *transformContext) fieldKeywords() ([]localizedFragment, error) {
	refs := tc.record.keywords()
	if len(refs) == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldKeywords", len(refs), func(lang string) interface{} {
		return entriesOrSingle(tc.conceptLabels(refs, lang))
	}), nil
}

func (tc *transformContext) fieldURL() ([]localizedFragment, error) {
	u := tc.record.dataStr("url")

	if isValidURL(u) == false {
		return nil, nil
	}

	return defaultFragment("URL", u), nil
}

// one fragment per text block, labeled by the block's type concept; languages
// without a matching localized text are omitted from the fragment
func (tc *transformContext) fieldTextsWithTypes() ([]localizedFragment, error) {
	var out []localizedFragment

	for _, block := range tc.record.texts() {
		frag := localizedFragment{}

		for _, lang := range tc.langs {
			var text string

			for i := range block.Data {
				if block.Data[i].lang() == lang {
					text = block.Data[i].Text
					break
				}
			}

			if text == "" {
				continue
			}

			label := tc.conceptLabel(block.Type, lang, false)
			if label == "" {
				label = tc.label("FieldText", 1, lang)
			}

			frag[lang] = commonText{Label: label, Data: text}
		}

		if len(frag) > 0 {
			out = append(out, frag)
		}
	}

	return out, nil
}

// date-bearing fields

func (tc *transformContext) fieldDate() ([]localizedFragment, error) {
	val := tc.record.dataStr("date")
	if val == "" {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", 1, func(lang string) interface{} { return val }), nil
}

func (tc *transformContext) fieldDateRange() ([]localizedFragment, error) {
	var dr dateRange

	if decodeList(tc.record.dataVal("date_range"), &dr) == false {
		return nil, nil
	}

	val := formatDateRange(dr.DateFrom, dr.DateTo)
	if val == "" {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", 1, func(lang string) interface{} { return val }), nil
}

func (tc *transformContext) dateLocationEntries(field string, lang string) []string {
	var dls []dateLocation

	if decodeList(tc.record.dataVal(field), &dls) == false {
		return nil
	}

	var entries []string

	for _, dl := range dls {
		entry := joinNonempty([]string{dl.Date, tc.placePart(dl.Location, dl.LocationDescription, lang)}, ", ")

		if entry != "" {
			entries = append(entries, entry)
		}
	}

	return entries
}

func (tc *transformContext) fieldDateLocation() ([]localizedFragment, error) {
	count := len(tc.dateLocationEntries("date_location", tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", count, func(lang string) interface{} {
		return entriesOrSingle(tc.dateLocationEntries("date_location", lang))
	}), nil
}

func (tc *transformContext) fieldDateLocationDescription() ([]localizedFragment, error) {
	count := len(tc.dateLocationEntries("date_location_description", tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", count, func(lang string) interface{} {
		return entriesOrSingle(tc.dateLocationEntries("date_location_description", lang))
	}), nil
}

func (tc *transformContext) fieldDateOpeningLocation() ([]localizedFragment, error) {
	var dols []dateOpeningLocation

	if decodeList(tc.record.dataVal("date_opening_location"), &dols) == false {
		return nil, nil
	}

	entries := func(lang string) []string {
		var out []string

		for _, dol := range dols {
			entry := joinNonempty([]string{
				formatDateRange(dol.DateFrom, dol.DateTo),
				tc.placePart(dol.Location, dol.LocationDescription, lang),
			}, ", ")

			if entry != "" {
				out = append(out, entry)
			}
		}

		return out
	}

	count := len(entries(tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", count, func(lang string) interface{} {
		return entriesOrSingle(entries(lang))
	}), nil
}

// the vernissage, rendered separately from the run of an exhibition
func (tc *transformContext) fieldOpening() ([]localizedFragment, error) {
	var dols []dateOpeningLocation

	if decodeList(tc.record.dataVal("date_opening_location"), &dols) == false {
		return nil, nil
	}

	entries := func(lang string) []string {
		var out []string

		for _, dol := range dols {
			if dol.Opening == nil {
				continue
			}

			o := dol.Opening

			entry := joinNonempty([]string{
				o.Date,
				formatTimeRange(o.TimeFrom, o.TimeTo),
				tc.placePart(o.Location, o.LocationDescription, lang),
			}, ", ")

			if entry != "" {
				out = append(out, entry)
			}
		}

		return out
	}

	count := len(entries(tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldOpening", count, func(lang string) interface{} {
		return entriesOrSingle(entries(lang))
	}), nil
}

func (tc *transformContext) fieldDateRangeLocation() ([]localizedFragment, error) {
	var drls []dateRangeLocation

	if decodeList(tc.record.dataVal("date_range_location"), &drls) == false {
		return nil, nil
	}

	entries := func(lang string) []string {
		var out []string

		for _, drl := range drls {
			entry := joinNonempty([]string{
				formatDateRange(drl.DateFrom, drl.DateTo),
				tc.placePart(drl.Location, drl.LocationDescription, lang),
			}, ", ")

			if entry != "" {
				out = append(out, entry)
			}
		}

		return out
	}

	count := len(entries(tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", count, func(lang string) interface{} {
		return entriesOrSingle(entries(lang))
	}), nil
}

func (tc *transformContext) fieldDateRangeTimeRangeLocation() ([]localizedFragment, error) {
	var drtls []dateRangeTimeRangeLocation

	if decodeList(tc.record.dataVal("date_range_time_range_location"), &drtls) == false {
		return nil, nil
	}

	entries := func(lang string) []string {
		var out []string

		for _, drtl := range drtls {
			entry := joinNonempty([]string{
				formatDateRange(drtl.DateFrom, drtl.DateTo),
				formatTimeRange(drtl.TimeFrom, drtl.TimeTo),
				tc.placePart(drtl.Location, drtl.LocationDescription, lang),
			}, ", ")

			if entry != "" {
				out = append(out, entry)
			}
		}

		return out
	}

	count := len(entries(tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", count, func(lang string) interface{} {
		return entriesOrSingle(entries(lang))
	}), nil
}

func (tc *transformContext) fieldDateTimeRangeLocation() ([]localizedFragment, error) {
	var dtls []dateTimeRangeLocation

	if decodeList(tc.record.dataVal("date_time_range_location"), &dtls) == false {
		return nil, nil
	}

	entries := func(lang string) []string {
		var out []string

		for _, dtl := range dtls {
			entry := joinNonempty([]string{
				dtl.Date,
				formatTimeRange(dtl.TimeFrom, dtl.TimeTo),
				tc.placePart(dtl.Location, dtl.LocationDescription, lang),
			}, ", ")

			if entry != "" {
				out = append(out, entry)
			}
		}

		return out
	}

	count := len(entries(tc.firstLang()))
	if count == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldDate", count, func(lang string) interface{} {
		return entriesOrSingle(entries(lang))
	}), nil
}

// remaining scalar and concept-valued fields

func (tc *transformContext) fieldCategory() ([]localizedFragment, error) {
	var refs []conceptRef

	if decodeList(tc.record.dataVal("category"), &refs) == false || len(refs) == 0 {
		return nil, nil
	}

	return tc.perLanguage("FieldCategory", len(refs), func(lang string) interface{} {
		return entriesOrSingle(tc.conceptLabels(refs, lang))
	}), nil
}

func (tc *transformContext) fieldFundingCategory() ([]localizedFragment, error) {
	var ref conceptRef

	if decodeList(tc.record.dataVal("funding_category"), &ref) == false || ref.Source == "" {
		return nil, nil
	}

	return tc.perLanguage("FieldFundingCategory", 1, func(lang string) interface{} {
		label := tc.conceptLabel(&ref, lang, false)
		if label == "" {
			return nil
		}
		return label
	}), nil
}

func (tc *transformContext) fieldOpenSourceLicense() ([]localizedFragment, error) {
	var ref conceptRef

	if decodeList(tc.record.dataVal("open_source_license"), &ref) == false || ref.Source == "" {
		return nil, nil
	}

	return tc.perLanguage("FieldLicense", 1, func(lang string) interface{} {
		label := tc.conceptLabel(&ref, lang, false)
		if label == "" {
			return nil
		}
		return label
	}), nil
}

func (tc *transformContext) fieldProgrammingLanguage() ([]localizedFragment, error) {
	return tc.stringField("programming_language", "FieldProgrammingLanguage"), nil
}

func (tc *transformContext) fieldGitURL() ([]localizedFragment, error) {
	return defaultFragment("Git URL", tc.record.dataStr("git_url")), nil
}

func (tc *transformContext) fieldDocumentationURL() ([]localizedFragment, error) {
	return tc.stringField("documentation_url", "FieldDocumentationURL"), nil
}

func (tc *transformContext) fieldSoftwareVersion() ([]localizedFragment, error) {
	return tc.stringField("software_version", "FieldSoftwareVersion"), nil
}

func (tc *transformContext) fieldISBNDOI() ([]localizedFragment, error) {
	var out []localizedFragment

	out = append(out, defaultFragment("ISBN", tc.record.dataStr("isbn"))...)
	out = append(out, defaultFragment("DOI", tc.record.dataStr("doi"))...)

	return out, nil
}

func (tc *transformContext) fieldPublishedIn() ([]localizedFragment, error) {
	return tc.stringField("published_in", "FieldPublishedIn"), nil
}

func (tc *transformContext) fieldVolumeIssuePages() ([]localizedFragment, error) {
	val := joinNonempty([]string{
		tc.record.dataStr("volume"),
		tc.record.dataStr("issue"),
		tc.record.dataStr("pages"),
	}, ", ")

	if val == "" {
		return nil, nil
	}

	return tc.perLanguage("FieldVolumeIssuePages", 1, func(lang string) interface{} { return val }), nil
}

func (tc *transformContext) fieldMaterialFormatDimensions() ([]localizedFragment, error) {
	var material, format []conceptRef

	decodeList(tc.record.dataVal("material"), &material)
	decodeList(tc.record.dataVal("format"), &format)

	dimensions := tc.record.dataStr("dimensions")

	build := func(lang string) string {
		var parts []string

		parts = append(parts, tc.conceptLabels(material, lang)...)
		parts = append(parts, tc.conceptLabels(format, lang)...)
		parts = append(parts, dimensions)

		return joinNonempty(parts, ", ")
	}

	if build(tc.firstLang()) == "" {
		return nil, nil
	}

	return tc.perLanguage("FieldMaterialFormatDimensions", 1, func(lang string) interface{} {
		val := build(lang)
		if val == "" {
			return nil
		}
		return val
	}), nil
}

func (tc *transformContext) fieldDuration() ([]localizedFragment, error) {
	return tc.stringField("duration", "FieldDuration"), nil
}

func (tc *transformContext) firstLang() string {
	if len(tc.langs) > 0 {
		return tc.langs[0]
	}

	return langDefault
}
