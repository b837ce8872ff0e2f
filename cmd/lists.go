package main

import (
	"encoding/json"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// renders a person's classified activities into the localized list display
// shape: category -> language -> CommonList, with nested sub-lists for the
// sub-categorized families.

// fixed top-level rendering order
var listCategoryOrder = []string{
	"document_publication",
	"research_project",
	"awards_and_grants",
	"fellowship_visiting_affiliation",
	"exhibition",
	"teaching",
	"conference_symposium",
	"conference_contribution",
	"architecture",
	"audio",
	"concert",
	"design",
	"education_qualification",
	"functions_practice",
	"festival",
	"film_video",
	"public_appearance",
	"performance",
	"sculpture",
	"software",
	"science_to_public",
	categoryGeneralActivity,
}

var categoryLabelXIDs = map[string]string{
	"document_publication":            "ListDocumentPublication",
	"monograph":                       "ListMonograph",
	"composite_volume":                "ListCompositeVolume",
	"article":                         "ListArticle",
	"chapter":                         "ListChapter",
	"review":                          "ListReview",
	"general_document_publication":    "ListGeneralDocumentPublication",
	"research_project":                "ListResearchProject",
	"awards_and_grants":               "ListAwardsAndGrants",
	"fellowship_visiting_affiliation": "ListFellowshipVisitingAffiliation",
	"exhibition":                      "ListExhibition",
	"teaching":                        "ListTeaching",
	"university_teaching":             "ListUniversityTeaching",
	"continuing_education":            "ListContinuingEducation",
	"conference_symposium":            "ListConferenceSymposium",
	"conference_contribution":         "ListConferenceContribution",
	"architecture":                    "ListArchitecture",
	"audio":                           "ListAudio",
	"concert":                         "ListConcert",
	"design":                          "ListDesign",
	"education_qualification":         "ListEducationQualification",
	"functions_practice":              "ListFunctionsPractice",
	"membership":                      "ListMembership",
	"expert_function":                 "ListExpertFunction",
	"journalistic_activity":           "ListJournalisticActivity",
	"consulting":                      "ListConsulting",
	"festival":                        "ListFestival",
	"film_video":                      "ListFilmVideo",
	"public_appearance":               "ListPublicAppearance",
	"performance":                     "ListPerformance",
	"sculpture":                       "ListSculpture",
	"software":                        "ListSoftware",
	"science_to_public":               "ListScienceToPublic",
	"public_lecture":                  "ListPublicLecture",
	"participation":                   "ListParticipation",
	"science_communication":           "ListScienceCommunication",
	"research_public":                 "ListResearchPublic",
	categoryGeneralActivity:           "ListGeneralActivity",
}

type listEntry struct {
	rec  *activityRecord
	raw  rawRecord
	date string
}

type listContext struct {
	svc   *serviceContext
	taxo  taxonomy
	cc    *classifyContext
	langs []string
}

func (svc *serviceContext) newListContext() *listContext {
	return &listContext{
		svc:   svc,
		taxo:  svc.vocab,
		cc:    svc.newClassifyContext(),
		langs: svc.config.Languages,
	}
}

func (lc *listContext) categoryLabel(key, lang string) string {
	xid := categoryLabelXIDs[key]
	if xid == "" {
		return key
	}

	localizer := lc.svc.localizerFor(lang)

	label, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: xid})
	if err != nil {
		return key
	}

	return label
}

// localized labels of the person's roles in a record; an implicit contributor
// renders with the static contributor label
func (lc *listContext) personRoleLabels(raw rawRecord, personID, lang string) []string {
	var labels []string

	for _, field := range roleFieldNames {
		for _, h := range raw.holders(field) {
			ref := conceptRef{Source: h.Source}

			if h.Source != personID && ref.id() != personID {
				continue
			}

			if len(h.Roles) == 0 {
				labels = append(labels, lc.categoryLabelFallback("RoleContributor", lang))
				continue
			}

			for i := range h.Roles {
				if label := h.Roles[i].labelFor(lang); label != "" {
					labels = append(labels, label)
				}
			}
		}
	}

	return uniqueStrings(labels)
}

func (lc *listContext) categoryLabelFallback(xid, lang string) string {
	localizer := lc.svc.localizerFor(lang)

	label, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: xid})
	if err != nil {
		return xid
	}

	return label
}

// place labels across every date-bearing shape of the record
func recordLocationLabels(raw rawRecord, lang string) []string {
	var locations [][]conceptRef

	var dls []dateLocation
	if decodeList(raw.dataVal("date_location"), &dls) == true {
		for _, dl := range dls {
			locations = append(locations, dl.Location)
		}
	}

	var dols []dateOpeningLocation
	if decodeList(raw.dataVal("date_opening_location"), &dols) == true {
		for _, dol := range dols {
			locations = append(locations, dol.Location)
		}
	}

	var drls []dateRangeLocation
	if decodeList(raw.dataVal("date_range_location"), &drls) == true {
		for _, drl := range drls {
			locations = append(locations, drl.Location)
		}
	}

	var drtls []dateRangeTimeRangeLocation
	if decodeList(raw.dataVal("date_range_time_range_location"), &drtls) == true {
		for _, drtl := range drtls {
			locations = append(locations, drtl.Location)
		}
	}

	var dtls []dateTimeRangeLocation
	if decodeList(raw.dataVal("date_time_range_location"), &dtls) == true {
		for _, dtl := range dtls {
			locations = append(locations, dtl.Location)
		}
	}

	return locationLabels(locations, lang)
}

// the distinct years of every date attached to the record, in extraction order
func recordYears(raw rawRecord) []string {
	var years []string

	ed := extractRecordDates(raw)

	for _, val := range ed.allDates() {
		if len(val) >= 4 {
			years = append(years, val[:4])
		}
	}

	return uniqueStrings(years)
}

func (lc *listContext) renderItem(entry *listEntry, personID, lang string) commonListItem {
	item := commonListItem{
		Value:  entry.rec.Title,
		Source: entry.rec.ID.String(),
	}

	var attr1 string

	typeLabel := ""
	if ref := entry.raw.typeRef(); ref != nil {
		typeLabel = lc.conceptLabelOf(ref, lang)
	}

	switch {
	case entry.rec.Subtitle != "" && typeLabel != "":
		attr1 = entry.rec.Subtitle + " (" + typeLabel + ")"
	case entry.rec.Subtitle != "":
		attr1 = entry.rec.Subtitle
	default:
		attr1 = typeLabel
	}

	attr2 := joinNonempty([]string{
		joinNonempty(lc.personRoleLabels(entry.raw, personID, lang), ", "),
		joinNonempty(recordLocationLabels(entry.raw, lang), ", "),
		joinNonempty(recordYears(entry.raw), ", "),
	}, ", ")

	item.Attributes = nonemptyValues([]string{attr1, attr2})

	return item
}

func (lc *listContext) conceptLabelOf(ref *conceptRef, lang string) string {
	if label := lc.taxo.resolveLabel(ref.Source, lang, false); label != "" {
		return label
	}

	return ref.labelFor(lang)
}

// newest first; records without any date sort last
func sortListEntries(entries []listEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a := entries[i].date
		b := entries[j].date

		if a == "" {
			return false
		}

		if b == "" {
			return true
		}

		return a > b
	})
}

// build the complete list structure for a person from their deduplicated
// activity set: category -> language -> CommonList
func (lc *listContext) renderLists(recs []activityRecord, personID string) map[string]map[string]commonList {
	recs = dedupeActivities(recs)

	buckets := make(map[bucketKey][]listEntry)

	for i := range recs {
		rec := &recs[i]

		var raw rawRecord
		if err := json.Unmarshal(rec.Raw, &raw); err != nil {
			continue
		}

		for _, key := range lc.cc.classify(raw, personID) {
			buckets[key] = append(buckets[key], listEntry{
				rec:  rec,
				raw:  raw,
				date: mostRelevantDate(raw),
			})
		}
	}

	for key := range buckets {
		entries := buckets[key]
		sortListEntries(entries)
		buckets[key] = entries
	}

	out := make(map[string]map[string]commonList)

	for _, category := range listCategoryOrder {
		subs := subcategoriesOf(category)

		for _, lang := range lc.langs {
			var data []interface{}

			if len(subs) == 0 {
				for i := range buckets[bucketKey{category: category}] {
					entry := buckets[bucketKey{category: category}][i]
					data = append(data, lc.renderItem(&entry, personID, lang))
				}
			} else {
				for _, sub := range subs {
					entries := buckets[bucketKey{category: category, sub: sub}]
					if len(entries) == 0 {
						continue
					}

					var subData []interface{}
					for i := range entries {
						subData = append(subData, lc.renderItem(&entries[i], personID, lang))
					}

					data = append(data, commonList{
						Label: lc.categoryLabel(sub, lang),
						Data:  subData,
					})
				}
			}

			if len(data) == 0 {
				continue
			}

			if out[category] == nil {
				out[category] = make(map[string]commonList)
			}

			out[category][lang] = commonList{
				Label: lc.categoryLabel(category, lang),
				Data:  data,
			}
		}
	}

	return out
}

// sub-categories of a category in rule order; empty for flat categories
func subcategoriesOf(category string) []string {
	var subs []string

	for i := range categoryRules {
		rule := &categoryRules[i]

		if rule.category != category || rule.sub == "" {
			continue
		}

		if sliceContainsString(subs, rule.sub, false) == false {
			subs = append(subs, rule.sub)
		}
	}

	return subs
}
