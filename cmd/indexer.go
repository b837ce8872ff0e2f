package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// derives the complete search index state for one record: per-language
// full-text rows, discrete date rows, date-range rows, and relevance rows.
// pure with respect to storage; the caller persists via replaceSearchIndex.

const defaultPastWeight = 1.5

type indexContext struct {
	taxo        taxonomy
	langs       []string
	indexFields map[string][]serviceConfigIndexField
	pastWeight  float64
}

func (svc *serviceContext) newIndexContext() *indexContext {
	pastWeight := svc.config.Relevance.PastWeight
	if pastWeight <= 0 {
		pastWeight = defaultPastWeight
	}

	return &indexContext{
		taxo:        svc.vocab,
		langs:       svc.config.Languages,
		indexFields: svc.config.IndexFields,
		pastWeight:  pastWeight,
	}
}

// comma-joined labels of every role holder anywhere in the record
func contributorsLine(raw rawRecord) string {
	var labels []string

	for _, field := range roleFieldNames {
		labels = append(labels, holderLabels(raw.holders(field))...)
	}

	return strings.Join(uniqueStrings(labels), ", ")
}

// the value of one configured schema-specific index field, localized where
// the field is concept-valued
func (ic *indexContext) indexFieldValue(raw rawRecord, field serviceConfigIndexField, lang string) string {
	switch field.Kind {
	case "simple":
		return raw.dataStr(field.Field)

	case "concept":
		var ref conceptRef

		if decodeList(raw.dataVal(field.Field), &ref) == false {
			return ""
		}

		if label := ic.taxo.resolveLabel(ref.Source, lang, false); label != "" {
			return label
		}

		return ref.labelFor(lang)

	case "concept_list":
		var refs []conceptRef

		if decodeList(raw.dataVal(field.Field), &refs) == false {
			return ""
		}

		var labels []string

		for i := range refs {
			if label := refs[i].labelFor(lang); label != "" {
				labels = append(labels, label)
			}
		}

		return strings.Join(labels, ", ")
	}

	return ""
}

func (ic *indexContext) fullText(raw rawRecord, lang string) string {
	var parts []string

	parts = append(parts, raw.str("title"), raw.str("subtitle"))

	for _, block := range raw.texts() {
		for i := range block.Data {
			if block.Data[i].lang() == lang {
				parts = append(parts, block.Data[i].Text)
			}
		}
	}

	parts = append(parts, contributorsLine(raw))

	schema := ""
	if ref := raw.typeRef(); ref != nil {
		schema = ic.taxo.schemaOf(ref.Source)
	}

	for _, field := range ic.indexFields[schema] {
		parts = append(parts, ic.indexFieldValue(raw, field, lang))
	}

	return joinNonempty(parts, "; ")
}

// build all four row kinds for a record.  ref is the relevance reference date,
// normally the current day.
func (ic *indexContext) buildIndexRows(raw rawRecord, objectID uuid.UUID, ref time.Time) indexRows {
	var rows indexRows

	for _, lang := range ic.langs {
		text := ic.fullText(raw, lang)
		if text == "" {
			continue
		}

		rows.texts = append(rows.texts, searchTextRow{
			ObjectID: objectID,
			Language: lang,
			Text:     text,
		})
	}

	ed := extractRecordDates(raw)

	for _, val := range ed.dates {
		d, err := time.Parse(dayFormat, val)
		if err != nil {
			continue
		}

		rows.dates = append(rows.dates, searchDateRow{ObjectID: objectID, Date: d})
	}

	for _, r := range ed.ranges {
		from, fromErr := time.Parse(dayFormat, r[0])
		to, toErr := time.Parse(dayFormat, r[1])

		if fromErr != nil || toErr != nil {
			continue
		}

		rows.ranges = append(rows.ranges, searchDateRangeRow{
			ObjectID: objectID,
			DateFrom: from,
			DateTo:   to,
		})
	}

	// every discrete date and every range endpoint ranks independently
	for _, val := range ed.allDates() {
		rank, err := dateRank(val, ref, ic.pastWeight)
		if err != nil {
			continue
		}

		d, _ := time.Parse(dayFormat, val)

		rows.relevance = append(rows.relevance, searchDateRelevanceRow{
			ObjectID: objectID,
			Date:     d,
			Rank:     rank,
		})
	}

	return rows
}
