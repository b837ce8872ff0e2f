package main

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// raw activity records arrive from source repositories as untyped nested maps.
// typed views of their substructures are decoded on demand; a missing or
// malformed substructure decodes to its zero value and is treated as absent.

type rawRecord map[string]interface{}

type conceptRef struct {
	Source string            `json:"source"`
	Label  map[string]string `json:"label"`
}

type roleHolder struct {
	Label  string       `json:"label"`
	Source string       `json:"source"`
	Roles  []conceptRef `json:"roles"`
}

type textData struct {
	Language conceptRef `json:"language"`
	Text     string     `json:"text"`
}

type textBlock struct {
	Type *conceptRef `json:"type"`
	Data []textData  `json:"data"`
}

type dateLocation struct {
	Date                string       `json:"date"`
	Location            []conceptRef `json:"location"`
	LocationDescription string       `json:"location_description"`
}

type dateRange struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type dateRangeLocation struct {
	DateFrom            string       `json:"date_from"`
	DateTo              string       `json:"date_to"`
	Location            []conceptRef `json:"location"`
	LocationDescription string       `json:"location_description"`
}

type dateTimeRangeLocation struct {
	Date                string       `json:"date"`
	TimeFrom            string       `json:"time_from"`
	TimeTo              string       `json:"time_to"`
	Location            []conceptRef `json:"location"`
	LocationDescription string       `json:"location_description"`
}

type dateRangeTimeRangeLocation struct {
	DateFrom            string       `json:"date_from"`
	DateTo              string       `json:"date_to"`
	TimeFrom            string       `json:"time_from"`
	TimeTo              string       `json:"time_to"`
	Location            []conceptRef `json:"location"`
	LocationDescription string       `json:"location_description"`
}

type dateOpeningLocation struct {
	DateFrom            string                 `json:"date_from"`
	DateTo              string                 `json:"date_to"`
	Opening             *dateTimeRangeLocation `json:"opening"`
	Location            []conceptRef           `json:"location"`
	LocationDescription string                 `json:"location_description"`
}

// the fixed set of role-bearing fields a person can appear in, in scan order
var roleFieldNames = []string{
	"architecture",
	"artists",
	"authors",
	"commissions",
	"composition",
	"conductors",
	"contributors",
	"co_inventors",
	"curators",
	"design",
	"directors",
	"editors",
	"fellow_scholar",
	"funding",
	"granted_by",
	"jury",
	"lecturers",
	"music",
	"organisers",
	"project_lead",
	"project_partnership",
	"publishers",
	"software_developers",
	"winners",
}

func (c *conceptRef) id() string {
	if c == nil || c.Source == "" {
		return ""
	}

	parts := strings.Split(strings.TrimRight(c.Source, "/"), "/")

	return parts[len(parts)-1]
}

func (c *conceptRef) labelFor(lang string) string {
	if c == nil {
		return ""
	}

	if label := c.Label[lang]; label != "" {
		return label
	}

	// fall back to any supplied label rather than dropping the concept
	for _, label := range c.Label {
		if label != "" {
			return label
		}
	}

	return ""
}

func decodeValue(out interface{}, val interface{}) error {
	if val == nil {
		return fmt.Errorf("no value to decode")
	}

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   out,
		TagName:  "json",
	}

	dec, _ := mapstructure.NewDecoder(cfg)

	return dec.Decode(val)
}

func (r rawRecord) str(key string) string {
	if val, ok := r[key].(string); ok == true {
		return val
	}

	return ""
}

func (r rawRecord) data() rawRecord {
	if val, ok := r["data"].(map[string]interface{}); ok == true {
		return rawRecord(val)
	}

	return nil
}

func (r rawRecord) hasData() bool {
	_, ok := r["data"].(map[string]interface{})
	return ok
}

func (r rawRecord) typeRef() *conceptRef {
	var ref conceptRef

	if err := decodeValue(&ref, r["type"]); err != nil {
		return nil
	}

	if ref.Source == "" {
		return nil
	}

	return &ref
}

func (r rawRecord) keywords() []conceptRef {
	var refs []conceptRef

	if err := decodeValue(&refs, r["keywords"]); err != nil {
		return nil
	}

	return refs
}

func (r rawRecord) texts() []textBlock {
	var blocks []textBlock

	if err := decodeValue(&blocks, r["texts"]); err != nil {
		return nil
	}

	return blocks
}

func (r rawRecord) holders(field string) []roleHolder {
	data := r.data()
	if data == nil {
		return nil
	}

	var hh []roleHolder

	if err := decodeValue(&hh, data[field]); err != nil {
		return nil
	}

	return hh
}

func (r rawRecord) dataStr(field string) string {
	data := r.data()
	if data == nil {
		return ""
	}

	return data.str(field)
}

func (r rawRecord) dataVal(field string) interface{} {
	data := r.data()
	if data == nil {
		return nil
	}

	return data[field]
}

// language id of a localized text entry, e.g. ".../languages/en" => "en"
func (t *textData) lang() string {
	ref := t.Language
	return ref.id()
}
