package main

import (
	"strings"
)

// the two standard localized display shapes consumed by the presentation layer

type commonTextObject struct {
	Label      string `json:"label"`
	Value      string `json:"value"`
	URL        string `json:"url,omitempty"`
	Source     string `json:"source,omitempty"`
	Additional string `json:"additional,omitempty"`
}

// data holds exactly one of: string, []string, []commonTextObject
type commonText struct {
	Label string      `json:"label"`
	Data  interface{} `json:"data"`
}

// one display fragment, keyed by language (or "default" when language-independent)
type localizedFragment map[string]commonText

type commonListItem struct {
	Value      string   `json:"value"`
	Source     string   `json:"source,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
}

// data holds commonListItem entries, or nested commonList values for
// sub-categorized lists (one level deep)
type commonList struct {
	Label string        `json:"label"`
	Data  []interface{} `json:"data"`
}

type displayStructure struct {
	PrimaryDetails   []localizedFragment `json:"primary_details"`
	SecondaryDetails []localizedFragment `json:"secondary_details"`
	List             []localizedFragment `json:"list"`
}

const langDefault = "default"

func joinNonempty(parts []string, sep string) string {
	return strings.Join(nonemptyValues(parts), sep)
}

// comma-joined holder labels, e.g. "Jane Doe, Studio XYZ"
func holderLabels(holders []roleHolder) []string {
	var labels []string

	for _, h := range holders {
		if h.Label != "" {
			labels = append(labels, h.Label)
		}
	}

	return labels
}

// localized place labels across a set of location lists, deduplicated in order
func locationLabels(locations [][]conceptRef, lang string) []string {
	var labels []string

	seen := make(map[string]bool)

	for _, list := range locations {
		for i := range list {
			label := list[i].labelFor(lang)

			if label == "" || seen[label] == true {
				continue
			}

			labels = append(labels, label)
			seen[label] = true
		}
	}

	return labels
}
