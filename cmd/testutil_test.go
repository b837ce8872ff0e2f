package main

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// shared fixtures: an offline service context, a canned taxonomy, and a
// canned repository-entry resolver

func newTestService(t *testing.T) *serviceContext {
	t.Helper()

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"../i18n/en.toml", "../i18n/de.toml"} {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			t.Fatalf("failed to load translation file %s: %s", file, err.Error())
		}
	}

	return &serviceContext{
		config: &serviceConfig{
			Languages:   []string{"en", "de"},
			Collections: map[string]string{},
		},
		translations: bundle,
		log:          zap.NewNop().Sugar(),
	}
}

func newTestClient(t *testing.T) *clientContext {
	t.Helper()

	return &clientContext{lang: "en", log: zap.NewNop().Sugar()}
}

type fakeTaxonomy struct {
	prefLabels  map[string]map[string]string
	altLabels   map[string]map[string]string
	collections map[string][]string
	schemas     []serviceConfigSchema
}

func (f *fakeTaxonomy) resolveLabel(conceptURI, lang string, preferAlt bool) string {
	if preferAlt == true {
		if label := f.altLabels[conceptURI][lang]; label != "" {
			return label
		}
	}

	return f.prefLabels[conceptURI][lang]
}

func (f *fakeTaxonomy) conceptInCollection(conceptURI, collection string) bool {
	return sliceContainsString(f.collections[collection], conceptURI, false)
}

func (f *fakeTaxonomy) conceptInAnyCollection(conceptURI string, collections []string) bool {
	for _, collection := range collections {
		if f.conceptInCollection(conceptURI, collection) == true {
			return true
		}
	}

	return false
}

func (f *fakeTaxonomy) schemaOf(conceptURI string) string {
	for _, schema := range f.schemas {
		if f.conceptInCollection(conceptURI, schema.Collection) == true {
			return schema.Name
		}
	}

	return ""
}

type fakeEntries map[string]string

func (f fakeEntries) entryTitle(source string) (string, bool) {
	title, ok := f[source]
	return title, ok
}

func newTestTransformContext(t *testing.T, rec rawRecord, schema string, taxo taxonomy, entries entryResolver) *transformContext {
	t.Helper()

	svc := newTestService(t)

	if taxo == nil {
		taxo = &fakeTaxonomy{}
	}

	if entries == nil {
		entries = fakeEntries{}
	}

	return &transformContext{
		svc:     svc,
		taxo:    taxo,
		entries: entries,
		record:  rec,
		schema:  schema,
		langs:   svc.config.Languages,
	}
}

const softwareTypeURI = "https://vocab.example.org/concepts/software"

// a software record with two developers, one of them known internally
func softwareRecord() rawRecord {
	return rawRecord{
		"source_repo":           "repo-a",
		"source_repo_object_id": "obj-1",
		"entity_id":             "jane",
		"title":                 "Pattern Engine",
		"subtitle":              "a generative toolkit",
		"type": map[string]interface{}{
			"source": softwareTypeURI,
			"label":  map[string]interface{}{"en": "Software", "de": "Software"},
		},
		"keywords": []interface{}{
			map[string]interface{}{
				"source": "https://vocab.example.org/concepts/generative-art",
				"label":  map[string]interface{}{"en": "Generative Art", "de": "Generative Kunst"},
			},
		},
		"texts": []interface{}{
			map[string]interface{}{
				"type": map[string]interface{}{
					"source": "https://vocab.example.org/concepts/description",
					"label":  map[string]interface{}{"en": "Description", "de": "Beschreibung"},
				},
				"data": []interface{}{
					map[string]interface{}{
						"language": map[string]interface{}{"source": "https://vocab.example.org/languages/en"},
						"text":     "An engine for patterns.",
					},
					map[string]interface{}{
						"language": map[string]interface{}{"source": "https://vocab.example.org/languages/de"},
						"text":     "Eine Engine für Muster.",
					},
				},
			},
		},
		"data": map[string]interface{}{
			"date": "2021",
			"url":  "https://example.org/pattern-engine",
			"software_developers": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{
							"source": "https://vocab.example.org/roles/software_developer",
							"label":  map[string]interface{}{"en": "Software Developer"},
						},
					},
				},
				map[string]interface{}{
					"label": "External Collaborator",
				},
			},
			"contributors": []interface{}{
				map[string]interface{}{"label": "Sam Helper", "source": "sam"},
			},
			"programming_language": "Go",
			"git_url":              "https://git.example.org/pattern-engine",
			"software_version":     "2.1.0",
		},
	}
}
