package main

import (
	"testing"
)

func testClassifyContext(taxo taxonomy) *classifyContext {
	return &classifyContext{taxo: taxo, collections: map[string]string{}}
}

func TestImplicitContributorRole(t *testing.T) {
	rec := rawRecord{
		"data": map[string]interface{}{
			"contributors": []interface{}{
				map[string]interface{}{"label": "Jane Doe", "source": "jane"},
			},
		},
	}

	roles := getUserRoles(rec, "jane")

	if len(roles) != 1 || roles[0] != roleContributor {
		t.Errorf("expected [contributor], got %v", roles)
	}
}

func TestRolesCollectedAcrossFields(t *testing.T) {
	rec := rawRecord{
		"data": map[string]interface{}{
			"authors": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "https://repo.example.org/entities/jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/author"},
					},
				},
			},
			"editors": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "https://repo.example.org/entities/jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/editor"},
					},
				},
			},
		},
	}

	roles := getUserRoles(rec, "jane")

	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", roles)
	}

	if sliceContainsString(roles, "author", false) == false || sliceContainsString(roles, "editor", false) == false {
		t.Errorf("unexpected roles: %v", roles)
	}
}

func TestNoRoleMeansNotEligible(t *testing.T) {
	cc := testClassifyContext(&fakeTaxonomy{})

	rec := rawRecord{"data": map[string]interface{}{}}

	if buckets := cc.classify(rec, "jane"); buckets != nil {
		t.Errorf("expected no buckets for uninvolved person, got %v", buckets)
	}
}

func TestCatchAllCompleteness(t *testing.T) {
	cc := testClassifyContext(&fakeTaxonomy{})

	rec := rawRecord{
		"type": map[string]interface{}{"source": "https://vocab.example.org/concepts/mystery"},
		"data": map[string]interface{}{
			"contributors": []interface{}{
				map[string]interface{}{"label": "Jane Doe", "source": "jane"},
			},
		},
	}

	buckets := cc.classify(rec, "jane")

	if len(buckets) != 1 || buckets[0].category != categoryGeneralActivity {
		t.Errorf("expected general_activity catch-all, got %v", buckets)
	}
}

func TestMonographClassification(t *testing.T) {
	typeURI := "https://vocab.example.org/concepts/monograph"

	taxo := &fakeTaxonomy{
		collections: map[string][]string{
			"monographs": {typeURI},
		},
	}

	cc := testClassifyContext(taxo)

	rec := rawRecord{
		"type": map[string]interface{}{"source": typeURI},
		"data": map[string]interface{}{
			"authors": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/author"},
					},
				},
			},
		},
	}

	buckets := cc.classify(rec, "jane")

	want := bucketKey{category: "document_publication", sub: "monograph"}

	if len(buckets) != 1 || buckets[0] != want {
		t.Errorf("expected %v, got %v", want, buckets)
	}
}

// a science_to_public record never lands in the excluded categories, no
// matter which other collections contain its type
func TestScienceToPublicExclusivity(t *testing.T) {
	typeURI := "https://vocab.example.org/concepts/public-lecture"

	taxo := &fakeTaxonomy{
		collections: map[string][]string{
			"public_lectures":        {typeURI},
			"conferences_symposiums": {typeURI},
			"exhibitions":            {typeURI},
			"films_videos":           {typeURI},
		},
	}

	cc := testClassifyContext(taxo)

	rec := rawRecord{
		"type": map[string]interface{}{"source": typeURI},
		"data": map[string]interface{}{
			"lecturers": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/lecturer"},
					},
				},
			},
			"organisers": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/organiser"},
					},
				},
			},
			"artists": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/artist"},
					},
				},
			},
		},
	}

	buckets := cc.classify(rec, "jane")

	for _, b := range buckets {
		if sliceContainsString(scienceToPublicExcludes, b.category, false) == true {
			t.Errorf("science_to_public record classified into excluded category %s", b.category)
		}
	}

	want := bucketKey{category: "science_to_public", sub: "public_lecture"}

	if len(buckets) == 0 || sliceContainsBucket(buckets, want) == false {
		t.Errorf("expected %v in %v", want, buckets)
	}
}

func sliceContainsBucket(buckets []bucketKey, want bucketKey) bool {
	for _, b := range buckets {
		if b == want {
			return true
		}
	}

	return false
}

// discussion/panel/roundtable short labels classify as public_appearance even
// without collection membership
func TestPublicAppearanceSuffixRule(t *testing.T) {
	cc := testClassifyContext(&fakeTaxonomy{})

	rec := rawRecord{
		"type": map[string]interface{}{"source": "https://vocab.example.org/concepts/podium-discussion"},
		"data": map[string]interface{}{
			"lecturers": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/speaker"},
					},
				},
			},
		},
	}

	buckets := cc.classify(rec, "jane")

	want := bucketKey{category: "public_appearance"}

	if sliceContainsBucket(buckets, want) == false {
		t.Errorf("expected public_appearance, got %v", buckets)
	}
}

func TestClassificationIsDeterministic(t *testing.T) {
	typeURI := "https://vocab.example.org/concepts/monograph"

	taxo := &fakeTaxonomy{
		collections: map[string][]string{"monographs": {typeURI}},
	}

	cc := testClassifyContext(taxo)

	rec := rawRecord{
		"type": map[string]interface{}{"source": typeURI},
		"data": map[string]interface{}{
			"authors": []interface{}{
				map[string]interface{}{
					"label":  "Jane Doe",
					"source": "jane",
					"roles": []interface{}{
						map[string]interface{}{"source": "https://vocab.example.org/roles/author"},
					},
				},
			},
		},
	}

	first := cc.classify(rec, "jane")

	for i := 0; i < 10; i++ {
		if got := cc.classify(rec, "jane"); len(got) != len(first) || got[0] != first[0] {
			t.Fatalf("classification differs between runs: %v vs %v", first, got)
		}
	}
}
