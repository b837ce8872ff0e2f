package main

// the activity-list rule engine.  given a raw record and a person, determine
// which named list bucket(s) the record belongs to, from the record's type
// concept (collection membership in the taxonomy) and the person's roles in
// the record.  classification is a pure function of (record, person, taxonomy
// snapshot).

const roleContributor = "contributor"

const categoryGeneralActivity = "general_activity"

type bucketKey struct {
	category string
	sub      string
}

// every role the person holds anywhere in the record.  a matching holder
// without explicit roles implicitly contributes as "contributor".
func getUserRoles(rec rawRecord, personID string) []string {
	var roles []string

	for _, field := range roleFieldNames {
		for _, h := range rec.holders(field) {
			ref := conceptRef{Source: h.Source}

			if h.Source != personID && ref.id() != personID {
				continue
			}

			if len(h.Roles) == 0 {
				roles = append(roles, roleContributor)
				continue
			}

			for i := range h.Roles {
				if id := h.Roles[i].id(); id != "" {
					roles = append(roles, id)
				}
			}
		}
	}

	return uniqueStrings(roles)
}

type categoryRule struct {
	category    string
	sub         string
	collections []string // collection keys; membership of the type concept in any qualifies
	roles       []string // role filter for the collection path; empty = any role
	suffixes    []string // alternate match on the type concept's id suffix
	suffixRoles []string // role filter for the suffix path; empty = any role
}

// rules are evaluated in this fixed order.  collection keys are resolved to
// vocabulary collection names through the service configuration.
var categoryRules = []categoryRule{
	{category: "document_publication", sub: "monograph", collections: []string{"monographs"}, roles: []string{"author", "editor"}},
	{category: "document_publication", sub: "composite_volume", collections: []string{"composite_volumes"}, roles: []string{"editor"}},
	{category: "document_publication", sub: "article", collections: []string{"articles"}, roles: []string{"author", "editor"}},
	{category: "document_publication", sub: "chapter", collections: []string{"chapters"}, roles: []string{"author"}},
	{category: "document_publication", sub: "review", collections: []string{"reviews"}, roles: []string{"author"}},
	{category: "document_publication", sub: "general_document_publication", collections: []string{"general_documents_publications"}},
	{category: "research_project", collections: []string{"research_projects"}},
	{category: "awards_and_grants", collections: []string{"awards_and_grants"}},
	{category: "fellowship_visiting_affiliation", collections: []string{"fellowships_visiting_affiliations"}},
	{category: "exhibition", collections: []string{"exhibitions"}, roles: []string{"artist", "curator"}},
	{category: "teaching", sub: "university_teaching", collections: []string{"university_teaching"}, roles: []string{"lecturer"}},
	{category: "teaching", sub: "continuing_education", collections: []string{"continuing_education"}, roles: []string{"lecturer"}},
	{category: "conference_symposium", collections: []string{"conferences_symposiums"}, roles: []string{"organiser", "organisation"}},
	{category: "conference_contribution", collections: []string{"conference_contributions"}, roles: []string{"lecturer", "speaker", "discussant", "panelist"}},
	{category: "architecture", collections: []string{"architectures"}},
	{category: "audio", collections: []string{"audios"}},
	{category: "concert", collections: []string{"concerts"}, roles: []string{"musician", "conductor", "composition"}},
	{category: "design", collections: []string{"designs"}},
	{category: "education_qualification", collections: []string{"educations_qualifications"}},
	{category: "functions_practice", sub: "membership", collections: []string{"memberships"}},
	{category: "functions_practice", sub: "expert_function", collections: []string{"expert_functions"}},
	{category: "functions_practice", sub: "journalistic_activity", collections: []string{"journalistic_activities"}},
	{category: "functions_practice", sub: "consulting", collections: []string{"consultings"}},
	{category: "festival", collections: []string{"festivals"}, roles: []string{"artist", "curator", "organiser"}},
	{category: "film_video", collections: []string{"films_videos"}},
	{
		category:    "public_appearance",
		collections: []string{"public_appearances"},
		suffixes:    []string{"discussion", "panel", "roundtable"},
		suffixRoles: []string{"lecturer", "speaker", "discussant", "panelist", "moderation"},
	},
	{category: "performance", collections: []string{"performances"}, roles: []string{"artist"}},
	{category: "sculpture", collections: []string{"sculptures"}},
	{category: "software", collections: []string{"software"}},
	{category: "science_to_public", sub: "public_lecture", collections: []string{"public_lectures"}, roles: []string{"lecturer", "speaker"}},
	{category: "science_to_public", sub: "participation", collections: []string{"science_participations"}},
	{category: "science_to_public", sub: "science_communication", collections: []string{"science_communications"}},
	{category: "science_to_public", sub: "research_public", collections: []string{"research_public"}},
}

// collection keys whose membership marks a record as science_to_public, and
// the categories such a record is excluded from even when it would match
var scienceToPublicCollections = []string{
	"public_lectures",
	"science_participations",
	"science_communications",
	"research_public",
}

var scienceToPublicExcludes = []string{
	"document_publication",
	"exhibition",
	"conference_symposium",
	"audio",
	"film_video",
}

type classifyContext struct {
	taxo        taxonomy
	collections map[string]string
}

func (svc *serviceContext) newClassifyContext() *classifyContext {
	return &classifyContext{
		taxo:        svc.vocab,
		collections: svc.config.Collections,
	}
}

// resolve a collection key to the configured vocabulary collection name,
// defaulting to the key itself
func (cc *classifyContext) collection(key string) string {
	if name := cc.collections[key]; name != "" {
		return name
	}

	return key
}

func (cc *classifyContext) inAnyCollection(conceptURI string, keys []string) bool {
	for _, key := range keys {
		if cc.taxo.conceptInCollection(conceptURI, cc.collection(key)) == true {
			return true
		}
	}

	return false
}

func rolesAllowed(allowed, roles []string) bool {
	if len(allowed) == 0 {
		return true
	}

	return sliceContainsAnyValueFromSlice(roles, allowed, true)
}

func (cc *classifyContext) ruleMatches(rule *categoryRule, typeURI, typeID string, roles []string) bool {
	if typeURI != "" && cc.inAnyCollection(typeURI, rule.collections) == true {
		if rolesAllowed(rule.roles, roles) == true {
			return true
		}
	}

	if typeID != "" && len(rule.suffixes) > 0 && hasAnySuffix(typeID, rule.suffixes) == true {
		if rolesAllowed(rule.suffixRoles, roles) == true {
			return true
		}
	}

	return false
}

// classify one record for one person.  an empty result means the person holds
// no role in the record; any role at all guarantees at least general_activity.
func (cc *classifyContext) classify(rec rawRecord, personID string) []bucketKey {
	roles := getUserRoles(rec, personID)
	if len(roles) == 0 {
		return nil
	}

	typeURI := ""
	typeID := ""

	if ref := rec.typeRef(); ref != nil {
		typeURI = ref.Source
		typeID = ref.id()
	}

	var buckets []bucketKey

	for i := range categoryRules {
		rule := &categoryRules[i]

		if cc.ruleMatches(rule, typeURI, typeID, roles) == true {
			buckets = append(buckets, bucketKey{category: rule.category, sub: rule.sub})
		}
	}

	if typeURI != "" && cc.inAnyCollection(typeURI, scienceToPublicCollections) == true {
		buckets = dropCategories(buckets, scienceToPublicExcludes)
	}

	if len(buckets) == 0 {
		buckets = []bucketKey{{category: categoryGeneralActivity}}
	}

	return buckets
}

func dropCategories(buckets []bucketKey, categories []string) []bucketKey {
	var kept []bucketKey

	for _, b := range buckets {
		if sliceContainsString(categories, b.category, false) == false {
			kept = append(kept, b)
		}
	}

	return kept
}

// deduplicate a person's activity set by record identity before
// classification.  linear scan; per-person sets are small.
func dedupeActivities(recs []activityRecord) []activityRecord {
	var uniq []activityRecord

	for _, rec := range recs {
		found := false

		for i := range uniq {
			if uniq[i].ID == rec.ID {
				found = true
				break
			}
		}

		if found == false {
			uniq = append(uniq, rec)
		}
	}

	return uniq
}
