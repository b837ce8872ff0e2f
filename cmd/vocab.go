package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

// lookups against the external vocabulary service.  responses are cached
// per-process with a time-based TTL; concurrent refills may race and
// redundantly re-fetch, which is harmless (read-only, idempotent).
// an unreachable service degrades to empty labels / empty membership.

type vocabConcept struct {
	Source    string            `json:"source"`
	PrefLabel map[string]string `json:"pref_label"`
	AltLabel  map[string]string `json:"alt_label"`
}

type vocabCollectionResponse struct {
	Concepts []vocabConcept `json:"concepts"`
}

type vocabContext struct {
	client  *http.Client
	host    string
	cache   *cache.Cache
	ttl     time.Duration
	schemas []serviceConfigSchema
}

func initializeVocab(cfg *serviceConfigVocabulary, schemas []serviceConfigSchema) *vocabContext {
	connTimeout := timeoutWithMinimum(cfg.ConnTimeout, 5)
	readTimeout := timeoutWithMinimum(cfg.ReadTimeout, 5)

	client := &http.Client{
		Timeout: time.Duration(readTimeout) * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   time.Duration(connTimeout) * time.Second,
				KeepAlive: 60 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ttlHours := cfg.CacheTTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}

	ttl := time.Duration(ttlHours) * time.Hour

	v := &vocabContext{
		client:  client,
		host:    cfg.Host,
		cache:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		schemas: schemas,
	}

	return v
}

func (v *vocabContext) get(reqURL string, out interface{}) error {
	req, reqErr := http.NewRequest("GET", reqURL, nil)
	if reqErr != nil {
		return reqErr
	}

	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, resErr := v.client.Do(req)
	elapsedMS := int64(time.Since(start) / time.Millisecond)

	if resErr != nil {
		log.Printf("[VOCAB] ERROR: failed response from GET %s: %s. Elapsed Time: %d (ms)", reqURL, resErr.Error(), elapsedMS)
		return resErr
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Printf("[VOCAB] ERROR: unexpected status from GET %s: %d. Elapsed Time: %d (ms)", reqURL, res.StatusCode, elapsedMS)
		return fmt.Errorf("vocabulary service returned status %d", res.StatusCode)
	}

	decoder := json.NewDecoder(res.Body)

	if decErr := decoder.Decode(out); decErr != nil {
		log.Printf("[VOCAB] ERROR: failed to decode response from GET %s: %s", reqURL, decErr.Error())
		return decErr
	}

	return nil
}

// all member concepts of a vocabulary collection, through the cache
func (v *vocabContext) collectionConcepts(collection string) []vocabConcept {
	key := fmt.Sprintf("collection:%s", collection)

	if cached, found := v.cache.Get(key); found == true {
		return cached.([]vocabConcept)
	}

	var res vocabCollectionResponse

	reqURL := fmt.Sprintf("%s/api/v1/collections/%s/concepts", v.host, url.PathEscape(collection))

	if err := v.get(reqURL, &res); err != nil {
		// degrade to empty membership; not cached, so the next call retries
		return nil
	}

	v.cache.Set(key, res.Concepts, v.ttl)

	return res.Concepts
}

func (v *vocabContext) collectionMembers(collection string) []string {
	var members []string

	for _, c := range v.collectionConcepts(collection) {
		members = append(members, c.Source)
	}

	return members
}

func (v *vocabContext) conceptInCollection(conceptURI, collection string) bool {
	if conceptURI == "" || collection == "" {
		return false
	}

	return sliceContainsString(v.collectionMembers(collection), conceptURI, false)
}

func (v *vocabContext) conceptInAnyCollection(conceptURI string, collections []string) bool {
	for _, collection := range collections {
		if v.conceptInCollection(conceptURI, collection) == true {
			return true
		}
	}

	return false
}

// the owning schema of a concept: first configured schema whose collection
// contains it, in configured order
func (v *vocabContext) schemaOf(conceptURI string) string {
	if conceptURI == "" {
		return ""
	}

	for _, schema := range v.schemas {
		if v.conceptInCollection(conceptURI, schema.Collection) == true {
			return schema.Name
		}
	}

	return ""
}

func (v *vocabContext) concept(conceptURI string) *vocabConcept {
	key := fmt.Sprintf("concept:%s", conceptURI)

	if cached, found := v.cache.Get(key); found == true {
		if c, ok := cached.(*vocabConcept); ok == true {
			return c
		}

		return nil
	}

	var c vocabConcept

	reqURL := fmt.Sprintf("%s/api/v1/concepts?uri=%s", v.host, url.QueryEscape(conceptURI))

	if err := v.get(reqURL, &c); err != nil {
		return nil
	}

	v.cache.Set(key, &c, v.ttl)

	return &c
}

// localized label for a concept.  preferAlt selects the alternate (plural)
// label, used whenever multiple items are summarized under one label.
func (v *vocabContext) resolveLabel(conceptURI, lang string, preferAlt bool) string {
	c := v.concept(conceptURI)
	if c == nil {
		return ""
	}

	if preferAlt == true {
		if label := c.AltLabel[lang]; label != "" {
			return label
		}
	}

	return c.PrefLabel[lang]
}

// warm the per-schema membership lists so schema resolution works from the
// first pushed record
func (v *vocabContext) warm() {
	for _, schema := range v.schemas {
		members := v.collectionMembers(schema.Collection)
		log.Printf("[VOCAB] schema [%s]: %d member concepts", schema.Name, len(members))
	}
}
