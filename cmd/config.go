package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"sort"
	"strings"
)

type serviceConfigService struct {
	Port string `json:"port,omitempty"`
}

type serviceConfigDB struct {
	Host    string `json:"host,omitempty"`
	Port    string `json:"port,omitempty"`
	User    string `json:"user,omitempty"`
	Pass    string `json:"pass,omitempty"`
	Name    string `json:"name,omitempty"`
	SSLMode string `json:"sslmode,omitempty"`
}

type serviceConfigRedis struct {
	Addr            string `json:"addr,omitempty"`
	DB              int    `json:"db,omitempty"`
	Queue           string `json:"queue,omitempty"`
	DebounceSeconds int    `json:"debounce_seconds,omitempty"`
	PollSeconds     int    `json:"poll_seconds,omitempty"`
}

type serviceConfigVocabulary struct {
	Host          string `json:"host,omitempty"`
	ConnTimeout   string `json:"conn_timeout,omitempty"`
	ReadTimeout   string `json:"read_timeout,omitempty"`
	CacheTTLHours int    `json:"cache_ttl_hours,omitempty"`
}

type serviceConfigProfile struct {
	Host        string `json:"host,omitempty"`
	ConnTimeout string `json:"conn_timeout,omitempty"`
	ReadTimeout string `json:"read_timeout,omitempty"`
}

// one active schema: the source-system category plus the vocabulary collection
// whose member concepts select it.  order matters; schema resolution returns
// the first collection containing the record's type concept.
type serviceConfigSchema struct {
	Name       string `json:"name,omitempty"`
	Collection string `json:"collection,omitempty"`
}

// schema-specific search index contribution.  kind is a controlled vocabulary:
// "simple" reads a plain string from data, "concept" a single concept label,
// "concept_list" every label of a concept list.
type serviceConfigIndexField struct {
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type serviceConfigRelevance struct {
	PastWeight float64 `json:"past_weight,omitempty"`
}

type serviceConfig struct {
	Service     serviceConfigService               `json:"service,omitempty"`
	DB          serviceConfigDB                    `json:"db,omitempty"`
	Redis       serviceConfigRedis                 `json:"redis,omitempty"`
	Vocabulary  serviceConfigVocabulary            `json:"vocabulary,omitempty"`
	Profile     serviceConfigProfile               `json:"profile,omitempty"`
	Languages   []string                           `json:"languages,omitempty"`
	Schemas     []serviceConfigSchema              `json:"schemas,omitempty"`
	Collections map[string]string                  `json:"collections,omitempty"`
	IndexFields map[string][]serviceConfigIndexField `json:"index_fields,omitempty"`
	Relevance   serviceConfigRelevance             `json:"relevance,omitempty"`
}

func getSortedJSONEnvVars() []string {
	var keys []string

	for _, keyval := range os.Environ() {
		key := strings.Split(keyval, "=")[0]
		if strings.HasPrefix(key, "SHOWROOM_ACTIVITIES_WS_JSON_") {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}

func loadConfig() *serviceConfig {
	cfg := serviceConfig{}

	// json configs

	envs := getSortedJSONEnvVars()

	valid := true

	for _, env := range envs {
		log.Printf("[CONFIG] loading %s ...", env)
		if val := os.Getenv(env); val != "" {
			dec := json.NewDecoder(bytes.NewReader([]byte(val)))
			dec.DisallowUnknownFields()

			if err := dec.Decode(&cfg); err != nil {
				log.Printf("error decoding %s: %s", env, err.Error())
				valid = false
			}
		}
	}

	if valid == false {
		log.Printf("exiting due to json decode error(s) above")
		os.Exit(1)
	}

	// optional convenience overrides to simplify deployment config
	if host := os.Getenv("SHOWROOM_ACTIVITIES_WS_DB_HOST"); host != "" {
		cfg.DB.Host = host
	}

	if addr := os.Getenv("SHOWROOM_ACTIVITIES_WS_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	bytes, err := json.Marshal(cfg)
	if err != nil {
		log.Printf("error encoding service config json: %s", err.Error())
		os.Exit(1)
	}

	log.Printf("[CONFIG] composite json:")
	log.Printf("\n%s", string(bytes))

	return &cfg
}
