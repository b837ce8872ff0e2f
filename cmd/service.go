package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type serviceVersion struct {
	BuildVersion string `json:"build"`
	GoVersion    string `json:"go_version"`
	GitCommit    string `json:"git_commit"`
}

type serviceContext struct {
	config       *serviceConfig
	log          *zap.SugaredLogger
	translations *i18n.Bundle
	store        *storeContext
	queue        *jobQueue
	vocab        *vocabContext
	profile      *profileContext
	version      serviceVersion
}

func initializeService(gitCommit string, cfg *serviceConfig) *serviceContext {
	svc := serviceContext{config: cfg}

	svc.log = initializeLogger()

	svc.initVersion(gitCommit)
	svc.initTranslations()
	svc.initStore()
	svc.initQueue()
	svc.initVocab()
	svc.initProfile()

	svc.validateConfig()

	return &svc
}

func (svc *serviceContext) initVersion(gitCommit string) {
	buildVersion := "unknown"

	files, _ := filepath.Glob("buildtag.*")
	if len(files) == 1 {
		buildVersion = strings.Replace(files[0], "buildtag.", "", 1)
	}

	svc.version = serviceVersion{
		BuildVersion: buildVersion,
		GoVersion:    fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		GitCommit:    gitCommit,
	}

	log.Printf("[SERVICE] version = [%s]", buildVersion)
}

func (svc *serviceContext) initTranslations() {
	defaultLang := language.English

	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	toks, _ := filepath.Glob("i18n/*.toml")

	for _, tok := range toks {
		log.Printf("[SERVICE] loading translation file: [%s]", tok)
		bundle.MustLoadMessageFile(tok)
	}

	svc.translations = bundle
}

func (svc *serviceContext) localizerFor(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(svc.translations, lang)
}

func (svc *serviceContext) initStore() {
	store, err := initializeStore(&svc.config.DB)
	if err != nil {
		log.Printf("[SERVICE] ERROR: failed to initialize store: %s", err.Error())
		os.Exit(1)
	}

	svc.store = store

	log.Printf("[SERVICE] store = [%s:%s/%s]", svc.config.DB.Host, svc.config.DB.Port, svc.config.DB.Name)
}

func (svc *serviceContext) initQueue() {
	svc.queue = initializeQueue(&svc.config.Redis, svc.log)

	log.Printf("[SERVICE] queue = [%s @ %s]", svc.queue.queue, svc.config.Redis.Addr)
}

func (svc *serviceContext) initVocab() {
	svc.vocab = initializeVocab(&svc.config.Vocabulary, svc.config.Schemas)

	log.Printf("[SERVICE] vocabulary = [%s]", svc.config.Vocabulary.Host)
}

func (svc *serviceContext) initProfile() {
	svc.profile = initializeProfile(&svc.config.Profile)

	log.Printf("[SERVICE] profile = [%s]", svc.config.Profile.Host)
}

// message IDs every configured language must be able to localize
func requiredMessageIDs() []string {
	ids := []string{
		"SearchResultsLabel",
		"RoleContributor",
		"FieldText",
		"FieldType",
		"FieldKeywords",
		"FieldDate",
		"FieldOpening",
		"FieldCategory",
		"FieldFundingCategory",
		"FieldLicense",
		"FieldProgrammingLanguage",
		"FieldDocumentationURL",
		"FieldSoftwareVersion",
		"FieldPublishedIn",
		"FieldVolumeIssuePages",
		"FieldMaterialFormatDimensions",
		"FieldDuration",
		"FieldArchitecture",
		"FieldArtists",
		"FieldAuthors",
		"FieldCommissions",
		"FieldComposition",
		"FieldConductors",
		"FieldContributors",
		"FieldCurators",
		"FieldDesign",
		"FieldDirectors",
		"FieldEditors",
		"FieldFellowScholar",
		"FieldFunding",
		"FieldGrantedBy",
		"FieldJury",
		"FieldLecturers",
		"FieldMusic",
		"FieldOrganisers",
		"FieldProjectLead",
		"FieldProjectPartnership",
		"FieldPublishers",
		"FieldSoftwareDevelopers",
		"FieldWinners",
	}

	for _, xid := range categoryLabelXIDs {
		ids = append(ids, xid)
	}

	return uniqueStrings(ids)
}

var indexFieldKinds = []string{"simple", "concept", "concept_list"}

// ensure the config is complete and consistent with the static tables before
// the service starts accepting records
func (svc *serviceContext) validateConfig() {
	cfg := svc.config

	invalid := false

	v := stringValidator{}

	v.requireValue(cfg.Service.Port, "service port")
	v.requireValue(cfg.DB.Host, "db host")
	v.requireValue(cfg.DB.Port, "db port")
	v.requireValue(cfg.DB.User, "db user")
	v.requireValue(cfg.DB.Name, "db name")
	v.requireValue(cfg.Redis.Addr, "redis addr")
	v.requireValue(cfg.Vocabulary.Host, "vocabulary host")
	v.requireValue(cfg.Profile.Host, "profile host")

	if len(cfg.Languages) == 0 {
		log.Printf("[VALIDATE] no languages configured")
		invalid = true
	}

	if len(cfg.Schemas) == 0 {
		log.Printf("[VALIDATE] no schemas configured")
		invalid = true
	}

	for _, schema := range cfg.Schemas {
		v.setPrefix(fmt.Sprintf("schema [%s]: ", schema.Name))

		v.requireValue(schema.Name, "name")
		v.requireValue(schema.Collection, "collection")

		if _, ok := schemaFieldTable[schema.Name]; schema.Name != "" && ok == false {
			log.Printf("[VALIDATE] schema [%s]: no field mapping", schema.Name)
			invalid = true
		}
	}

	v.setPrefix("")

	if missing := validateFieldTransformers(); len(missing) > 0 {
		log.Printf("[VALIDATE] fields with no transformer function: %v", missing)
		invalid = true
	}

	for schema, fields := range cfg.IndexFields {
		for _, field := range fields {
			if sliceContainsString(indexFieldKinds, field.Kind, false) == false {
				log.Printf("[VALIDATE] index field [%s.%s]: unknown kind [%s]", schema, field.Field, field.Kind)
				invalid = true
			}
		}
	}

	for _, lang := range cfg.Languages {
		localizer := svc.localizerFor(lang)

		for _, xid := range requiredMessageIDs() {
			if _, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: xid, PluralCount: 1}); err != nil {
				log.Printf("[VALIDATE] language [%s]: missing message ID [%s]", lang, xid)
				invalid = true
			}
		}
	}

	if v.Invalid() == true || invalid == true {
		log.Printf("[VALIDATE] exiting due to error(s) above")
		os.Exit(1)
	}
}
