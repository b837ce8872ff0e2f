package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
)

// assembles a setup_env.sh from per-concern json config files so the service
// can be configured the same way locally as in deployment

func main() {
	type cfgData struct {
		File   string
		EnvVar string
	}

	var cfgDir string
	var tgtEnv string
	var port string
	flag.StringVar(&cfgDir, "dir", "", "local directory holding the environment config trees")
	flag.StringVar(&tgtEnv, "env", "staging", "production or staging")
	flag.StringVar(&port, "port", "8080", "port to run the service on")
	flag.Parse()

	if cfgDir == "" {
		log.Fatal("dir is required")
	}
	if tgtEnv != "staging" && tgtEnv != "production" {
		log.Fatal("env must be staging or production")
	}

	cfgBase := path.Join(cfgDir, tgtEnv, "activities-ws/environment")

	log.Printf("Generate service config for %s from %s", tgtEnv, cfgBase)
	cfgFiles := []cfgData{
		{File: "service.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_01"},
		{File: "db.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_02"},
		{File: "redis.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_03"},
		{File: "vocabulary.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_04"},
		{File: "profile.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_05"},
		{File: "languages.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_06"},
		{File: "schemas.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_07"},
		{File: "collections.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_08"},
		{File: "index_fields.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_09"},
		{File: "relevance.json", EnvVar: "SHOWROOM_ACTIVITIES_WS_JSON_10"},
	}

	out := make([]string, 0)
	for _, cf := range cfgFiles {
		tgtFile := path.Join(cfgBase, cf.File)
		jsonBytes, err := os.ReadFile(tgtFile)
		if err != nil {
			log.Fatal(err.Error())
		}

		if cf.EnvVar == "SHOWROOM_ACTIVITIES_WS_JSON_01" {
			// the service config where the port is set to "8080"; override
			updated := strings.Replace(string(jsonBytes), "8080", port, 1)
			jsonBytes = []byte(updated)
		}

		oneLine := strings.Join(strings.Fields(string(jsonBytes)), " ")
		out = append(out, fmt.Sprintf("export %s='%s'", cf.EnvVar, oneLine))
	}

	outF, err := os.Create("setup_env.sh")
	if err != nil {
		log.Fatal(err.Error())
	}
	outF.WriteString("#!/bin/bash\n\n")
	outF.WriteString(fmt.Sprintf("export SHOWROOM_ACTIVITIES_WS_DB_HOST=activities-db-%s.internal\n", tgtEnv))
	outF.WriteString(fmt.Sprintf("export SHOWROOM_ACTIVITIES_WS_REDIS_ADDR=activities-redis-%s.internal:6379\n", tgtEnv))
	outF.WriteString(strings.Join(out, "\n"))
	outF.WriteString("\n")
	outF.Close()
	os.Chmod("setup_env.sh", 0777)
}
