package main

import "log"

// collects missing-value complaints during startup validation; any complaint
// marks the configuration invalid as a whole

type stringValidator struct {
	invalid bool
	prefix  string
}

func (v *stringValidator) setPrefix(prefix string) {
	v.prefix = prefix
}

func (v *stringValidator) requireValue(value string, label string) {
	if value == "" {
		log.Printf("[VALIDATE] %smissing %s", v.prefix, label)
		v.invalid = true
	}
}

func (v *stringValidator) Invalid() bool {
	return v.invalid
}
