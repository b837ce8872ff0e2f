package main

import (
	"net/url"
	"strconv"
	"strings"
)

// miscellaneous utility functions

func firstElementOf(s []string) string {
	// return first element of slice, or blank string if empty
	val := ""

	if len(s) > 0 {
		val = s[0]
	}

	return val
}

func sliceContainsString(haystack []string, needle string, insensitive bool) bool {
	if len(haystack) == 0 {
		return false
	}

	for _, item := range haystack {
		a := item
		b := needle

		if insensitive == true {
			a = strings.ToLower(item)
			b = strings.ToLower(needle)
		}

		if a == b {
			return true
		}
	}

	return false
}

func sliceContainsAnyValueFromSlice(haystack []string, needles []string, insensitive bool) bool {
	if len(haystack) == 0 || len(needles) == 0 {
		return false
	}

	for _, needle := range needles {
		if sliceContainsString(haystack, needle, insensitive) == true {
			return true
		}
	}

	return false
}

func nonemptyValues(val []string) []string {
	res := []string{}

	for _, s := range val {
		if s != "" {
			res = append(res, s)
		}
	}

	return res
}

func integerWithMinimum(str string, min int) int {
	val, err := strconv.Atoi(str)

	// fallback for invalid or nonsensical values
	if err != nil || val < min {
		val = min
	}

	return val
}

func timeoutWithMinimum(str string, min int) int {
	return integerWithMinimum(str, min)
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func uniqueStrings(s []string) []string {
	var uniq []string

	seen := make(map[string]bool)

	for _, val := range s {
		key := strings.ToLower(val)

		if seen[key] == false {
			uniq = append(uniq, val)
			seen[key] = true
		}
	}

	return uniq
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}

	return false
}

func boolOptionWithFallback(opt string, fallback bool) bool {
	var err error
	var val bool

	if val, err = strconv.ParseBool(opt); err != nil {
		val = fallback
	}

	return val
}
