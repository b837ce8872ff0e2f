package main

import "testing"

func TestStringValidatorFlagsMissingValues(t *testing.T) {
	v := stringValidator{}

	v.requireValue("8080", "service port")

	if v.Invalid() == true {
		t.Fatalf("present value flagged as missing")
	}

	v.setPrefix("schema [software]: ")
	v.requireValue("", "collection")

	if v.Invalid() == false {
		t.Errorf("missing value not flagged")
	}
}
