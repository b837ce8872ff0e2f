package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testProfileServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/profiles/jane":
			json.NewEncoder(w).Encode(profileRecord{
				Username:    "jane",
				Name:        "Jane Doe",
				Institution: "Academy of Fine Arts",
			})

		case "/api/v1/profiles/ghost":
			w.WriteHeader(http.StatusNotFound)

		case "/api/v1/profiles/locked":
			w.WriteHeader(http.StatusForbidden)

		case "/api/v1/profiles/broken":
			w.WriteHeader(http.StatusBadRequest)

		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
}

func TestProfilePull(t *testing.T) {
	server := testProfileServer(t)
	defer server.Close()

	p := &profileContext{client: http.DefaultClient, host: server.URL}

	profile, err := p.pull("jane")
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if profile.Name != "Jane Doe" || profile.Institution != "Academy of Fine Arts" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestProfileFailureModes(t *testing.T) {
	server := testProfileServer(t)
	defer server.Close()

	p := &profileContext{client: http.DefaultClient, host: server.URL}

	if _, err := p.pull("ghost"); errors.Is(err, errProfileNotFound) == false {
		t.Errorf("expected errProfileNotFound, got %v", err)
	}

	if _, err := p.pull("locked"); errors.Is(err, errProfileAuth) == false {
		t.Errorf("expected errProfileAuth, got %v", err)
	}

	if _, err := p.pull("broken"); errors.Is(err, errProfileBadRequest) == false {
		t.Errorf("expected errProfileBadRequest, got %v", err)
	}

	if _, err := p.pull("weird"); err == nil {
		t.Errorf("expected generic error for unexpected status")
	}
}
