package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"
)

// pull-by-username client for the external user-profile service.  the three
// documented failure modes surface as distinct errors so callers can decide
// whether a retry makes sense.

var errProfileNotFound = errors.New("profile not found")
var errProfileAuth = errors.New("profile service authentication failed")
var errProfileBadRequest = errors.New("profile service rejected the request")

type profileRecord struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Email       string `json:"email"`
}

type profileContext struct {
	client *http.Client
	host   string
}

func initializeProfile(cfg *serviceConfigProfile) *profileContext {
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

	return &profileContext{client: client, host: cfg.Host}
}

func (p *profileContext) pull(username string) (*profileRecord, error) {
	reqURL := fmt.Sprintf("%s/api/v1/profiles/%s", p.host, url.PathEscape(username))

	req, reqErr := http.NewRequest("GET", reqURL, nil)
	if reqErr != nil {
		return nil, reqErr
	}

	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, resErr := p.client.Do(req)
	elapsedMS := int64(time.Since(start) / time.Millisecond)

	if resErr != nil {
		log.Printf("[PROFILE] ERROR: failed response from GET %s: %s. Elapsed Time: %d (ms)", reqURL, resErr.Error(), elapsedMS)
		return nil, resErr
	}

	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:

	case http.StatusNotFound:
		return nil, errProfileNotFound

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, errProfileAuth

	case http.StatusBadRequest:
		return nil, errProfileBadRequest

	default:
		log.Printf("[PROFILE] ERROR: unexpected status from GET %s: %d. Elapsed Time: %d (ms)", reqURL, res.StatusCode, elapsedMS)
		return nil, fmt.Errorf("profile service returned status %d", res.StatusCode)
	}

	var profile profileRecord

	decoder := json.NewDecoder(res.Body)

	if decErr := decoder.Decode(&profile); decErr != nil {
		return nil, decErr
	}

	return &profile, nil
}
