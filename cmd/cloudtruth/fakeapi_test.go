// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testAPIKey = "test-key"

type (
	fakeParam struct {
		name  string
		value string
		err   string
	}

	fakeNamed struct {
		ID   string `json:"id"`
		URL  string `json:"url"`
		Name string `json:"name"`
	}
)

var (
	fakeProjects = map[string]string{
		"web":     "p-web",
		"partial": "p-partial",
		"broken":  "p-broken",
		"down":    "p-down",
	}

	fakeEnvironments = map[string]string{
		"default":    "e-default",
		"production": "e-prod",
	}
)

// fakeParameters returns what the API would report for a project and
// environment, honoring the historical selectors.
func fakeParameters(projectID, envID, asOf, tag string) []fakeParam {
	switch projectID {
	case "p-web":
		host := "localhost"
		if envID == "e-prod" {
			host = "db.internal"
		}
		switch {
		case tag == "v1":
			host = "db-v1"
		case asOf != "":
			host = "db-past"
		}
		return []fakeParam{
			{name: "DB_HOST", value: host},
			{name: "DB_PORT", value: "5432"},
			{name: "GREETING", value: "hello world"},
		}
	case "p-partial":
		return []fakeParam{
			{name: "GOOD", value: "1"},
			{name: "VAULT_TOKEN", err: "vault: permission denied"},
		}
	case "p-broken":
		return []fakeParam{{name: "VAULT_TOKEN", err: "vault: permission denied"}}
	default:
		return nil
	}
}

// newFakeAPI serves the subset of the CloudTruth REST API the CLI uses.
func newFakeAPI(tb testing.TB) *httptest.Server {
	tb.Helper()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	listNamed := func(w http.ResponseWriter, r *http.Request, collection string, names map[string]string) {
		var results []fakeNamed
		want := r.URL.Query().Get("name")
		if id, ok := names[want]; ok {
			results = append(results, fakeNamed{
				ID:   id,
				URL:  "http://" + r.Host + "/api/v1/" + collection + "/" + id + "/",
				Name: want,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(results), "next": nil, "results": results})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/environments/", func(w http.ResponseWriter, r *http.Request) {
		listNamed(w, r, "environments", fakeEnvironments)
	})
	mux.HandleFunc("/api/v1/projects/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/projects/")
		if rest == "" {
			listNamed(w, r, "projects", fakeProjects)
			return
		}
		projectID, tail, _ := strings.Cut(rest, "/")
		if tail != "parameters/" {
			http.NotFound(w, r)
			return
		}
		if projectID == "p-down" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "database unavailable"})
			return
		}

		q := r.URL.Query()
		envID := q.Get("environment")
		envURL := "http://" + r.Host + "/api/v1/environments/" + envID + "/"

		results := []map[string]any{}
		for _, p := range fakeParameters(projectID, envID, q.Get("as_of"), q.Get("tag")) {
			value := map[string]any{"environment": envURL, "value": p.value, "external_error": nil}
			if p.err != "" {
				value["value"] = nil
				value["external_error"] = p.err
			}
			results = append(results, map[string]any{
				"id":     "param-" + p.name,
				"name":   p.name,
				"secret": false,
				"values": map[string]any{envURL: value},
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(results), "next": nil, "results": results})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Api-Key "+testAPIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid API key."})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	tb.Cleanup(srv.Close)
	return srv
}
