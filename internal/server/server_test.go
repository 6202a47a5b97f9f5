package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mkoller/domainmap/pkg/hierarchy"
	"github.com/mkoller/domainmap/pkg/pipeline"
	"github.com/mkoller/domainmap/pkg/store"
)

const workbookJSON = `{
  "hierarchy": [
    {"Data Domain L1": "Sales", "Business Process L1": "Order", "Business Process L2": "Refund"},
    {"Data Domain L1": "Finance", "Business Process L1": "Billing"},
    {"Data Domain L1": "Finance", "Business Process L1": "Ledger"}
  ],
  "dependencies": [
    {"Data Domain L3": "Refund", "Data Domain L3 - Dependency": "Billing"}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := New(runner, store.NewMemoryStore(), nil, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func uploadDataset(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var created datasetResponse
	status := doJSON(t, http.MethodPost, ts.URL+"/api/datasets", workbookJSON, &created)
	if status != http.StatusCreated {
		t.Fatalf("POST /api/datasets status = %d", status)
	}
	if created.NodeCount != 5 {
		t.Fatalf("NodeCount = %d, want 5", created.NodeCount)
	}
	return created.Dataset
}

func createSession(t *testing.T, ts *httptest.Server, dataset string) string {
	t.Helper()
	var sess struct {
		ID string `json:"id"`
	}
	status := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", `{"dataset":"`+dataset+`"}`, &sess)
	if status != http.StatusCreated {
		t.Fatalf("POST /api/sessions status = %d", status)
	}
	return sess.ID
}

func TestDatasetLifecycle(t *testing.T) {
	ts := newTestServer(t)
	dataset := uploadDataset(t, ts)

	var listed struct {
		Datasets []string `json:"datasets"`
	}
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/datasets", "", &listed); status != http.StatusOK {
		t.Fatalf("GET /api/datasets status = %d", status)
	}
	if len(listed.Datasets) != 1 || listed.Datasets[0] != dataset {
		t.Errorf("Datasets = %v, want [%s]", listed.Datasets, dataset)
	}

	var nodes struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/datasets/"+dataset+"/nodes", "", &nodes); status != http.StatusOK {
		t.Fatalf("GET nodes status = %d", status)
	}
	if len(nodes.Nodes) != 5 {
		t.Errorf("got %d nodes, want 5", len(nodes.Nodes))
	}
}

func TestDatasetNotFound(t *testing.T) {
	ts := newTestServer(t)
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/datasets/bogus/nodes", "", nil); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", `{"dataset":"bogus"}`, nil); status != http.StatusNotFound {
		t.Errorf("session on missing dataset status = %d, want 404", status)
	}
}

func TestInvalidWorkbookRejected(t *testing.T) {
	ts := newTestServer(t)
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/datasets", `{"hierarchy":[]}`, nil); status != http.StatusBadRequest {
		t.Errorf("empty workbook status = %d, want 400", status)
	}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/datasets", `not json`, nil); status != http.StatusBadRequest {
		t.Errorf("malformed workbook status = %d, want 400", status)
	}
}

func TestSearchFocusViewResetFlow(t *testing.T) {
	ts := newTestServer(t)
	dataset := uploadDataset(t, ts)
	sessID := createSession(t, ts, dataset)
	base := ts.URL + "/api/sessions/" + sessID

	// Search focuses the first matching label.
	var searched searchResponse
	if status := doJSON(t, http.MethodPost, base+"/search", `{"term":"refund"}`, &searched); status != http.StatusOK {
		t.Fatalf("search status = %d", status)
	}
	if !searched.Matched || searched.Focus != "Sales > Order > Refund" {
		t.Fatalf("search = %+v", searched)
	}

	// The view reflects the focus and hides unrelated branches.
	var view hierarchy.View
	if status := doJSON(t, http.MethodGet, base+"/view", "", &view); status != http.StatusOK {
		t.Fatalf("view status = %d", status)
	}
	if view.FocusID != "Sales > Order > Refund" {
		t.Errorf("view focus = %q", view.FocusID)
	}
	if len(view.Nodes) != 4 {
		t.Errorf("view has %d nodes, want 4 (Ledger hidden)", len(view.Nodes))
	}
	highlights := make(map[string]hierarchy.Highlight)
	for _, n := range view.Nodes {
		highlights[n.ID] = n.Highlight
	}
	if highlights["Finance > Billing"] != hierarchy.HighlightDependency {
		t.Errorf("Billing highlight = %s, want Dependency", highlights["Finance > Billing"])
	}

	// A search miss leaves the focus unchanged.
	if status := doJSON(t, http.MethodPost, base+"/search", `{"term":"zzz"}`, &searched); status != http.StatusOK {
		t.Fatalf("search miss status = %d", status)
	}
	if searched.Matched {
		t.Error("search miss should not match")
	}
	var sess struct {
		Focus string `json:"focus"`
	}
	doJSON(t, http.MethodGet, base+"/", "", &sess)
	if sess.Focus != "Sales > Order > Refund" {
		t.Errorf("focus after miss = %q, want unchanged", sess.Focus)
	}

	// Explicit focus moves the selection.
	var focused focusResponse
	if status := doJSON(t, http.MethodPost, base+"/focus", `{"id":"Finance"}`, &focused); status != http.StatusOK {
		t.Fatalf("focus status = %d", status)
	}
	if !focused.Changed || focused.Focus != "Finance" {
		t.Errorf("focus = %+v", focused)
	}

	// Unknown node IDs are rejected.
	if status := doJSON(t, http.MethodPost, base+"/focus", `{"id":"No > Such"}`, nil); status != http.StatusNotFound {
		t.Errorf("unknown focus status = %d, want 404", status)
	}

	// Reset clears the focus and the view returns to the full tree.
	if status := doJSON(t, http.MethodPost, base+"/reset", "{}", nil); status != http.StatusOK {
		t.Fatalf("reset status = %d", status)
	}
	var resetView hierarchy.View
	if status := doJSON(t, http.MethodGet, base+"/view", "", &resetView); status != http.StatusOK {
		t.Fatalf("view after reset status = %d", status)
	}
	if resetView.FocusID != "" || len(resetView.Nodes) != 5 {
		t.Errorf("view after reset: focus %q, %d nodes", resetView.FocusID, len(resetView.Nodes))
	}
}

func TestSessionNotFound(t *testing.T) {
	ts := newTestServer(t)
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/nope/view", "", nil); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	if status := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil); status != http.StatusOK {
		t.Errorf("healthz status = %d", status)
	}
}
