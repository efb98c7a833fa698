package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/plan"
	"github.com/domears/negotiator2/misc"
)

var (
	ts     *httptest.Server
	client *http.Client
	srv    *Server
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	tmp, err := os.MkdirTemp("", "negotiator-test")
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.New("")
	if err != nil {
		log.Fatal(err)
	}
	cfg.DBPath = tmp + "/"
	cfg.Sandbox = true

	r := gin.New()
	srv, err = New(cfg, r)
	if err != nil {
		log.Fatal(err)
	}

	ts = httptest.NewServer(r)

	jar, _ := cookiejar.New(nil)
	client = &http.Client{Jar: jar}

	code := m.Run()

	ts.Close()
	srv.Close()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func doJSON(t *testing.T, method, path string, body, out interface{}) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("%s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestEndToEnd(t *testing.T) {
	// Everything behind the auth wall starts locked.
	if code := doJSON(t, "GET", "/campaigns", nil, nil); code != 401 {
		t.Fatalf("unauthenticated: got %d, wanted 401", code)
	}

	var st misc.Status
	signup := map[string]string{"name": "Planner", "email": "planner@example.com", "password": "hunter2hunter2"}
	if code := doJSON(t, "POST", "/signUp", signup, &st); code != 200 {
		t.Fatalf("signUp: %d (%s)", code, st.Msg)
	}

	// A weak password is rejected.
	bad := map[string]string{"name": "X", "email": "x@example.com", "password": "short"}
	if code := doJSON(t, "POST", "/signUp", bad, nil); code != 400 {
		t.Fatalf("weak password accepted: %d", code)
	}

	login := map[string]string{"email": "planner@example.com", "password": "hunter2hunter2"}
	if code := doJSON(t, "POST", "/signIn", login, nil); code != 200 {
		t.Fatalf("signIn: %d", code)
	}

	// Campaign wizard.
	cmpReq := map[string]interface{}{
		"name":     "Summer Launch",
		"client":   "Acme",
		"brand":    "AcmeGlow",
		"markets":  []string{"US"},
		"currency": "USD",
		"primaryKpis": []map[string]interface{}{
			{"name": "Brand Lift", "target": 700},
		},
		"startDate":    "2026-09-01T00:00:00Z",
		"endDate":      "2026-10-01T00:00:00Z",
		"budgetType":   "campaign",
		"budgetAmount": 50000,
	}
	var created struct {
		misc.Status
		Warnings []string `json:"warnings"`
	}
	if code := doJSON(t, "POST", "/campaign", cmpReq, &created); code != 200 || created.Id == "" {
		t.Fatalf("postCampaign: %d %+v", code, created)
	}
	cid := created.Id

	// Missing budget is a hard error, not a warning.
	badCmp := map[string]interface{}{
		"name": "X", "client": "Y", "brand": "Z",
		"markets": []string{"US"}, "currency": "USD",
		"startDate": "2026-09-01T00:00:00Z", "endDate": "2026-10-01T00:00:00Z",
	}
	if code := doJSON(t, "POST", "/campaign", badCmp, nil); code != 400 {
		t.Fatalf("invalid campaign accepted: %d", code)
	}

	// Build a small plan: default row, boost child, materialize.
	if code := doJSON(t, "POST", "/campaign/"+cid+"/deliverable", nil, &st); code != 200 || st.Id == "" {
		t.Fatalf("postDeliverable: %d", code)
	}
	rowId := st.Id

	if code := doJSON(t, "POST", "/campaign/"+cid+"/deliverable/"+rowId+"/child", nil, nil); code != 200 {
		t.Fatalf("postChildDeliverable: %d", code)
	}

	upd := map[string]interface{}{
		"rights": map[string]interface{}{"territory": "global"},
	}
	if code := doJSON(t, "PUT", "/campaign/"+cid+"/deliverable/"+rowId, upd, nil); code != 200 {
		t.Fatalf("putDeliverable: %d", code)
	}

	if code := doJSON(t, "POST", "/campaign/"+cid+"/deliverable/"+rowId+"/materialize", nil, nil); code != 200 {
		t.Fatalf("materialize: %d", code)
	}

	// Bulk edit through the stored selection.
	if code := doJSON(t, "POST", "/campaign/"+cid+"/selection/"+rowId, nil, nil); code != 200 {
		t.Fatalf("toggleSelection: %d", code)
	}
	var sel struct {
		Ids []string `json:"ids"`
	}
	if code := doJSON(t, "GET", "/campaign/"+cid+"/selection", nil, &sel); code != 200 || len(sel.Ids) != 1 {
		t.Fatalf("getSelection: %d %v", code, sel.Ids)
	}
	bulk := map[string]interface{}{"updates": map[string]interface{}{"quantity": 2}}
	if code := doJSON(t, "POST", "/campaign/"+cid+"/bulkEdit", bulk, nil); code != 200 {
		t.Fatalf("bulkEdit: %d", code)
	}
	if code := doJSON(t, "DELETE", "/campaign/"+cid+"/selection", nil, nil); code != 200 {
		t.Fatalf("clearSelection: %d", code)
	}

	var m plan.Metrics
	if code := doJSON(t, "GET", "/campaign/"+cid+"/metrics", nil, &m); code != 200 {
		t.Fatalf("metrics: %d", code)
	}
	if m.TotalCost <= 0 || m.TotalInfluencers <= 0 {
		t.Errorf("empty metrics after building a plan: %+v", m)
	}

	// The CSV export carries the summary block.
	req, _ := http.NewRequest("GET", ts.URL+"/campaign/"+cid+"/export", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != 200 || !strings.Contains(string(body), "CAMPAIGN SUMMARY") {
		t.Errorf("export: %d, summary present: %v", resp.StatusCode, strings.Contains(string(body), "CAMPAIGN SUMMARY"))
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Summer_Launch_campaign_plan.csv") {
		t.Errorf("content disposition: %q", cd)
	}

	// Warnings endpoint for the first row.
	var w struct {
		Warnings      []string `json:"warnings"`
		RightsSummary string   `json:"rightsSummary"`
	}
	if code := doJSON(t, "GET", "/campaign/"+cid+"/deliverable/"+rowId+"/warnings", nil, &w); code != 200 {
		t.Fatalf("warnings: %d", code)
	}
	if !strings.Contains(w.RightsSummary, "Global") {
		t.Errorf("rights summary should reflect the update: %q", w.RightsSummary)
	}

	// Catalogs.
	var tiers []interface{}
	if code := doJSON(t, "GET", "/cohortTiers", nil, &tiers); code != 200 || len(tiers) == 0 {
		t.Fatalf("cohortTiers: %d", code)
	}

	// Number parsing endpoint.
	var parsed misc.ParsedNumber
	if code := doJSON(t, "POST", "/parseNumber", map[string]string{"input": "2.5M", "kind": "count"}, &parsed); code != 200 {
		t.Fatalf("parseNumber: %d", code)
	}
	if !parsed.Valid || parsed.Value != 2500000 {
		t.Errorf("parseNumber: %+v", parsed)
	}

	// Formatting endpoint returns both display and committed-input forms.
	var formatted struct {
		Formatted string `json:"formatted"`
		Input     string `json:"input"`
	}
	fmtReq := map[string]interface{}{"value": 2500000, "style": "compact", "kind": "count"}
	if code := doJSON(t, "POST", "/formatNumber", fmtReq, &formatted); code != 200 {
		t.Fatalf("formatNumber: %d", code)
	}
	if formatted.Formatted != "2.5M" || formatted.Input != "2,500,000" {
		t.Errorf("formatNumber: %+v", formatted)
	}

	// Market filter on the listing.
	var list []json.RawMessage
	if code := doJSON(t, "GET", "/campaigns?markets=US,UK", nil, &list); code != 200 || len(list) != 1 {
		t.Errorf("market filter hit: %d, %d campaigns", code, len(list))
	}
	list = nil
	if code := doJSON(t, "GET", "/campaigns?markets=FR", nil, &list); code != 200 || len(list) != 0 {
		t.Errorf("market filter miss: %d, %d campaigns", code, len(list))
	}

	// Delete the campaign, then it is gone, along with its selection state.
	if code := doJSON(t, "POST", "/campaign/"+cid+"/selection/"+rowId, nil, nil); code != 200 {
		t.Fatalf("reselect before delete: %d", code)
	}
	if code := doJSON(t, "DELETE", "/campaign/"+cid, nil, nil); code != 200 {
		t.Fatalf("delCampaign: %d", code)
	}
	if code := doJSON(t, "GET", "/campaign/"+cid, nil, nil); code != 404 {
		t.Errorf("deleted campaign still served: %d", code)
	}
	srv.selMux.Lock()
	_, leftover := srv.selections[cid]
	srv.selMux.Unlock()
	if leftover {
		t.Error("selection state survived campaign delete")
	}

	// Sign out kills the session.
	if code := doJSON(t, "GET", "/signOut", nil, nil); code != 200 {
		t.Fatalf("signOut: %d", code)
	}
	if code := doJSON(t, "GET", "/campaigns", nil, nil); code != 401 {
		t.Errorf("session survived signOut: %d", code)
	}
}

// A handler must never edit the store's own campaign object: the store may
// only change once the bolt write has gone through.
func TestHandlerMutationIsolation(t *testing.T) {
	login := map[string]string{"email": "planner@example.com", "password": "hunter2hunter2"}
	if code := doJSON(t, "POST", "/signIn", login, nil); code != 200 {
		t.Fatalf("signIn: %d", code)
	}

	cmpReq := map[string]interface{}{
		"name": "Isolation Check", "client": "Acme", "brand": "AcmeGlow",
		"markets": []string{"DE"}, "currency": "EUR",
		"startDate": "2026-09-01T00:00:00Z", "endDate": "2026-10-01T00:00:00Z",
		"budgetType": "campaign", "budgetAmount": 10000,
	}
	var st misc.Status
	if code := doJSON(t, "POST", "/campaign", cmpReq, &st); code != 200 || st.Id == "" {
		t.Fatalf("postCampaign: %d", code)
	}
	cid := st.Id

	before, ok := srv.Campaigns.Get(cid)
	if !ok {
		t.Fatal("campaign missing from store")
	}
	beforeRows := len(before.Deliverables)

	if code := doJSON(t, "POST", "/campaign/"+cid+"/deliverable", nil, nil); code != 200 {
		t.Fatalf("postDeliverable: %d", code)
	}

	if len(before.Deliverables) != beforeRows {
		t.Error("handler mutated the stored campaign in place")
	}
	after, _ := srv.Campaigns.Get(cid)
	if after == before {
		t.Error("store should hold a fresh object after a save")
	}
	if len(after.Deliverables) != beforeRows+1 {
		t.Errorf("rows after save: got %d, wanted %d", len(after.Deliverables), beforeRows+1)
	}

	if code := doJSON(t, "DELETE", "/campaign/"+cid, nil, nil); code != 200 {
		t.Fatalf("delCampaign: %d", code)
	}
}

func TestListingAndCatalogFilters(t *testing.T) {
	login := map[string]string{"email": "planner@example.com", "password": "hunter2hunter2"}
	if code := doJSON(t, "POST", "/signIn", login, nil); code != 200 {
		t.Fatalf("signIn: %d", code)
	}

	now := time.Now()
	mk := func(name, start, end string) string {
		req := map[string]interface{}{
			"name": name, "client": "Acme", "brand": "AcmeGlow",
			"markets": []string{"JP"}, "currency": "JPY",
			"startDate": start, "endDate": end,
			"budgetType": "campaign", "budgetAmount": 5000,
		}
		var st misc.Status
		if code := doJSON(t, "POST", "/campaign", req, &st); code != 200 || st.Id == "" {
			t.Fatalf("postCampaign %s: %d", name, code)
		}
		return st.Id
	}
	liveId := mk("Live Flight",
		now.AddDate(0, 0, -1).Format(time.RFC3339), now.AddDate(0, 0, 7).Format(time.RFC3339))
	futureId := mk("Future Flight",
		now.AddDate(1, 0, 0).Format(time.RFC3339), now.AddDate(1, 1, 0).Format(time.RFC3339))

	var list []struct {
		Id string `json:"id"`
	}
	if code := doJSON(t, "GET", "/campaigns?active=true", nil, &list); code != 200 {
		t.Fatalf("active filter: %d", code)
	}
	ids := make(map[string]bool, len(list))
	for _, cmp := range list {
		ids[cmp.Id] = true
	}
	if !ids[liveId] || ids[futureId] {
		t.Errorf("active filter: live in list %v, future in list %v", ids[liveId], ids[futureId])
	}

	// The bookable list hides archetypes; ?all=true serves the full store.
	var bookable []json.RawMessage
	if code := doJSON(t, "GET", "/creators", nil, &bookable); code != 200 {
		t.Fatalf("creators: %d", code)
	}
	all := map[string]json.RawMessage{}
	if code := doJSON(t, "GET", "/creators?all=true", nil, &all); code != 200 {
		t.Fatalf("creators all: %d", code)
	}
	if len(all) <= len(bookable) {
		t.Errorf("all=%d should exceed bookable=%d", len(all), len(bookable))
	}

	for _, id := range []string{liveId, futureId} {
		if code := doJSON(t, "DELETE", "/campaign/"+id, nil, nil); code != 200 {
			t.Fatalf("cleanup %s: %d", id, code)
		}
	}
}
