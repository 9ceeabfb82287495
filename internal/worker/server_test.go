package worker

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/metrics"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, records *fakeRecords, sharedSecret string) *httptest.Server {
	t.Helper()
	cfg := config.TranscodeConfig{Heights: []int{360}, TempDir: t.TempDir()}
	w := New(records, &fakeBlobs{}, &fakeEngine{}, cfg, "processed-videos", zap.NewNop())
	srv := httptest.NewServer(NewRouter(w, sharedSecret, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func postJob(t *testing.T, srv *httptest.Server, bearer string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/internal/jobs", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPushedJobRejectsUnknownBearer(t *testing.T) {
	id := uuid.New()
	records := &fakeRecords{videos: map[uuid.UUID]*models.Video{id: queuedVideo(id)}}
	srv := newTestServer(t, records, "hook-secret")

	for name, bearer := range map[string]string{
		"missing": "",
		"wrong":   "not-the-secret",
	} {
		resp := postJob(t, srv, bearer, jobBody(t, id))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s bearer: status = %d, want 401", name, resp.StatusCode)
		}
	}

	// Rejected deliveries leave the record untouched.
	if records.gets != 0 || len(records.merges) != 0 {
		t.Error("unauthorized push must not touch any record")
	}
	if records.videos[id].Status != models.VideoStatusQueued {
		t.Errorf("status = %s, want queued", records.videos[id].Status)
	}
}

func TestPushedJobProcesses(t *testing.T) {
	id := uuid.New()
	records := &fakeRecords{videos: map[uuid.UUID]*models.Video{id: queuedVideo(id)}}
	srv := newTestServer(t, records, "hook-secret")

	resp := postJob(t, srv, "hook-secret", jobBody(t, id))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if records.videos[id].Status != models.VideoStatusReady {
		t.Errorf("status = %s, want ready", records.videos[id].Status)
	}
}

func TestPushedJobStatusCodes(t *testing.T) {
	id := uuid.New()
	records := &fakeRecords{videos: map[uuid.UUID]*models.Video{id: queuedVideo(id)}}
	srv := newTestServer(t, records, "")

	rejected := metrics.JobsProcessed.WithLabelValues("rejected")
	before := testutil.ToFloat64(rejected)

	resp := postJob(t, srv, "", []byte(`{"inputBucket":"raw-videos"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed payload: status = %d, want 400", resp.StatusCode)
	}

	resp = postJob(t, srv, "", jobBody(t, uuid.New()))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown video: status = %d, want 404", resp.StatusCode)
	}

	if got := testutil.ToFloat64(rejected) - before; got != 2 {
		t.Errorf("rejected outcome counted %v times, want 2", got)
	}
}

func TestEmptySecretDisablesCheck(t *testing.T) {
	id := uuid.New()
	records := &fakeRecords{videos: map[uuid.UUID]*models.Video{id: queuedVideo(id)}}
	srv := newTestServer(t, records, "")

	resp := postJob(t, srv, "anything", jobBody(t, id))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
