package tuisvc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/ports"
	"github.com/jmcdonald/folderup/internal/publish"
)

// newHub serves the preupload and commit endpoints, accepting every file
// inline.
func newHub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer hf_test" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/preupload/main"):
			var in struct {
				Files []struct {
					Path string `json:"path"`
				} `json:"files"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"files": []map[string]any{{"path": in.Files[0].Path, "uploadMode": "regular"}},
			})
		case strings.HasSuffix(r.URL.Path, "/commit/main"):
			_, _ = w.Write([]byte(`{"commitUrl":"https://hub.test/commit/1","commitOid":"1"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T, endpoint string) (*config.Config, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvEndpoint, "")

	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Endpoint = endpoint
	cfg.TokenPath = filepath.Join(home, "token")
	cfg.WorkDir = filepath.Join(home, "work")
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		t.Fatal(err)
	}

	folder := filepath.Join(home, "data")
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(folder, "a.txt"), []byte("alpha"), 0644); err != nil {
		t.Fatal(err)
	}
	return cfg, folder
}

func TestUploadAndHistory(t *testing.T) {
	srv := newHub(t)
	cfg, folder := setup(t, srv.URL)
	svc := New(nil)

	res := svc.Upload(cfg, ports.TUIUploadRequest{Folder: folder, Token: "hf_test", RepoID: "me/data"})
	if res.Error != nil {
		t.Fatalf("Upload failed: %v", res.Error)
	}
	if res.Status != "Folder successfully uploaded as data.zip to Hugging Face repository: me/data" {
		t.Errorf("Status = %q", res.Status)
	}

	// Token persisted, archive cleaned up
	data, err := os.ReadFile(cfg.TokenPath)
	if err != nil || strings.TrimSpace(string(data)) != "hf_test" {
		t.Errorf("token file = %q, err = %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(cfg.WorkDir, "data.zip")); !os.IsNotExist(err) {
		t.Error("archive should be removed")
	}

	entries, err := svc.History(cfg)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Archive != "data.zip" || entries[0].CommitURL != "https://hub.test/commit/1" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestUploadStoredToken(t *testing.T) {
	srv := newHub(t)
	cfg, folder := setup(t, srv.URL)
	if err := os.WriteFile(cfg.TokenPath, []byte("hf_test\n"), 0600); err != nil {
		t.Fatal(err)
	}

	res := New(nil).Publish(t.Context(), cfg, publish.Request{Folder: folder, RepoID: "me/data"})
	if !res.OK() {
		t.Fatalf("Publish failed: %v", res.Err)
	}
}

func TestUploadUnauthorized(t *testing.T) {
	srv := newHub(t)
	cfg, folder := setup(t, srv.URL)

	res := New(nil).Upload(cfg, ports.TUIUploadRequest{Folder: folder, Token: "hf_wrong", RepoID: "me/data"})
	if res.Error == nil {
		t.Fatal("expected an error")
	}
	if publish.KindOf(res.Error) != publish.KindTransmission {
		t.Errorf("kind = %v, expected transmission", publish.KindOf(res.Error))
	}
	if !strings.HasPrefix(res.Status, "An error occurred:") {
		t.Errorf("Status = %q", res.Status)
	}
	if _, err := os.Stat(filepath.Join(cfg.WorkDir, "data.zip")); !os.IsNotExist(err) {
		t.Error("archive should be removed after failure")
	}
}

func TestUploadMissingFolder(t *testing.T) {
	srv := newHub(t)
	cfg, _ := setup(t, srv.URL)

	res := New(nil).Upload(cfg, ports.TUIUploadRequest{Folder: "/definitely/not/here", Token: "hf_test", RepoID: "me/data"})
	if publish.KindOf(res.Error) != publish.KindFolderNotFound {
		t.Errorf("kind = %v", publish.KindOf(res.Error))
	}
	if res.Status != "Error: Folder does not exist: /definitely/not/here" {
		t.Errorf("Status = %q", res.Status)
	}
}

func TestHistoryEmpty(t *testing.T) {
	cfg, _ := setup(t, "https://hub.test")

	entries, err := New(nil).History(cfg)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestWhoAmI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"me","fullname":"Me","orgs":[{"name":"team"}]}`))
	}))
	defer srv.Close()
	cfg, _ := setup(t, srv.URL)

	acct, err := New(nil).WhoAmI(t.Context(), cfg, "hf_test")
	if err != nil {
		t.Fatalf("WhoAmI failed: %v", err)
	}
	if acct.Name != "me" {
		t.Errorf("Name = %q", acct.Name)
	}
}
