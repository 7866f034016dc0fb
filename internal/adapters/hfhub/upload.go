package hfhub

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/jmcdonald/folderup/internal/ports"
)

const (
	modeRegular = "regular"
	modeLFS     = "lfs"

	lfsContentType = "application/vnd.git-lfs+json"
	sampleSize     = 512
)

// repoPaths returns the API collection name ("datasets") and the git URL
// prefix ("datasets/") for a repository type.
func repoPaths(repoType string) (api, git string, err error) {
	switch repoType {
	case "", ports.RepoTypeDataset:
		return "datasets", "datasets/", nil
	case "space":
		return "spaces", "spaces/", nil
	case "model":
		return "models", "", nil
	default:
		return "", "", fmt.Errorf("unknown repository type %q", repoType)
	}
}

type preuploadFile struct {
	Path   string `json:"path"`
	Sample string `json:"sample"`
	Size   int64  `json:"size"`
}

type preuploadResponse struct {
	Files []struct {
		Path         string `json:"path"`
		UploadMode   string `json:"uploadMode"`
		ShouldIgnore bool   `json:"shouldIgnore"`
	} `json:"files"`
}

type lfsObject struct {
	OID  string `json:"oid"`
	Size int64  `json:"size"`
}

type lfsAction struct {
	Href   string            `json:"href"`
	Header map[string]string `json:"header"`
}

type lfsBatchResponse struct {
	Objects []struct {
		lfsObject
		Actions *struct {
			Upload *lfsAction `json:"upload"`
			Verify *lfsAction `json:"verify"`
		} `json:"actions"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"objects"`
}

type commitResponse struct {
	CommitURL string `json:"commitUrl"`
	CommitOID string `json:"commitOid"`
}

// UploadFile uploads one local file and commits it. Small text-like files
// go inline in the commit; everything else goes through git-lfs first.
func (c *Client) UploadFile(ctx context.Context, token string, req ports.UploadRequest) (ports.UploadInfo, error) {
	apiPath, gitPrefix, err := repoPaths(req.RepoType)
	if err != nil {
		return ports.UploadInfo{}, err
	}
	revision := req.Revision
	if revision == "" {
		revision = "main"
	}

	f, err := os.Open(req.LocalPath)
	if err != nil {
		return ports.UploadInfo{}, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return ports.UploadInfo{}, err
	}
	size := st.Size()

	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return ports.UploadInfo{}, fmt.Errorf("reading %s: %w", req.LocalPath, err)
	}
	sample = sample[:n]

	repoURL := fmt.Sprintf("%s/api/%s/%s", c.endpoint, apiPath, req.RepoID)
	rev := url.PathEscape(revision)

	mode, err := c.preupload(ctx, token, repoURL+"/preupload/"+rev, preuploadFile{
		Path:   req.PathInRepo,
		Sample: base64.StdEncoding.EncodeToString(sample),
		Size:   size,
	})
	if err != nil {
		return ports.UploadInfo{}, err
	}

	info := ports.UploadInfo{Size: size, Mode: mode}
	var op map[string]any

	if mode == modeLFS {
		oid, err := hashFile(f)
		if err != nil {
			return ports.UploadInfo{}, err
		}
		info.SHA256 = oid

		batchURL := fmt.Sprintf("%s/%s%s.git/info/lfs/objects/batch", c.endpoint, gitPrefix, req.RepoID)
		if err := c.uploadLFS(ctx, token, batchURL, revision, f, lfsObject{OID: oid, Size: size}); err != nil {
			return ports.UploadInfo{}, err
		}
		op = map[string]any{
			"key":   "lfsFile",
			"value": map[string]any{"path": req.PathInRepo, "algo": "sha256", "oid": oid, "size": size},
		}
	} else {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return ports.UploadInfo{}, err
		}
		content, err := io.ReadAll(f)
		if err != nil {
			return ports.UploadInfo{}, err
		}
		op = map[string]any{
			"key": "file",
			"value": map[string]any{
				"content":  base64.StdEncoding.EncodeToString(content),
				"path":     req.PathInRepo,
				"encoding": "base64",
			},
		}
	}

	summary := req.Summary
	if summary == "" {
		summary = fmt.Sprintf("Upload %s with folderup", req.PathInRepo)
	}
	commit, err := c.commit(ctx, token, repoURL+"/commit/"+rev, summary, op)
	if err != nil {
		return ports.UploadInfo{}, err
	}

	info.CommitURL = commit.CommitURL
	info.CommitOID = commit.CommitOID
	c.logger.Info("committed file to hub",
		"repo", req.RepoID,
		"path", req.PathInRepo,
		"mode", mode,
		"size", size,
		"commit", commit.CommitOID,
	)
	return info, nil
}

func (c *Client) preupload(ctx context.Context, token, url string, file preuploadFile) (string, error) {
	var resp preuploadResponse
	in := map[string]any{"files": []preuploadFile{file}}
	if err := c.postJSON(ctx, url, token, "", nil, in, &resp); err != nil {
		return "", fmt.Errorf("preupload: %w", err)
	}
	for _, f := range resp.Files {
		if f.Path != file.Path {
			continue
		}
		if f.ShouldIgnore {
			return "", fmt.Errorf("preupload: %s is ignored by the repository's .gitignore", file.Path)
		}
		if f.UploadMode == modeLFS {
			return modeLFS, nil
		}
		return modeRegular, nil
	}
	return "", fmt.Errorf("preupload: no upload mode returned for %s", file.Path)
}

// uploadLFS negotiates a basic git-lfs transfer and sends the object.
func (c *Client) uploadLFS(ctx context.Context, token, batchURL, revision string, f *os.File, obj lfsObject) error {
	in := map[string]any{
		"operation": "upload",
		"transfers": []string{"basic"},
		"objects":   []lfsObject{obj},
		"hash_algo": "sha256",
		"ref":       map[string]string{"name": revision},
	}
	var batch lfsBatchResponse
	if err := c.postJSON(ctx, batchURL, token, lfsContentType, nil, in, &batch); err != nil {
		return fmt.Errorf("lfs batch: %w", err)
	}
	if len(batch.Objects) == 0 {
		return errors.New("lfs batch: empty response")
	}

	o := batch.Objects[0]
	if o.Error != nil {
		return fmt.Errorf("lfs batch: %d: %s", o.Error.Code, o.Error.Message)
	}
	if o.Actions == nil || o.Actions.Upload == nil {
		c.logger.Debug("lfs object already present", "oid", obj.OID)
		return nil
	}

	upload := o.Actions.Upload
	if _, ok := upload.Header["chunk_size"]; ok {
		return ErrUnsupportedTransfer
	}

	err := c.do(ctx, request{
		method: http.MethodPut,
		url:    upload.Href,
		header: upload.Header,
		body:   io.NewSectionReader(f, 0, obj.Size),
		size:   obj.Size,
	}, nil)
	if err != nil {
		return fmt.Errorf("lfs upload: %w", err)
	}

	if v := o.Actions.Verify; v != nil {
		if err := c.postJSON(ctx, v.Href, token, lfsContentType, v.Header, obj, nil); err != nil {
			return fmt.Errorf("lfs verify: %w", err)
		}
	}
	return nil
}

func (c *Client) commit(ctx context.Context, token, url, summary string, op map[string]any) (commitResponse, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	header := map[string]any{
		"key":   "header",
		"value": map[string]string{"summary": summary, "description": ""},
	}
	for _, line := range []any{header, op} {
		if err := enc.Encode(line); err != nil {
			return commitResponse{}, err
		}
	}

	var resp commitResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         url,
		token:       token,
		contentType: "application/x-ndjson",
		accept:      "application/json",
		body:        bytes.NewReader(body.Bytes()),
		size:        int64(body.Len()),
	}, &resp)
	if err != nil {
		return commitResponse{}, fmt.Errorf("commit: %w", err)
	}
	return resp, nil
}

// hashFile returns the hex SHA-256 of the whole file.
func hashFile(f *os.File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
