// Package publish zips a folder and uploads the archive to a hub dataset.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmcdonald/folderup/internal/history"
	"github.com/jmcdonald/folderup/internal/ports"
)

// Options tunes a Publisher.
type Options struct {
	// WorkDir is where the archive is staged. Empty means the working directory.
	WorkDir string
	// KeepArchive leaves the local archive in place on every exit path.
	KeepArchive bool
	// SaveToken persists a supplied token through the CredentialStore.
	SaveToken bool
	// Revision is the branch to commit to. Empty means "main".
	Revision string
	// Archive is passed to the Archiver.
	Archive ports.ArchiveOptions
}

// Recorder receives an entry for every successful publish.
type Recorder interface {
	Record(entry history.Entry) error
}

// Publisher runs the archive-and-publish operation.
// It is not safe for concurrent use on the same folder: two runs race on the
// same archive name.
type Publisher struct {
	archiver ports.Archiver
	fs       ports.FileSystem
	creds    ports.CredentialStore
	hub      ports.Hub
	opts     Options

	Logger   *slog.Logger
	Recorder Recorder // Optional

	now func() time.Time
}

// New creates a Publisher. creds may be nil, in which case a token must be
// supplied with every request.
func New(archiver ports.Archiver, fs ports.FileSystem, creds ports.CredentialStore, hub ports.Hub, opts Options) *Publisher {
	return &Publisher{
		archiver: archiver,
		fs:       fs,
		creds:    creds,
		hub:      hub,
		opts:     opts,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
}

// ArchiveName derives "<base>.zip" from a folder path. Trailing slashes and
// backslashes are ignored.
func ArchiveName(folder string) (string, error) {
	trimmed := strings.TrimRight(folder, `/\`)
	base := trimmed
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		base = trimmed[i+1:]
	}
	if base == "" || base == "." || base == ".." {
		return "", fmt.Errorf("cannot derive an archive name from %q", folder)
	}
	return base + ".zip", nil
}

// Publish zips req.Folder and uploads it to req.RepoID as a dataset file.
// Every failure is returned in Result.Err; Publish never panics on I/O or
// network errors and never retries.
func (p *Publisher) Publish(ctx context.Context, req Request) (res Result) {
	start := p.now()
	res = Result{Folder: req.Folder, RepoID: req.RepoID}
	log := p.Logger.With("folder", req.Folder, "repo", req.RepoID)
	defer func() {
		res.Duration = p.now().Sub(start)
		if res.Err != nil {
			log.Warn("publish failed", "kind", res.Kind().String(), "error", res.Err)
		}
	}()

	token, err := p.resolveToken(req.Token)
	if err != nil {
		res.Err = err
		return res
	}

	folder, err := p.checkFolder(req.Folder)
	if err != nil {
		res.Err = err
		return res
	}

	name, err := ArchiveName(folder)
	if err != nil {
		res.Err = &Error{Kind: KindArchive, Op: "naming archive", Err: err}
		return res
	}
	res.Archive = name

	workDir := p.opts.WorkDir
	if workDir == "" {
		if workDir, err = p.fs.Getwd(); err != nil {
			res.Err = &Error{Kind: KindArchive, Op: "locating working directory", Err: err}
			return res
		}
	}
	archivePath := filepath.Join(workDir, name)

	// A failed Create cleans up after itself, so only a finished archive is
	// ours to remove
	log.Debug("creating archive", "path", archivePath)
	count, err := p.archiver.Create(archivePath, folder, p.opts.Archive)
	if err != nil {
		res.Err = &Error{Kind: KindArchive, Op: "creating archive", Err: err}
		return res
	}
	res.FileCount = count
	defer func() {
		res.Kept = p.cleanup(log, archivePath)
	}()

	info, err := p.fs.Stat(archivePath)
	if err != nil {
		res.Err = &Error{Kind: KindArchive, Op: "reading archive", Err: err}
		return res
	}
	res.Size = info.Size()

	log.Info("uploading archive", "archive", name, "files", count, "bytes", res.Size)
	upload, err := p.hub.UploadFile(ctx, token, ports.UploadRequest{
		LocalPath:  archivePath,
		PathInRepo: name,
		RepoID:     req.RepoID,
		RepoType:   ports.RepoTypeDataset,
		Revision:   p.opts.Revision,
	})
	if err != nil {
		res.Err = &Error{Kind: KindTransmission, Op: "uploading " + name, Err: err}
		return res
	}
	res.SHA256 = upload.SHA256
	res.CommitURL = upload.CommitURL

	if p.Recorder != nil {
		entry := history.Entry{
			Archive:    name,
			Folder:     folder,
			RepoID:     req.RepoID,
			SHA256:     upload.SHA256,
			SizeBytes:  res.Size,
			FileCount:  count,
			CommitURL:  upload.CommitURL,
			UploadedAt: p.now(),
		}
		if err := p.Recorder.Record(entry); err != nil {
			log.Warn("recording upload history", "error", err)
		}
	}

	log.Info("published archive", "archive", name, "commit", upload.CommitURL)
	return res
}

// resolveToken persists a supplied token, or loads the stored one when none
// was supplied.
func (p *Publisher) resolveToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		if p.creds == nil {
			return "", &Error{Kind: KindCredential, Op: "loading token", Err: ports.ErrNoToken}
		}
		stored, err := p.creds.Load()
		if err != nil {
			return "", &Error{Kind: KindCredential, Op: "loading token", Err: err}
		}
		return stored, nil
	}

	if p.creds != nil && p.opts.SaveToken {
		if err := p.creds.Save(token); err != nil {
			return "", &Error{Kind: KindCredential, Op: "saving token", Err: err}
		}
	}
	return token, nil
}

// checkFolder returns the folder as an absolute path if it is a directory.
func (p *Publisher) checkFolder(folder string) (string, error) {
	if strings.TrimSpace(folder) == "" {
		return "", &Error{Kind: KindFolderNotFound, Op: "checking folder", Err: os.ErrNotExist}
	}

	info, err := p.fs.Stat(folder)
	if err != nil {
		return "", &Error{Kind: KindFolderNotFound, Op: "checking folder", Err: err}
	}
	if !info.IsDir() {
		return "", &Error{Kind: KindFolderNotFound, Op: "checking folder", Err: ErrNotDirectory}
	}

	if filepath.IsAbs(folder) {
		return folder, nil
	}
	wd, err := p.fs.Getwd()
	if err != nil {
		return "", &Error{Kind: KindArchive, Op: "locating working directory", Err: err}
	}
	return filepath.Join(wd, folder), nil
}

// cleanup removes the staged archive unless it is to be kept. It reports
// whether the archive was left on disk.
func (p *Publisher) cleanup(log *slog.Logger, archivePath string) bool {
	if p.opts.KeepArchive {
		if _, err := p.fs.Stat(archivePath); err == nil {
			log.Info("keeping local archive", "path", archivePath)
			return true
		}
		return false
	}

	if err := p.fs.Remove(archivePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}
		log.Warn("removing local archive", "path", archivePath, "error", err)
		return true
	}
	return false
}
