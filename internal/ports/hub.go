package ports

import "context"

// RepoTypeDataset is the repository kind archives are published to.
const RepoTypeDataset = "dataset"

// UploadRequest describes one file upload to a hub repository.
type UploadRequest struct {
	LocalPath  string // File on local disk
	PathInRepo string // Destination path inside the repository
	RepoID     string // owner/name
	RepoType   string // "dataset", "model" or "space"
	Revision   string // Branch; empty means "main"
	Summary    string // Commit summary; empty means a generated one
}

// UploadInfo is what the hub reports back after a commit.
type UploadInfo struct {
	CommitURL string
	CommitOID string
	SHA256    string // Set when the file went through LFS
	Size      int64
	Mode      string // "regular" or "lfs"
}

// Account identifies the owner of a token.
type Account struct {
	Name     string
	FullName string
	Email    string
	Orgs     []string
}

// Hub abstracts the dataset-hosting service client.
// Production code uses hfhub.Client; tests use MockHub.
type Hub interface {
	// UploadFile uploads a single local file and commits it to the repository.
	UploadFile(ctx context.Context, token string, req UploadRequest) (UploadInfo, error)

	// WhoAmI returns the account the token belongs to.
	WhoAmI(ctx context.Context, token string) (Account, error)
}
