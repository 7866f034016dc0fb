package mocks

import (
	"context"

	"github.com/jmcdonald/folderup/internal/ports"
)

// MockHub implements ports.Hub for testing.
type MockHub struct {
	// UploadResult is returned by UploadFile on success
	UploadResult ports.UploadInfo
	// UploadErr makes UploadFile fail
	UploadErr error
	// Account is returned by WhoAmI
	Account ports.Account
	// WhoAmIErr makes WhoAmI fail
	WhoAmIErr error
	// OnUpload runs before UploadFile returns, e.g. to inspect the local file
	OnUpload func(req ports.UploadRequest)

	// Call tracking
	UploadCalls []UploadCall
	WhoAmICalls []string
}

// UploadCall records parameters of an UploadFile call.
type UploadCall struct {
	Token   string
	Request ports.UploadRequest
}

// NewMockHub creates a hub that accepts every upload.
func NewMockHub() *MockHub {
	return &MockHub{
		UploadResult: ports.UploadInfo{
			CommitURL: "https://huggingface.co/datasets/mock/commit/0000000",
			CommitOID: "0000000",
			Mode:      "lfs",
		},
		Account: ports.Account{Name: "mock"},
	}
}

func (m *MockHub) UploadFile(ctx context.Context, token string, req ports.UploadRequest) (ports.UploadInfo, error) {
	m.UploadCalls = append(m.UploadCalls, UploadCall{Token: token, Request: req})
	if m.OnUpload != nil {
		m.OnUpload(req)
	}
	if m.UploadErr != nil {
		return ports.UploadInfo{}, m.UploadErr
	}
	return m.UploadResult, nil
}

func (m *MockHub) WhoAmI(ctx context.Context, token string) (ports.Account, error) {
	m.WhoAmICalls = append(m.WhoAmICalls, token)
	if m.WhoAmIErr != nil {
		return ports.Account{}, m.WhoAmIErr
	}
	return m.Account, nil
}

// Compile-time check that MockHub implements ports.Hub.
var _ ports.Hub = (*MockHub)(nil)
