package services

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/auth"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/blob"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/cache"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSigningSecret = "test-blob-secret"

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestGrantService(s *store.Store) *GrantService {
	provider := auth.NewLocalAuthProvider(s, bcrypt.MinCost)
	return NewGrantService(s, provider, nil, metrics.NewNoopMetrics(), 24*30)
}

func newTestAttachmentService(s *store.Store) *AttachmentService {
	return NewAttachmentService(
		s,
		cache.NewMemoryCache[[]models.Attachment](),
		time.Minute,
		metrics.NewNoopMetrics(),
	)
}

// countingGrants records how often authorization consulted the grant store
type countingGrants struct {
	inner GrantChecker
	calls atomic.Int32
}

func (c *countingGrants) IsGrantActive(ctx context.Context, token string) bool {
	c.calls.Add(1)
	return c.inner.IsGrantActive(ctx, token)
}

type transferFixture struct {
	store       *store.Store
	grants      *GrantService
	counter     *countingGrants
	attachments *AttachmentService
	blobs       *blob.FSStore
	signer      *blob.LocalSigner
	transfer    *TransferService
	targets     *TargetService
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()
	s := setupTestStore(t)
	grants := newTestGrantService(s)
	counter := &countingGrants{inner: grants}
	attachments := newTestAttachmentService(s)
	blobs := blob.NewFSStoreWithFs(afero.NewMemMapFs())
	signer := blob.NewLocalSigner(testSigningSecret, "http://hub.test")

	transfer := NewTransferService(
		s,
		attachments,
		counter,
		signer,
		blobs,
		nil,
		metrics.NewNoopMetrics(),
		TransferOptions{
			UploadTTL:     10 * time.Minute,
			DownloadTTL:   5 * time.Minute,
			MaxUploadSize: 1 << 20,
		},
	)

	return &transferFixture{
		store:       s,
		grants:      grants,
		counter:     counter,
		attachments: attachments,
		blobs:       blobs,
		signer:      signer,
		transfer:    transfer,
		targets:     NewTargetService(s, nil),
	}
}

func (f *transferFixture) addTarget(
	t *testing.T,
	targetType models.TargetType,
	id, owner string,
	visibility models.Visibility,
) {
	t.Helper()
	_, err := f.targets.Upsert(context.Background(), targetType, id, owner, visibility)
	require.NoError(t, err)
}

// upload runs the server half of an upload: ticket, bytes into storage, record
func (f *transferFixture) upload(
	t *testing.T,
	caller core.Caller,
	targetType models.TargetType,
	targetID, name, contentType, body string,
) *models.Attachment {
	t.Helper()
	ctx := context.Background()

	ticket, err := f.transfer.RequestUploadTicket(
		ctx, caller, targetType, name, int64(len(body)), contentType,
	)
	require.NoError(t, err)

	_, err = f.blobs.Put(ctx, ticket.StoragePath, contentType, strings.NewReader(body), 0)
	require.NoError(t, err)

	attachment, err := f.transfer.RecordUpload(ctx, caller, RecordInput{
		TargetID:    targetID,
		TargetType:  targetType,
		Name:        name,
		Size:        int64(len(body)),
		ContentType: contentType,
		StoragePath: ticket.StoragePath,
	})
	require.NoError(t, err)
	return attachment
}
