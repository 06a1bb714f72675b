package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/blob"
	"github.com/imobix/imobix/internal/platform/httpx"
)

var (
	fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	pngData  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
)

type recorderStub struct {
	mu      sync.Mutex
	records []Record
	err     error
}

func (r *recorderStub) RecordUpload(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

type observerStub struct {
	outcomes []string
}

func (o *observerStub) ObserveUpload(category, outcome string) {
	o.outcomes = append(o.outcomes, category+":"+outcome)
}

type failingStore struct{ err error }

func (f failingStore) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Object, error) {
	return blob.Object{}, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, recorder Recorder, observer Observer) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	store, err := blob.NewLocalStore(root, "http://files.test/files")
	require.NoError(t, err)
	return NewService(ServiceDeps{
		Store:    store,
		Recorder: recorder,
		Observer: observer,
		Logger:   discardLogger(),
		Now:      func() time.Time { return fixedNow },
	}), root
}

func TestHandleStoresPublicArtifact(t *testing.T) {
	rec := &recorderStub{}
	obs := &observerStub{}
	svc, root := newTestService(t, rec, obs)

	art, err := svc.Handle(context.Background(), auth.Principal{ID: 7}, Input{Filename: "casa.png", File: bytes.NewReader(pngData)})
	require.NoError(t, err)

	wantKey := Key(DefaultCategory, fixedNow, "casa.png")
	assert.Equal(t, "imoveis/1741953600000-casa.png", wantKey)
	assert.Equal(t, wantKey, art.Key)
	assert.Equal(t, wantKey, art.Pathname)
	assert.Equal(t, "http://files.test/files/"+wantKey, art.URL)
	assert.Equal(t, "image/png", art.ContentType)
	assert.Equal(t, int64(len(pngData)), art.Size)
	assert.True(t, art.Public)
	assert.Equal(t, fixedNow, art.UploadedAt)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(wantKey)))
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)

	require.Len(t, rec.records, 1)
	assert.Equal(t, int64(7), rec.records[0].UploadedBy)
	assert.Equal(t, wantKey, rec.records[0].Key)
	assert.Equal(t, []string{"imoveis:stored"}, obs.outcomes)
}

func TestHandleURLAddressesKey(t *testing.T) {
	svc, root := newTestService(t, nil, nil)

	art, err := svc.Handle(context.Background(), auth.Principal{ID: 7}, Input{Filename: "casa #1?.png", File: bytes.NewReader(pngData)})
	require.NoError(t, err)
	assert.Equal(t, "imoveis/1741953600000-casa #1?.png", art.Key)

	u, err := url.Parse(art.URL)
	require.NoError(t, err)
	assert.Equal(t, "files.test", u.Host)
	assert.Equal(t, "/files/"+art.Key, u.Path)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(art.Key)))
	assert.NoError(t, err)
}

func TestHandleUsesCategory(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	art, err := svc.Handle(context.Background(), auth.Principal{ID: 1}, Input{Filename: "planta.pdf", Category: "Plantas", File: bytes.NewReader([]byte("%PDF-1.4\n"))})
	require.NoError(t, err)
	assert.Equal(t, "plantas/1741953600000-planta.pdf", art.Key)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Equal(t, "plantas", art.Category)
}

func TestHandleSmallFile(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	art, err := svc.Handle(context.Background(), auth.Principal{ID: 1}, Input{Filename: "nota.txt", File: bytes.NewReader([]byte("oi"))})
	require.NoError(t, err)
	assert.Equal(t, int64(2), art.Size)
	assert.Contains(t, art.ContentType, "text/plain")
}

func TestHandleRecorderFailureIsNotFatal(t *testing.T) {
	rec := &recorderStub{err: errors.New("queue down")}
	svc, _ := newTestService(t, rec, nil)

	_, err := svc.Handle(context.Background(), auth.Principal{ID: 1}, Input{Filename: "casa.png", File: bytes.NewReader(pngData)})
	require.NoError(t, err)
	assert.Len(t, rec.records, 1)
}

func TestHandleValidation(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	cases := map[string]struct {
		in  Input
		msg string
	}{
		"missing filename": {Input{File: bytes.NewReader(pngData)}, MsgFilenameMissing},
		"path filename":    {Input{Filename: "../x.png", File: bytes.NewReader(pngData)}, MsgFilenameInvalid},
		"bad category":     {Input{Filename: "x.png", Category: "a/b", File: bytes.NewReader(pngData)}, MsgCategoryInvalid},
		"missing file":     {Input{Filename: "x.png"}, MsgFileMissing},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Handle(context.Background(), auth.Principal{ID: 1}, tc.in)
			require.ErrorIs(t, err, httpx.ErrValidation)
			var uerr *httpx.UserError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, tc.msg, uerr.Message)
		})
	}
}

func TestHandleStoreFailure(t *testing.T) {
	obs := &observerStub{}
	svc := NewService(ServiceDeps{Store: failingStore{err: errors.New("disk full")}, Observer: obs, Logger: discardLogger()})

	_, err := svc.Handle(context.Background(), auth.Principal{ID: 1}, Input{Filename: "x.png", File: bytes.NewReader(pngData)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, []string{"imoveis:error"}, obs.outcomes)
}

func TestHandleInvalidKeyIsRejected(t *testing.T) {
	obs := &observerStub{}
	svc := NewService(ServiceDeps{Store: failingStore{err: blob.ErrInvalidKey}, Observer: obs, Logger: discardLogger()})

	_, err := svc.Handle(context.Background(), auth.Principal{ID: 1}, Input{Filename: "x.png", File: bytes.NewReader(pngData)})
	var uerr *httpx.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, MsgFilenameInvalid, uerr.Message)
	assert.Equal(t, []string{"imoveis:rejected"}, obs.outcomes)
}

func TestNormalizeCategory(t *testing.T) {
	got, err := NormalizeCategory("  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, got)

	got, err = NormalizeCategory("Fotos_2025")
	require.NoError(t, err)
	assert.Equal(t, "fotos_2025", got)

	_, err = NormalizeCategory("..")
	require.Error(t, err)
}
