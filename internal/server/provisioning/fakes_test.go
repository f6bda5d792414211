package provisioning

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/dmitrijs2005/deviceprov/internal/cryptox"
	"github.com/dmitrijs2005/deviceprov/internal/server/broker"
	"github.com/dmitrijs2005/deviceprov/internal/server/builder"
	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

var (
	pairOnce      sync.Once
	testCertPEM   string
	testKeyPEM    string
	testPairError error
)

func devicePair(t *testing.T) (string, string) {
	t.Helper()
	pairOnce.Do(func() {
		testCertPEM, testKeyPEM, testPairError = cryptox.NewSelfSignedRSA(2048, "device")
	})
	if testPairError != nil {
		t.Fatalf("generate device pair: %v", testPairError)
	}
	return testCertPEM, testKeyPEM
}

var testGroupKey = []byte("0123456789abcdef0123456789abcdef")

func escapedHex(b []byte) string { return `\x` + hex.EncodeToString(b) }

type fakeBroker struct {
	mu sync.Mutex

	addResult *broker.AddDeviceResult
	addErr    error
	addCalls  int

	pubStatus int
	pubErr    error
	pubCalls  int
	published []models.DeviceSettingsEntry
}

func (f *fakeBroker) AddDevice(ctx context.Context, uid string) (*broker.AddDeviceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.addErr != nil {
		return nil, f.addErr
	}
	res := *f.addResult
	return &res, nil
}

func (f *fakeBroker) PubSettings(ctx context.Context, settings []models.DeviceSettingsEntry, uid string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pubCalls++
	f.published = settings
	return f.pubStatus, f.pubErr
}

type fakeBuilder struct {
	artifact *builder.Artifact
	err      error
	calls    int
	last     builder.BuildRequest
}

func (f *fakeBuilder) Build(ctx context.Context, req builder.BuildRequest) (*builder.Artifact, error) {
	f.calls++
	f.last = req
	f.last.SealedGroupKey = append([]byte(nil), req.SealedGroupKey...)
	return f.artifact, f.err
}

type fakeObjects struct {
	mu         sync.Mutex
	objects    map[string][]byte
	putErr     error
	presignErr error
	deleteErr  error
	deleted    []string
}

func newFakeObjects() *fakeObjects { return &fakeObjects{objects: map[string][]byte{}} }

func (f *fakeObjects) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func (f *fakeObjects) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://storage.example/" + key + "?expires=" + expires.String(), nil
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type fakeUserKeys struct {
	keys map[string]string
	err  error
}

func (f *fakeUserKeys) GetGroupKey(ctx context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	k, ok := f.keys[userID]
	if !ok {
		return "", common.ErrorNotFound
	}
	return k, nil
}

type fakeDevices struct {
	mu      sync.Mutex
	devices map[string]*models.Device
	seq     int
	order   map[string]int

	// rawSettings overrides the stored document of a device
	rawSettings map[string]json.RawMessage

	createErr   error
	listErr     error
	activateErr error
	deleteErr   error
	deleted     []string
	staleCutoff time.Time
	staleN      int64
	staleErr    error
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{devices: map[string]*models.Device{}, order: map[string]int{}}
}

func (f *fakeDevices) Create(ctx context.Context, d *models.Device) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.devices[d.ID] = &cp
	f.seq++
	f.order[d.ID] = f.seq
	return nil
}

func (f *fakeDevices) ListSettings(ctx context.Context, userID string) ([]models.DeviceSettingsEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, d := range f.devices {
		if d.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return f.order[ids[i]] < f.order[ids[j]] })
	out := []models.DeviceSettingsEntry{}
	for _, id := range ids {
		raw, ok := f.rawSettings[id]
		if !ok {
			b, err := json.Marshal(f.devices[id].Settings)
			if err != nil {
				return nil, err
			}
			raw = b
		}
		out = append(out, models.DeviceSettingsEntry{DeviceID: id, Settings: raw})
	}
	return out, nil
}

func (f *fakeDevices) Activate(ctx context.Context, id string) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[id]
	if !ok || d.Status != models.DeviceStatusPending {
		return common.ErrorNoRowsAffected
	}
	d.Status = models.DeviceStatusActive
	return nil
}

func (f *fakeDevices) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.devices, id)
	return nil
}

func (f *fakeDevices) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staleCutoff = cutoff
	return f.staleN, f.staleErr
}

type fakeEncKeys struct {
	records map[string]string
	err     error
}

func (f *fakeEncKeys) Create(ctx context.Context, rec *models.EncryptionKeyRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records[rec.DeviceID] = rec.EncryptionKey
	return nil
}

// harness wires a Service to fakes that succeed by default.
type harness struct {
	broker  *fakeBroker
	builder *fakeBuilder
	objects *fakeObjects
	keys    *fakeUserKeys
	devices *fakeDevices
	enc     *fakeEncKeys
	now     time.Time
	opts    Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cert, key := devicePair(t)
	return &harness{
		broker: &fakeBroker{
			addResult: &broker.AddDeviceResult{StatusCode: 200, Cert: cert, Key: key},
			pubStatus: 200,
		},
		builder: &fakeBuilder{artifact: &builder.Artifact{Binary: []byte("BINARY"), EncryptionKey: "ZW5jLWtleQ=="}},
		objects: newFakeObjects(),
		keys:    &fakeUserKeys{keys: map[string]string{"u-1": escapedHex(testGroupKey)}},
		devices: newFakeDevices(),
		enc:     &fakeEncKeys{records: map[string]string{}},
		now:     time.Unix(1_700_000_000, 0).UTC(),
		opts: Options{
			GroupKeySize:      32,
			DefaultNickname:   "Unnamed Device",
			DefaultCacheTime:  30,
			ObjectKeyPrefix:   "outputs",
			DownloadURLExpiry: 300 * time.Second,
		},
	}
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		Broker:         h.broker,
		Builder:        h.builder,
		Objects:        h.objects,
		UserKeys:       h.keys,
		Devices:        h.devices,
		EncryptionKeys: h.enc,
		Now:            func() time.Time { return h.now },
		NewID:          func() string { return "11111111-2222-4333-8444-555555555555" },
	}
}

func (h *harness) service() *Service {
	return NewService(h.deps(), h.opts)
}
