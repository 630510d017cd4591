package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lochfern/bingwall/internal/domain"
	"github.com/lochfern/bingwall/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type testConfig struct {
	window int
}

func (c testConfig) BackfillWindow() int          { return c.window }
func (c testConfig) FetchInterval() time.Duration { return time.Hour }
func (c testConfig) SearchLimit() int             { return 365 }

func metadataFor(startdate, url string) []byte {
	return []byte(fmt.Sprintf(
		`{"images":[{"startdate":%q,"url":%q,"copyright":"A hill (photographer)","copyrightlink":"https://example.com/info"}]}`,
		startdate, url))
}

func newTestEngine(t *testing.T, source domain.Source, window int) (*Engine, string) {
	t.Helper()
	store := NewFSStore(zap.NewNop())
	engine := NewEngine(zap.NewNop(), source, store, testConfig{window: window})
	return engine, t.TempDir()
}

func TestFetchLatestEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)

	source.EXPECT().FetchMetadata(gomock.Any(), -1, "").
		Return(metadataFor("20240101", "/img.jpg"), nil)
	source.EXPECT().FetchImage(gomock.Any(), "/img.jpg").
		Return([]byte("image bytes"), nil)

	engine, root := newTestEngine(t, source, 10)

	if err := engine.FetchLatest(context.Background(), root, ""); err != nil {
		t.Fatalf("FetchLatest error: %v", err)
	}

	if !engine.Exists(root, "2024-01-01", "") {
		t.Error("entry should exist after fetch")
	}
	for _, name := range []string{"2024-01-01.json", "2024-01-01.jpg"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("expected %s under root: %v", name, err)
		}
	}

	info, err := engine.Info(root, "2024-01-01", "")
	if err != nil {
		t.Fatalf("Info error: %v", err)
	}
	if info.Copyright != "A hill (photographer)" {
		t.Errorf("copyright = %q", info.Copyright)
	}
	if info.CopyrightLink != "https://example.com/info" {
		t.Errorf("copyright link = %q", info.CopyrightLink)
	}
}

func TestFetchIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)

	// The offset request happens on every pass (it is the only way to learn
	// which day the offset maps to), but the image is downloaded once.
	source.EXPECT().FetchMetadata(gomock.Any(), -1, "").
		Return(metadataFor("20240101", "/img.jpg"), nil).
		Times(2)
	source.EXPECT().FetchImage(gomock.Any(), "/img.jpg").
		Return([]byte("image bytes"), nil).
		Times(1)

	engine, root := newTestEngine(t, source, 10)

	for i := 0; i < 2; i++ {
		if err := engine.FetchLatest(context.Background(), root, ""); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
}

func TestFetchCompletesHalfWrittenEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	store := NewFSStore(zap.NewNop())
	engine := NewEngine(zap.NewNop(), source, store, testConfig{window: 10})
	root := t.TempDir()

	// Simulate a crash after the metadata write: metadata present with
	// sentinel content, image missing.
	sentinel := []byte(`{"images":[{"startdate":"20240101","url":"/stale.jpg"}]}`)
	if err := store.WriteMetadata(root, "2024-01-01", "", sentinel); err != nil {
		t.Fatal(err)
	}

	source.EXPECT().FetchMetadata(gomock.Any(), -1, "").
		Return(metadataFor("20240101", "/img.jpg"), nil)
	source.EXPECT().FetchImage(gomock.Any(), "/img.jpg").
		Return([]byte("image bytes"), nil)

	if engine.Exists(root, "2024-01-01", "") {
		t.Fatal("half-written entry must not count as existing")
	}
	if err := engine.FetchLatest(context.Background(), root, ""); err != nil {
		t.Fatalf("FetchLatest error: %v", err)
	}
	if !engine.Exists(root, "2024-01-01", "") {
		t.Error("entry should be complete after the image download")
	}

	// The metadata write is existence-gated: the sentinel bytes survive.
	got, err := store.ReadMetadata(root, "2024-01-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(sentinel) {
		t.Error("pre-existing metadata was overwritten")
	}
}

func TestFetchRangeOffsets(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)

	// A window of 10 covers offsets -1 through 9 inclusive: 11 requests.
	var offsets []int
	source.EXPECT().FetchMetadata(gomock.Any(), gomock.Any(), "").
		DoAndReturn(func(_ context.Context, offset int, _ string) ([]byte, error) {
			offsets = append(offsets, offset)
			day := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(offset + 1))
			return metadataFor(day.Format("20060102"), fmt.Sprintf("/img-%d.jpg", offset)), nil
		}).
		Times(11)
	source.EXPECT().FetchImage(gomock.Any(), gomock.Any()).
		Return([]byte("image bytes"), nil).
		Times(11)

	engine, root := newTestEngine(t, source, 10)

	if err := engine.FetchRange(context.Background(), root, ""); err != nil {
		t.Fatalf("FetchRange error: %v", err)
	}

	want := []int{-1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if len(offsets) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(want))
	}
	for i, off := range want {
		if offsets[i] != off {
			t.Errorf("offset[%d] = %d, want %d (strictly ascending order)", i, offsets[i], off)
		}
	}
}

func TestFetchRangeFullyCachedSkipsDownloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	store := NewFSStore(zap.NewNop())
	engine := NewEngine(zap.NewNop(), source, store, testConfig{window: 10})
	root := t.TempDir()

	// Pre-cache every day the stub will report.
	base := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= 10; i++ {
		day := base.AddDate(0, 0, -i).Format("2006-01-02")
		if err := store.WriteMetadata(root, day, "", []byte("{}")); err != nil {
			t.Fatal(err)
		}
		if err := store.WriteImage(root, day, "", []byte("img")); err != nil {
			t.Fatal(err)
		}
	}

	// Metadata is still requested per offset, but no image is downloaded.
	source.EXPECT().FetchMetadata(gomock.Any(), gomock.Any(), "").
		DoAndReturn(func(_ context.Context, offset int, _ string) ([]byte, error) {
			day := base.AddDate(0, 0, -(offset + 1))
			return metadataFor(day.Format("20060102"), "/img.jpg"), nil
		}).
		Times(11)

	if err := engine.FetchRange(context.Background(), root, ""); err != nil {
		t.Fatalf("FetchRange error: %v", err)
	}
}

func TestFetchRangeAbortsOnFirstErrorKeepingEarlierEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	engine, root := newTestEngine(t, source, 10)

	netErr := fmt.Errorf("%w: connection refused", domain.ErrRemote)

	gomock.InOrder(
		source.EXPECT().FetchMetadata(gomock.Any(), -1, "").
			Return(metadataFor("20240120", "/a.jpg"), nil),
		source.EXPECT().FetchImage(gomock.Any(), "/a.jpg").
			Return([]byte("a"), nil),
		source.EXPECT().FetchMetadata(gomock.Any(), 0, "").
			Return(metadataFor("20240119", "/b.jpg"), nil),
		source.EXPECT().FetchImage(gomock.Any(), "/b.jpg").
			Return(nil, netErr),
	)

	err := engine.FetchRange(context.Background(), root, "")
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("error = %v, want ErrRemote", err)
	}

	// The entry written before the failure is preserved.
	if !engine.Exists(root, "2024-01-20", "") {
		t.Error("entry cached before the failure should survive")
	}
	if engine.Exists(root, "2024-01-19", "") {
		t.Error("failed entry must not be reported as cached")
	}
}

func TestFetchRejectsMalformedMetadata(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		wantErr error
	}{
		{name: "not json", body: []byte("<html>"), wantErr: domain.ErrBadMetadata},
		{name: "empty images", body: []byte(`{"images":[]}`), wantErr: domain.ErrBadMetadata},
		{name: "missing startdate", body: []byte(`{"images":[{"url":"/x.jpg"}]}`), wantErr: domain.ErrBadMetadata},
		{name: "bad startdate", body: []byte(`{"images":[{"startdate":"January","url":"/x.jpg"}]}`), wantErr: domain.ErrBadDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := mocks.NewMockSource(ctrl)
			source.EXPECT().FetchMetadata(gomock.Any(), -1, "").Return(tt.body, nil)

			engine, root := newTestEngine(t, source, 10)
			err := engine.FetchLatest(context.Background(), root, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNearestAvailable(t *testing.T) {
	store := NewFSStore(zap.NewNop())
	engine := NewEngine(zap.NewNop(), nil, store, testConfig{window: 10})
	root := t.TempDir()

	for _, day := range []string{"2024-01-01", "2024-01-05"} {
		if err := store.WriteImage(root, day, "", []byte("img")); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		start     string
		direction int
		limit     int
		want      string
		wantOK    bool
	}{
		{name: "backward finds closest", start: "2024-01-10", direction: -1, limit: 365, want: "2024-01-05", wantOK: true},
		{name: "backward skips gap", start: "2024-01-04", direction: -1, limit: 365, want: "2024-01-01", wantOK: true},
		{name: "forward", start: "2024-01-02", direction: 1, limit: 365, want: "2024-01-05", wantOK: true},
		{name: "beyond limit", start: "2026-01-10", direction: -1, limit: 365, wantOK: false},
		{name: "tight limit excludes hit", start: "2024-01-10", direction: -1, limit: 5, wantOK: false},
		{name: "start itself never counts", start: "2024-01-05", direction: 1, limit: 3, wantOK: false},
		{name: "malformed start", start: "garbage", direction: -1, limit: 365, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.NearestAvailable(root, tt.start, "", tt.direction, tt.limit)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("day = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	store := NewFSStore(zap.NewNop())
	engine := NewEngine(zap.NewNop(), nil, store, testConfig{window: 10})
	root := t.TempDir()

	t.Run("absent entry", func(t *testing.T) {
		_, err := engine.Info(root, "2024-01-01", "")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unparseable metadata", func(t *testing.T) {
		if err := store.WriteMetadata(root, "2024-01-02", "", []byte("not json")); err != nil {
			t.Fatal(err)
		}
		_, err := engine.Info(root, "2024-01-02", "")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing fields degrade to empty pair", func(t *testing.T) {
		if err := store.WriteMetadata(root, "2024-01-03", "", []byte(`{"images":[]}`)); err != nil {
			t.Fatal(err)
		}
		info, err := engine.Info(root, "2024-01-03", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.Copyright != "" || info.CopyrightLink != "" {
			t.Errorf("info = %+v, want empty pair", info)
		}
	})
}
