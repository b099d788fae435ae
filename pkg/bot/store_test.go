package bot

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/testutil"
)

func newSnapshotBot(t *testing.T) *Bot {
	t.Helper()
	server := httptest.NewServer(testutil.NewFakeS3())
	t.Cleanup(server.Close)

	return &Bot{BaseBot: &botutil.BaseBot{
		S3:  testutil.NewTestS3Client(t, server),
		Log: testutil.DiscardLogger(),
	}}
}

func TestFetchLatestSnapshotWalksBack(t *testing.T) {
	b := newSnapshotBot(t)

	date := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	want := []byte(`{"1234":{"birthdays":{"10":"06-01"}}}`)
	if err := b.S3.SaveSnapshot(context.Background(), "document/1234", date, want); err != nil {
		t.Fatal(err)
	}

	got := b.fetchLatestSnapshot("document/1234")
	if string(got) != string(want) {
		t.Errorf("fetchLatestSnapshot = %q, want %q", got, want)
	}
}

func TestFetchLatestSnapshotMissing(t *testing.T) {
	b := newSnapshotBot(t)
	if got := b.fetchLatestSnapshot("document/1234"); got != nil {
		t.Errorf("expected nil for absent snapshots, got %q", got)
	}
}

func TestFetchLatestSnapshotNoS3(t *testing.T) {
	b := &Bot{BaseBot: &botutil.BaseBot{Log: testutil.DiscardLogger()}}
	if got := b.fetchLatestSnapshot("document/1234"); got != nil {
		t.Errorf("expected nil without S3, got %q", got)
	}
}

func TestUpdateGuildIconNoS3(t *testing.T) {
	b := &Bot{BaseBot: &botutil.BaseBot{Log: testutil.DiscardLogger()}}
	b.updateGuildIcon(1234, "halloween")
}
