package msgstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	botID     = snowflake.ID(555)
	channelID = snowflake.ID(900)
)

// fakeChannel is an in-memory Client over a single channel.
type fakeChannel struct {
	nextID   snowflake.ID
	messages []discord.Message // newest first, like the API returns
	failAll  bool
	failEdit bool
	edits    int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{nextID: 1000}
}

func (f *fakeChannel) seed(authorID snowflake.ID, content string) snowflake.ID {
	f.nextID++
	msg := discord.Message{
		ID:      f.nextID,
		Content: content,
		Author:  discord.User{ID: authorID},
	}
	f.messages = append([]discord.Message{msg}, f.messages...)
	return msg.ID
}

func (f *fakeChannel) GetMessages(ch, around, before, after snowflake.ID, limit int, opts ...rest.RequestOpt) ([]discord.Message, error) {
	if f.failAll {
		return nil, errors.New("missing access")
	}
	if limit > len(f.messages) {
		limit = len(f.messages)
	}
	out := make([]discord.Message, limit)
	copy(out, f.messages[:limit])
	return out, nil
}

func (f *fakeChannel) GetMessage(ch, messageID snowflake.ID, opts ...rest.RequestOpt) (*discord.Message, error) {
	if f.failAll {
		return nil, errors.New("missing access")
	}
	for i := range f.messages {
		if f.messages[i].ID == messageID {
			msg := f.messages[i]
			return &msg, nil
		}
	}
	return nil, errors.New("unknown message")
}

func (f *fakeChannel) CreateMessage(ch snowflake.ID, create discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error) {
	if f.failAll {
		return nil, errors.New("missing access")
	}
	id := f.seed(botID, create.Content)
	return &discord.Message{ID: id, Content: create.Content, Author: discord.User{ID: botID}}, nil
}

func (f *fakeChannel) UpdateMessage(ch, messageID snowflake.ID, update discord.MessageUpdate, opts ...rest.RequestOpt) (*discord.Message, error) {
	if f.failAll || f.failEdit {
		return nil, errors.New("missing permissions")
	}
	for i := range f.messages {
		if f.messages[i].ID == messageID {
			if update.Content != nil {
				f.messages[i].Content = *update.Content
			}
			f.edits++
			msg := f.messages[i]
			return &msg, nil
		}
	}
	return nil, errors.New("unknown message")
}

func openTestStore(t *testing.T, f *fakeChannel, kind string) *Store {
	t.Helper()
	return Open(f, discardLogger(), channelID, botID, kind)
}

func TestOpenFindsExistingMessage(t *testing.T) {
	f := newFakeChannel()
	id := f.seed(botID, `{"42": {}}`)
	f.seed(777, "hello from a human")

	s := openTestStore(t, f, "")
	if !s.Ready() {
		t.Fatal("store not ready")
	}
	if _, msgID := s.Locator(); msgID != id {
		t.Errorf("resolved message %d, want %d", msgID, id)
	}
	if len(f.messages) != 2 {
		t.Error("open must not create a message when one exists")
	}
}

func TestOpenIgnoresForeignAuthors(t *testing.T) {
	f := newFakeChannel()
	f.seed(777, `{"looks": "like ours"}`)

	s := openTestStore(t, f, "")
	if !s.Ready() {
		t.Fatal("store not ready")
	}
	_, msgID := s.Locator()
	if msgID == f.messages[len(f.messages)-1].ID {
		t.Error("store adopted a message it did not author")
	}
}

func TestOpenCreatesSentinel(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "")
	if !s.Ready() {
		t.Fatal("store not ready")
	}
	if got := string(s.Read()); got != "{}" {
		t.Errorf("fresh store content = %q, want {}", got)
	}
}

func TestOpenCreatesKindSentinel(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "POOL_DATA")
	if !s.Ready() {
		t.Fatal("store not ready")
	}
	if f.messages[0].Content != "POOL_DATA: {}" {
		t.Errorf("sentinel = %q, want POOL_DATA: {}", f.messages[0].Content)
	}
}

func TestOpenSeparatesKindsSharingChannel(t *testing.T) {
	f := newFakeChannel()
	primaryID := f.seed(botID, `{"42": {}}`)
	poolID := f.seed(botID, `POOL_DATA: {"42": []}`)

	primary := openTestStore(t, f, "")
	pool := openTestStore(t, f, "POOL_DATA")

	if _, id := primary.Locator(); id != primaryID {
		t.Errorf("primary resolved %d, want %d", id, primaryID)
	}
	if _, id := pool.Locator(); id != poolID {
		t.Errorf("pool resolved %d, want %d", id, poolID)
	}
}

func TestOpenDegradedChannel(t *testing.T) {
	f := newFakeChannel()
	f.failAll = true

	s := openTestStore(t, f, "")
	if s.Ready() {
		t.Fatal("expected degraded store")
	}
	if got := s.Read(); got != nil {
		t.Errorf("degraded Read = %q, want nil", got)
	}
	s.Write([]byte(`{"x": 1}`)) // must not panic or write
}

func TestOpenUnconfiguredChannel(t *testing.T) {
	f := newFakeChannel()
	s := Open(f, discardLogger(), 0, botID, "")
	if s.Ready() {
		t.Error("expected degraded store for channel id 0")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "")

	doc := []byte(`{"42": {"birthdays": {"10": "02-14"}}}`)
	s.Write(doc)
	if got := string(s.Read()); got != string(doc) {
		t.Errorf("Read = %q, want %q", got, doc)
	}
}

func TestReadWriteRoundTripWithKind(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "POOL_DATA")

	doc := []byte(`{"42": [{"user_id": "100", "title": "Dune"}]}`)
	s.Write(doc)
	if got := string(s.Read()); got != string(doc) {
		t.Errorf("Read = %q, want %q", got, doc)
	}
	if !strings.HasPrefix(f.messages[0].Content, "POOL_DATA: ") {
		t.Errorf("stored content lost its marker: %q", f.messages[0].Content)
	}
}

func TestWriteTruncatesAtCap(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "")

	big := []byte("{" + strings.Repeat("x", MaxContentLen*2))
	s.Write(big)

	stored := f.messages[0].Content
	if len([]rune(stored)) != MaxContentLen {
		t.Errorf("stored length = %d runes, want %d", len([]rune(stored)), MaxContentLen)
	}
	if got := string(s.Read()); got != string(big[:MaxContentLen]) {
		t.Error("Read after over-cap write must return the truncated prefix")
	}
}

func TestWriteAtCapExactlyIsLossless(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "")

	exact := []byte(fmt.Sprintf("{%s}", strings.Repeat("y", MaxContentLen-2)))
	s.Write(exact)
	if got := string(s.Read()); got != string(exact) {
		t.Error("document exactly at the cap must round-trip unchanged")
	}
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	f := newFakeChannel()
	s := openTestStore(t, f, "")
	f.failEdit = true

	s.Write([]byte(`{"42": {}}`)) // must not panic
	if got := string(s.Read()); got != "{}" {
		t.Errorf("content after failed write = %q, want untouched sentinel", got)
	}
}

func TestReadRejectsForeignMarker(t *testing.T) {
	f := newFakeChannel()
	id := f.seed(botID, "POOL_DATA: {}")
	s := Open(f, discardLogger(), channelID, botID, "POOL_DATA")
	if _, msgID := s.Locator(); msgID != id {
		t.Fatal("setup: store did not adopt the seeded message")
	}

	// Someone edited the marker away out from under us.
	f.messages[0].Content = "just chatting"
	if got := s.Read(); got != nil {
		t.Errorf("Read = %q, want nil for content without our marker", got)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := truncate("héllo", 2)
	if s != "hé" {
		t.Errorf("truncate = %q, want %q", s, "hé")
	}
}
