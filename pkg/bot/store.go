package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/memberbot"
	"github.com/kasstmaster/softdreamingsmember/pkg/msgstore"
	"github.com/kasstmaster/softdreamingsmember/pkg/pickpool"
	"github.com/kasstmaster/softdreamingsmember/pkg/s3client"
)

// poolKind prefixes the pick pool's backing message so it can share a
// storage channel with the member document.
const poolKind = "POOL_DATA"

func (b *Bot) openStores() {
	b.mu.Lock()
	defer b.mu.Unlock()

	selfID := b.Client.ApplicationID
	for guildID, cfg := range b.cfg {
		if cfg.StorageChannelID == 0 {
			b.Log.Warn("No storage channel configured", "guild_id", guildID)
			continue
		}
		b.stores[guildID] = &guildStores{
			doc:  msgstore.Open(b.Client.Rest, b.Log, cfg.StorageChannelID, selfID, ""),
			pool: msgstore.Open(b.Client.Rest, b.Log, cfg.StorageChannelID, selfID, poolKind),
		}
	}
}

// snapshotLookbackDays bounds how far back a startup restore searches for
// a daily S3 snapshot.
const snapshotLookbackDays = 7

// fetchLatestSnapshot walks back from today looking for the most recent
// daily snapshot of kind. Returns nil when none exists within the lookback
// window or S3 is not configured.
func (b *Bot) fetchLatestSnapshot(kind string) []byte {
	if b.S3 == nil {
		return nil
	}

	day := time.Now().UTC()
	for i := 0; i < snapshotLookbackDays; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		data, err := b.S3.FetchSnapshot(ctx, kind, day.Format("2006-01-02"))
		cancel()
		if err == nil {
			return data
		}
		if !errors.Is(err, s3client.ErrNotFound) {
			b.Log.Error("Failed to fetch snapshot", "kind", kind, "error", err)
			return nil
		}
		day = day.AddDate(0, 0, -1)
	}
	return nil
}

// loadDocuments reads every guild's document. An empty read falls back to
// the most recent S3 snapshot, so a deleted backing message costs at most
// a day of edits. A record stored in the old untagged form is rewritten
// immediately so the upgrade happens once.
func (b *Bot) loadDocuments() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for guildID, stores := range b.stores {
		raw := stores.doc.Read()
		if len(raw) == 0 {
			if snap := b.fetchLatestSnapshot("document/" + guildID.String()); snap != nil {
				b.Log.Info("Restoring document from snapshot", "guild_id", guildID)
				raw = snap
			}
		}
		doc := memberbot.DecodeDocument(raw)
		b.docs[guildID] = doc

		if encoded := doc.Encode(); raw != nil && string(encoded) != string(raw) {
			b.Log.Info("Rewriting document in current schema", "guild_id", guildID)
			stores.doc.Write(encoded)
		}
		b.Log.Info("Loaded document", "guild_id", guildID, "guild_records", len(doc))
	}
}

func (b *Bot) saveDocuments() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveDocumentsLocked()
}

func (b *Bot) saveDocumentsLocked() {
	for guildID, stores := range b.stores {
		doc, ok := b.docs[guildID]
		if !ok {
			continue
		}
		stores.doc.Write(doc.Encode())
		b.Log.Info("Saved document", "guild_id", guildID)
	}
}

func (b *Bot) loadPools() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for guildID, stores := range b.stores {
		cfg := b.cfg[guildID]
		pool := pickpool.New(cfg.PoolLimit, cfg.DrawPolicy)

		raw := stores.pool.Read()
		if len(raw) == 0 {
			if snap := b.fetchLatestSnapshot("pool/" + guildID.String()); snap != nil {
				b.Log.Info("Restoring pick pool from snapshot", "guild_id", guildID)
				raw = snap
			}
		}
		if len(raw) > 0 {
			var snapshot map[string][]pickpool.Entry
			if err := json.Unmarshal(raw, &snapshot); err != nil {
				b.Log.Error("Failed to decode pool data, starting empty", "guild_id", guildID, "error", err)
			} else {
				pool.Restore(snapshot)
			}
		}

		b.pools[guildID] = pool
		b.Log.Info("Loaded pick pool", "guild_id", guildID, "entries", pool.Len(guildID))
	}
}

func (b *Bot) savePools() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.savePoolsLocked()
}

func (b *Bot) savePoolsLocked() {
	for guildID, stores := range b.stores {
		pool, ok := b.pools[guildID]
		if !ok {
			continue
		}
		data, err := json.Marshal(pool.Snapshot())
		if err != nil {
			b.Log.Error("Failed to encode pool data", "guild_id", guildID, "error", err)
			continue
		}
		stores.pool.Write(data)
		b.Log.Info("Saved pick pool", "guild_id", guildID)
	}
}

// snapshotToS3 copies each guild's document and pool to S3 once a day so a
// deleted backing message is recoverable.
func (b *Bot) snapshotToS3() {
	if b.S3 == nil {
		return
	}

	b.mu.Lock()
	type payload struct {
		kind string
		data []byte
	}
	snapshots := make(map[snowflake.ID][]payload)
	for guildID, doc := range b.docs {
		snapshots[guildID] = append(snapshots[guildID], payload{"document", doc.Encode()})
	}
	for guildID, pool := range b.pools {
		if data, err := json.Marshal(pool.Snapshot()); err == nil {
			snapshots[guildID] = append(snapshots[guildID], payload{"pool", data})
		}
	}
	b.mu.Unlock()

	date := time.Now().UTC().Format("2006-01-02")
	for guildID, payloads := range snapshots {
		for _, p := range payloads {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := b.S3.SaveSnapshot(ctx, p.kind+"/"+guildID.String(), date, p.data)
			cancel()
			if err != nil {
				b.Log.Error("Failed to snapshot to s3", "guild_id", guildID, "kind", p.kind, "error", err)
			}
		}
	}
}

// guildState returns the pieces handlers need for one guild. ok is false
// when the guild is not configured.
func (b *Bot) guildState(guildID snowflake.ID) (guildConfig, memberbot.Document, *pickpool.Pool, bool) {
	cfg, ok := b.cfg[guildID]
	if !ok {
		return guildConfig{}, nil, nil, false
	}
	doc := b.docs[guildID]
	pool := b.pools[guildID]
	if doc == nil || pool == nil {
		return guildConfig{}, nil, nil, false
	}
	return cfg, doc, pool, true
}
