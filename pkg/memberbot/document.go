package memberbot

import (
	"encoding/json"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// MessageRef locates a public mirror message.
type MessageRef struct {
	ChannelID snowflake.ID `json:"channel_id"`
	MessageID snowflake.ID `json:"message_id"`
}

// GuildRecord is the per-guild slice of the stored document.
type GuildRecord struct {
	Birthdays  map[string]string `json:"birthdays,omitempty"` // user ID -> MM-DD
	Mirror     *MessageRef       `json:"mirror,omitempty"`
	PoolMirror *MessageRef       `json:"pool_mirror,omitempty"`
	Season     string            `json:"season,omitempty"`
}

// Document is the structure persisted inside the storage message. Top-level
// keys are string-encoded guild IDs.
type Document map[string]*GuildRecord

// DecodeDocument parses a stored document. Unparseable input yields an empty
// document rather than an error; the store is self-healing from corruption.
//
// Earlier deployments stored each guild record as a flat user->date map with
// no wrapper. Those records are lifted into the Birthdays field here, so a
// single write-back after startup leaves only the tagged form on disk.
func DecodeDocument(data []byte) Document {
	doc := make(Document)
	if len(data) == 0 {
		return doc
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return doc
	}

	for gid, body := range raw {
		rec := &GuildRecord{}
		if err := json.Unmarshal(body, rec); err == nil && !recordLooksLegacy(body, rec) {
			doc[gid] = rec
			continue
		}

		// Legacy flat date map.
		var flat map[string]string
		if err := json.Unmarshal(body, &flat); err == nil {
			doc[gid] = &GuildRecord{Birthdays: flat}
			continue
		}

		doc[gid] = &GuildRecord{}
	}
	return doc
}

// recordLooksLegacy reports whether body decoded into an empty tagged record
// but actually carries flat user->date entries.
func recordLooksLegacy(body []byte, rec *GuildRecord) bool {
	if len(rec.Birthdays) > 0 || rec.Mirror != nil || rec.PoolMirror != nil || rec.Season != "" {
		return false
	}
	var flat map[string]string
	return json.Unmarshal(body, &flat) == nil && len(flat) > 0
}

// Encode serializes the document compactly. Marshal failures cannot occur for
// this shape; the empty-object sentinel is returned regardless.
func (d Document) Encode() []byte {
	data, err := json.Marshal(d)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// Guild returns the record for the given guild, creating it if absent.
func (d Document) Guild(id snowflake.ID) *GuildRecord {
	key := fmt.Sprintf("%d", id)
	rec, ok := d[key]
	if !ok {
		rec = &GuildRecord{}
		d[key] = rec
	}
	return rec
}

// Lookup returns the record for the given guild without creating it.
func (d Document) Lookup(id snowflake.ID) *GuildRecord {
	return d[fmt.Sprintf("%d", id)]
}

func (r *GuildRecord) SetBirthday(userID snowflake.ID, mmdd string) {
	if r.Birthdays == nil {
		r.Birthdays = make(map[string]string)
	}
	r.Birthdays[fmt.Sprintf("%d", userID)] = mmdd
}

// RemoveBirthday deletes the stored date for userID and reports whether one
// was present.
func (r *GuildRecord) RemoveBirthday(userID snowflake.ID) bool {
	key := fmt.Sprintf("%d", userID)
	if _, ok := r.Birthdays[key]; !ok {
		return false
	}
	delete(r.Birthdays, key)
	return true
}
