// Copyright 2024 The Zen Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache persists the fingerprints zen compares across builds:
// a source file's whole-content hash, and each object's per-construct
// content hash, keyed by hex digest under a single JSON file alongside
// the build directory. A source's hash key also carries its last
// remembered substantive text, so a later --verbose run can render a
// diff explaining why the hash moved.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/TryExceptElse/zen/internal/zenlog"
)

const filename = "zen_cache"

// Cache maps hex digest keys to the fingerprint recorded for them on a
// prior run. Keys come in two flavors: hex(absolute source path) for a
// whole-file StrippedHash, and hex("[object][CONSTRUCT][name]") for one
// object's memory of a single construct's ContentHash.
type Cache struct {
	path    string
	entries map[string]uint64
	texts   map[string]string
	dirty   bool
}

// onDisk is the JSON shape Cache is persisted as: hashes and their
// paired diagnostic text snapshots, kept in separate top-level maps so
// the (much larger) object-construct hash entries never carry a text
// payload they have no use for.
type onDisk struct {
	Hashes map[string]uint64 `json:"hashes"`
	Texts  map[string]string `json:"texts"`
}

// Key hashes an arbitrary cache key string into the hex digest Cache
// stores entries under.
func Key(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ObjectConstructKey builds the key an object/construct pair is
// remembered under.
func ObjectConstructKey(objectPath, constructName string) string {
	return Key(fmt.Sprintf("[%s][CONSTRUCT][%s]", objectPath, constructName))
}

// Load reads filename's cache from dir, tolerating a missing file as an
// empty cache (the first build for a directory has nothing to compare
// against).
func Load(dir string) (*Cache, error) {
	path := dir + "/" + filename
	c := &Cache{path: path, entries: map[string]uint64{}, texts: map[string]string{}}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()
	var disk onDisk
	if err := json.NewDecoder(f).Decode(&disk); err != nil {
		return nil, fmt.Errorf("zen: corrupt cache %s: %w", path, err)
	}
	if disk.Hashes != nil {
		c.entries = disk.Hashes
	}
	if disk.Texts != nil {
		c.texts = disk.Texts
	}
	return c, nil
}

// Get returns the remembered fingerprint for key and whether it was
// present at all (a missing key is always treated as "changed").
func (c *Cache) Get(key string) (uint64, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Set records a fingerprint for key, to be persisted on the next Save.
func (c *Cache) Set(key string, value uint64) {
	if existing, ok := c.entries[key]; ok && existing == value {
		return
	}
	c.entries[key] = value
	c.dirty = true
}

// GetText returns the substantive text remembered for key (a source's
// hex key, paired with its StrippedHash) and whether it was present.
func (c *Cache) GetText(key string) (string, bool) {
	v, ok := c.texts[key]
	return v, ok
}

// SetText records the text key's fingerprint was computed from, so a
// later --verbose run can diff it against the current text.
func (c *Cache) SetText(key, value string) {
	if existing, ok := c.texts[key]; ok && existing == value {
		return
	}
	c.texts[key] = value
	c.dirty = true
}

// Save writes the cache back to disk if anything changed since Load.
func (c *Cache) Save() error {
	if !c.dirty {
		return nil
	}
	start := time.Now()
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	disk := onDisk{Hashes: c.entries, Texts: c.texts}
	if err := enc.Encode(disk); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.dirty = false
	zenlog.Trace("cache write %s: %v", c.path, time.Since(start))
	return nil
}
