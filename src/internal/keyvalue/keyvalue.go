// Package keyvalue reads and writes the flat key=value files used by
// dnsmasq and hostapd.
//
// A file is an ordered list of entries. On load, blank lines, lines starting
// with '#' and lines that do not contain exactly one '=' are dropped. On save,
// an entry with an empty value is written as a bare key (a flag-only option).
package keyvalue

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maksimkurb/hostnet/src/internal/utils"
)

// Entry is a single key=value line.
type Entry struct {
	Key   string
	Value string
}

// File is an ordered sequence of entries.
type File struct {
	entries []Entry
}

// New returns an empty file.
func New() *File {
	return &File{}
}

// Parse reads entries from r.
func Parse(r io.Reader) (*File, error) {
	f := New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Count(line, "=") != 1 {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		f.entries = append(f.entries, Entry{Key: key, Value: strings.TrimSpace(value)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load parses the file at path. A missing file is reported with an error
// matching os.ErrNotExist.
func Load(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.CloseOrWarn(file)

	f, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}

// Get returns the value of the first entry with the given key.
func (f *File) Get(key string) (string, bool) {
	for _, e := range f.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Add appends an entry, even if the key is already present.
func (f *File) Add(key, value string) {
	f.entries = append(f.entries, Entry{Key: key, Value: value})
}

// Set replaces the value of the first entry with the given key or appends a
// new entry.
func (f *File) Set(key, value string) {
	for i := range f.entries {
		if f.entries[i].Key == key {
			f.entries[i].Value = value
			return
		}
	}
	f.Add(key, value)
}

// Entries returns a copy of the entries in file order.
func (f *File) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of entries.
func (f *File) Len() int {
	return len(f.entries)
}

// WriteTo writes the entries to w, one per line.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range f.entries {
		line := e.Key
		if e.Value != "" {
			line += "=" + e.Value
		}
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the serialized file.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = f.WriteTo(&buf)
	return buf.Bytes()
}

// Save replaces the file at path with the serialized entries.
func (f *File) Save(path string, perm os.FileMode) error {
	return utils.WriteFileAtomic(path, f.Bytes(), perm)
}
