package model

import (
	"encoding/json"
	"slices"
)

// Settings is the canonical map of interface name to record. Iteration
// follows insertion order; replacing a record keeps its position.
type Settings struct {
	order   []string
	records map[string]*NetworkRecord
}

// NewSettings returns an empty collection.
func NewSettings() *Settings {
	return &Settings{records: make(map[string]*NetworkRecord)}
}

// Len returns the number of records.
func (s *Settings) Len() int {
	return len(s.order)
}

// Get returns the record for name. The returned record is live: changes to it
// are visible through s.
func (s *Settings) Get(name string) (*NetworkRecord, bool) {
	rec, ok := s.records[name]
	return rec, ok
}

// Has reports whether a record exists for name.
func (s *Settings) Has(name string) bool {
	_, ok := s.records[name]
	return ok
}

// Set inserts rec or replaces the record with the same name.
func (s *Settings) Set(rec *NetworkRecord) {
	if _, ok := s.records[rec.Name]; !ok {
		s.order = append(s.order, rec.Name)
	}
	s.records[rec.Name] = rec
}

// Remove deletes the record for name and reports whether it existed.
func (s *Settings) Remove(name string) bool {
	if _, ok := s.records[name]; !ok {
		return false
	}
	delete(s.records, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return true
}

// Clear removes every record.
func (s *Settings) Clear() {
	s.order = nil
	s.records = make(map[string]*NetworkRecord)
}

// Names returns the interface names in insertion order.
func (s *Settings) Names() []string {
	return slices.Clone(s.order)
}

// Records returns the records in insertion order.
func (s *Settings) Records() []*NetworkRecord {
	return s.Filter(func(*NetworkRecord) bool { return true })
}

// Filter returns the records matching pred, in insertion order.
func (s *Settings) Filter(pred func(*NetworkRecord) bool) []*NetworkRecord {
	out := make([]*NetworkRecord, 0, len(s.order))
	for _, name := range s.order {
		if rec := s.records[name]; pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Enabled returns a copy of s holding only the enabled records.
func (s *Settings) Enabled() *Settings {
	out := NewSettings()
	for _, rec := range s.Filter(func(r *NetworkRecord) bool { return r.Enabled }) {
		out.Set(rec.Clone())
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	out := NewSettings()
	for _, rec := range s.Records() {
		out.Set(rec.Clone())
	}
	return out
}

// MergeFn merges src into dst.
type MergeFn func(dst, src *NetworkRecord)

// MergeFull is a MergeFn calling dst.MergeFull.
func MergeFull(dst, src *NetworkRecord) { dst.MergeFull(src) }

// MergeNonIdentity is a MergeFn calling dst.MergeNonIdentity.
func MergeNonIdentity(dst, src *NetworkRecord) { dst.MergeNonIdentity(src) }

// MergeExisting merges every record of incoming into the record of s with the
// same name. Records s does not know are not created; their names are
// returned as skipped.
func (s *Settings) MergeExisting(incoming *Settings, merge MergeFn) (merged, skipped []string) {
	for _, rec := range incoming.Records() {
		dst, ok := s.records[rec.Name]
		if !ok {
			skipped = append(skipped, rec.Name)
			continue
		}
		merge(dst, rec)
		merged = append(merged, rec.Name)
	}
	return merged, skipped
}

// MergeAll merges every record of incoming into s, creating missing records.
func (s *Settings) MergeAll(incoming *Settings, merge MergeFn) {
	for _, rec := range incoming.Records() {
		if dst, ok := s.records[rec.Name]; ok {
			merge(dst, rec)
			continue
		}
		s.Set(rec.Clone())
	}
}

// AccessPoints returns the enabled access point records in insertion order.
func (s *Settings) AccessPoints() []*NetworkRecord {
	return s.Filter(func(r *NetworkRecord) bool { return r.Enabled && r.IsAccessPoint() })
}

// FirstAccessPoint returns the first enabled access point and the number of
// enabled access points. rec is nil when there are none.
func (s *Settings) FirstAccessPoint() (rec *NetworkRecord, total int) {
	aps := s.AccessPoints()
	if len(aps) == 0 {
		return nil, 0
	}
	return aps[0], len(aps)
}

// WifiNames returns the names of wireless interfaces.
func (s *Settings) WifiNames() []string {
	return names(s.Filter(func(r *NetworkRecord) bool { return r.IsWifi }))
}

// EthernetNames returns the names of wired interfaces.
func (s *Settings) EthernetNames() []string {
	return names(s.Filter(func(r *NetworkRecord) bool { return !r.IsWifi }))
}

// IsWifiEnabled reports whether any wireless interface is enabled.
func (s *Settings) IsWifiEnabled() bool {
	_, ok := s.PrimaryWifiName()
	return ok
}

// IsEthernetEnabled reports whether any wired interface is enabled.
func (s *Settings) IsEthernetEnabled() bool {
	_, ok := s.PrimaryEthernetName()
	return ok
}

// PrimaryWifiName returns the first enabled wireless interface.
func (s *Settings) PrimaryWifiName() (string, bool) {
	return first(s.Filter(func(r *NetworkRecord) bool { return r.IsWifi && r.Enabled }))
}

// PrimaryEthernetName returns the first enabled wired interface.
func (s *Settings) PrimaryEthernetName() (string, bool) {
	return first(s.Filter(func(r *NetworkRecord) bool { return !r.IsWifi && r.Enabled }))
}

// MarshalJSON encodes the records as an ordered array.
func (s *Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Records())
}

func names(recs []*NetworkRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func first(recs []*NetworkRecord) (string, bool) {
	if len(recs) == 0 {
		return "", false
	}
	return recs[0].Name, true
}
