// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

// objectid.go assigns and recycles the server-assigned half of object
// ids: an index packed with an edition, free-list recycling once a
// watermark is reached, and a log warning on exhaustion rather than a
// panic. The server assigns positive ids; the client assigns negative
// ids to local-only objects.
//
// See: http://bitsquid.blogspot.ca/2014/08/building-data-oriented-entity-system.html

// Divide the id into an index (used for arena lookups) and an edition
// (tracks reuse so a stale reference is detected rather than silently
// aliased onto a new object).
const (
	idBits     = 20                   // index bits: max 1,048,575 live objects.
	edBits     = 12                   // edition bits: max 4096 generations.
	maxIndex   = (1 << idBits) - 1    // mask and max active indices.
	maxEdition = (1 << edBits) - 1    // mask and max dispose/reuse count.
	maxFree    = 1 << (edBits - 1)    // start recycling once free exceeds 2048.
)

// objectIndex returns the array-index portion of a server-assigned id.
func objectIndex(id int32) uint32 { return uint32(id) & maxIndex }

// objectEdition returns the edition (reuse generation) portion of id.
func objectEdition(id int32) uint16 { return uint16((uint32(id) >> idBits) & maxEdition) }

// idAllocator hands out positive, server-assigned object ids. It
// ensures a bounded set of unique identifiers so they can double as
// dense arena indices.
type idAllocator struct {
	editions []uint16 // per-index generation counter.
	free     []uint32 // indices ready for reuse.
	diag     *Diagnostics
}

func newIDAllocator(diag *Diagnostics) *idAllocator {
	return &idAllocator{diag: diag}
}

// create returns a new, never-before-live, positive object id. Zero is
// returned only once the id space is fully exhausted, which is a
// design-time sizing error rather than a condition callers must plan
// around in normal operation.
func (a *idAllocator) create() int32 {
	var index uint32
	if len(a.free) > maxFree {
		index = a.free[0]
		a.free = append(a.free[:0], a.free[1:]...)
	} else {
		a.editions = append(a.editions, 0)
		index = uint32(len(a.editions))
		if index > maxIndex {
			if len(a.free) == 0 {
				a.diag.Warn("object id space exhausted", "max_objects", maxIndex+1)
				return 0
			}
			index = a.free[0]
			a.free = append(a.free[:0], a.free[1:]...)
		}
	}
	return int32(index | uint32(a.editions[index-1])<<idBits)
}

// valid reports whether id was created by this allocator and has not
// since been disposed and recycled past this edition.
func (a *idAllocator) valid(id int32) bool {
	if id <= 0 {
		return false
	}
	index := objectIndex(id)
	if index == 0 || index > uint32(len(a.editions)) {
		return false
	}
	return a.editions[index-1] == objectEdition(id)
}

// dispose marks id invalid and queues its index for reuse under a new
// edition. An object's id is immutable after first assignment - the
// id value itself is never reissued meaningfully, only the underlying
// index slot, guarded by the edition check above.
func (a *idAllocator) dispose(id int32) {
	index := objectIndex(id)
	if index == 0 || index > uint32(len(a.editions)) {
		return
	}
	a.editions[index-1]++
	a.free = append(a.free, index)
}
