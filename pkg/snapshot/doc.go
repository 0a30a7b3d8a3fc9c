// Package snapshot provides the serialization format for full network
// state: every line, every point and the ID counters.
//
// This is the canonical wire format for save files, the HTTP API's
// export/load endpoints and the storage backends.
//
// # Format
//
// A snapshot is a JSON object keyed by entity ID:
//
//	{
//	  "lines":  {"1": {"id": 1, "name": "Line 1", "color": "#d92626", "point_ids": [1, 2]}},
//	  "points": {"1": {"id": 1, "lat": 48.13, "lng": 11.57, "lines": [1]}},
//	  "line_id_counter": 2,
//	  "point_id_counter": 3
//	}
//
// Counters travel with the data so a restored store never reissues an ID
// already present in the snapshot.
//
// # Common operations
//
//	data, _ := snapshot.Marshal(store)          // Store → []byte
//	snap, _ := snapshot.Unmarshal(data)         // []byte → Snapshot
//	err := snapshot.Restore(store, snap)        // replace store state
//	store, _ = snapshot.ToStore(snap, nil)      // Snapshot → fresh Store
//	snapshot.WriteFile(store, "network.json")   // Store → file
//	snap, _ = snapshot.ReadFile("network.json") // file → Snapshot
//
// Loading is all-or-nothing: structurally broken data (a line referencing
// a point the snapshot never defines, duplicate IDs, key/record mismatch)
// returns network.ErrInvalidSnapshot and leaves the target store untouched.
// Restore trusts that the two sides of the line/point bookkeeping agree;
// call Store.Validate afterwards for snapshots from untrusted sources.
package snapshot
