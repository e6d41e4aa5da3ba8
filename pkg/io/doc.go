// Package io provides JSON import and export for diagram snapshots.
//
// # JSON Format
//
// A snapshot is one object with three required members:
//
//	{
//	  "placements": [
//	    {"id": "node-1", "elementId": "elem-1", "position": {"x": 100, "y": 100}}
//	  ],
//	  "connections": [
//	    {"id": "edge-1", "source": "node-1", "target": "node-2", "label": "satisfy"}
//	  ],
//	  "elements": {
//	    "elem-1": {"id": "elem-1", "type": "Block", "name": "Main System", "description": "power: Real"}
//	  }
//	}
//
// Placements may carry optional "width" and "height" size hints; elements
// may carry an optional "stereotype". Connection styles are not written:
// they are derived from the label when the snapshot is rendered.
//
// # Import
//
// [Unmarshal] distinguishes two failures:
//
//   - bytes that are not JSON fail with errors.ErrCodeParse
//   - JSON missing any of the three members (or with the wrong shape) fails
//     with errors.ErrCodeInvalidFormat
//
// References are not checked. A placement pointing at an unknown element or
// a connection pointing at an unknown placement is accepted as is.
//
// [LoadInto] decodes and applies a snapshot to a store in one step; the store
// is untouched when decoding fails.
//
// # Export
//
// [Marshal] writes two-space indented JSON. Output is deterministic: slices
// keep their order and element keys are sorted. Exporting and re-importing a
// snapshot yields an equal snapshot.
package io
