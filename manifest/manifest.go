// Package manifest records one conversion run as JSON: the config it
// ran with, a session id, and the per-tile outcomes. Session id
// generation follows mod_assets.go's makeAssetId pattern (a random
// google/uuid, not a content hash); encoding uses the standard library's
// encoding/json, matching the rest of this codebase's preference for
// the ecosystem's small, idiomatic JSON usage over an external library
// nothing else here requires.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"github.com/gekko3d/voxelmca/errs"
)

// TileEntry is one produced region's record.
type TileEntry struct {
	IX       int    `json:"ix"`
	IZ       int    `json:"iz"`
	Path     string `json:"path"`
	Occupied int    `json:"occupied_voxels"`
}

// Manifest is the full JSON document written alongside a run's output.
type Manifest struct {
	SessionID   string      `json:"session_id"`
	MeshPath    string      `json:"mesh_path"`
	Resolution  float32     `json:"resolution"`
	TileExtentX int         `json:"tile_extent_x"`
	TileExtentY int         `json:"tile_extent_y"`
	TileExtentZ int         `json:"tile_extent_z"`
	Tiles       []TileEntry `json:"tiles"`
}

// New starts a manifest for a run, stamping a fresh random session id.
func New(meshPath string, resolution float32, tileX, tileY, tileZ int) *Manifest {
	return &Manifest{
		SessionID:   uuid.NewString(),
		MeshPath:    meshPath,
		Resolution:  resolution,
		TileExtentX: tileX,
		TileExtentY: tileY,
		TileExtentZ: tileZ,
	}
}

func (m *Manifest) AddTile(t TileEntry) {
	m.Tiles = append(m.Tiles, t)
}

// Write marshals m as indented JSON to path.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.Internal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.IO(path, err)
	}
	return nil
}
