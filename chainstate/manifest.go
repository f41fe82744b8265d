package chainstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SchemaVersionV1 is the only on-disk format this store understands.
// Grounded on node/store/manifest.go's SchemaVersionV1 constant and
// version-gate in Open.
const SchemaVersionV1 uint32 = 1

// Manifest records the store's own on-disk format version, independent of
// the chain's consensus rules (spec §4.E scopes only reads/writes of
// chainstate rows; the manifest is this package's own bookkeeping).
type Manifest struct {
	SchemaVersion uint32 `json:"schema_version"`
	Network       string `json:"network"`
}

func manifestPath(dir string) string {
	return filepath.Join(dir, "MANIFEST.json")
}

func readManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(manifestPath(dir)) // #nosec G304 -- dir is operator-controlled datadir, not user input.
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("chainstate: manifest json: %w", err)
	}
	return &m, nil
}

// writeManifestAtomic writes MANIFEST.json as a crash-safe commit point:
// write temp -> fsync temp -> rename -> fsync dir. Grounded verbatim on
// node/store/manifest.go's writeManifestAtomic.
func writeManifestAtomic(dir string, m *Manifest) error {
	if m == nil {
		return fmt.Errorf("chainstate: manifest: nil")
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("chainstate: manifest json: %w", err)
	}
	b = append(b, '\n')

	final := manifestPath(dir)
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304 -- tmp path derived from operator-controlled datadir.
	if err != nil {
		return fmt.Errorf("chainstate: manifest open tmp: %w", err)
	}
	_, werr := f.Write(b)
	serr := f.Sync()
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("chainstate: manifest write tmp: %w", werr)
	}
	if serr != nil {
		return fmt.Errorf("chainstate: manifest fsync tmp: %w", serr)
	}
	if cerr != nil {
		return fmt.Errorf("chainstate: manifest close tmp: %w", cerr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("chainstate: manifest rename: %w", err)
	}

	d, err := os.Open(dir) // #nosec G304 -- dir is operator-controlled datadir.
	if err != nil {
		return fmt.Errorf("chainstate: manifest fsync dir open: %w", err)
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("chainstate: manifest fsync dir: %w", err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("chainstate: manifest fsync dir close: %w", err)
	}
	return nil
}
