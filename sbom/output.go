package sbom

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattermost/bomsign/sign"
)

// Encode renders a document, with an optional signature block attached as a
// sibling "signature" field, to UTF-8 JSON
func Encode(doc Document, block *sign.Block, pretty bool) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	envelope := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if block != nil {
		signature, err := json.Marshal(block)
		if err != nil {
			return nil, fmt.Errorf("marshaling signature: %w", err)
		}
		envelope["signature"] = signature
	}
	if pretty {
		return json.MarshalIndent(envelope, "", "  ")
	}
	return json.Marshal(envelope)
}

// WriteFileAtomic writes data to path via a temporary file and rename, so a
// failed run never leaves a partially-written SBOM behind
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
