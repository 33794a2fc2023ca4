package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"zigdoc/internal/docmodel"
)

// The encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

// ContentHash returns the hex BLAKE2b-256 digest of src.
func ContentHash(src []byte) string {
	sum := blake2b.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// encodeModel serializes a model as zstd-compressed JSON.
func encodeModel(m *docmodel.Model) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

func decodeModel(blob []byte) (*docmodel.Model, error) {
	raw, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	var m docmodel.Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return docmodel.Assemble(m.Doc, m.Functions, m.Constants, m.Structs), nil
}
