// Package serialize provides ZStandard framing for predicate wire payloads.
package serialize

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Framer compresses and decompresses wire payloads.
// Create once and reuse to eliminate allocations; Close when done.
type Framer struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFramer creates a reusable ZStandard framer.
// Uses SpeedDefault (level 3) for balanced compression ratio and speed.
func NewFramer() (*Framer, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Framer{encoder: encoder, decoder: decoder}, nil
}

// Compress compresses a payload.
// Safe for concurrent use from multiple goroutines.
func (f *Framer) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	dst := make([]byte, 0, len(data)/2)
	return f.encoder.EncodeAll(data, dst), nil
}

// Decompress decompresses a payload.
// Safe for concurrent use from multiple goroutines.
func (f *Framer) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}
	decompressed, err := f.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return decompressed, nil
}

// Close releases framer resources.
func (f *Framer) Close() error {
	if f.decoder != nil {
		f.decoder.Close()
	}
	if f.encoder != nil {
		return f.encoder.Close()
	}
	return nil
}
