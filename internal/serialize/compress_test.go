package serialize

import (
	"bytes"
	"sync"
	"testing"
)

func TestFramerRoundtrip(t *testing.T) {
	f, err := NewFramer()
	if err != nil {
		t.Fatalf("NewFramer failed: %v", err)
	}
	defer f.Close()

	payload := bytes.Repeat([]byte("composable filters "), 100)

	compressed, err := f.Compress(payload)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(compressed) >= len(payload) {
		t.Errorf("repetitive payload did not shrink: %d >= %d", len(compressed), len(payload))
	}

	decompressed, err := f.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(decompressed, payload) {
		t.Error("roundtrip changed the payload")
	}
}

func TestFramerEmptyPayload(t *testing.T) {
	f, err := NewFramer()
	if err != nil {
		t.Fatalf("NewFramer failed: %v", err)
	}
	defer f.Close()

	compressed, err := f.Compress(nil)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(compressed) != 0 {
		t.Errorf("expected empty output for empty input, got %d bytes", len(compressed))
	}

	decompressed, err := f.Decompress(nil)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if len(decompressed) != 0 {
		t.Errorf("expected empty output for empty input, got %d bytes", len(decompressed))
	}
}

func TestFramerCorruptData(t *testing.T) {
	f, err := NewFramer()
	if err != nil {
		t.Fatalf("NewFramer failed: %v", err)
	}
	defer f.Close()

	if _, err := f.Decompress([]byte{0xde, 0xad, 0xbe, 0xef}); err == nil {
		t.Error("expected error for corrupt data")
	}
}

func TestFramerConcurrent(t *testing.T) {
	f, err := NewFramer()
	if err != nil {
		t.Fatalf("NewFramer failed: %v", err)
	}
	defer f.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload := bytes.Repeat([]byte{byte(n)}, 1024)
			compressed, err := f.Compress(payload)
			if err != nil {
				t.Errorf("Compress failed: %v", err)
				return
			}
			decompressed, err := f.Decompress(compressed)
			if err != nil {
				t.Errorf("Decompress failed: %v", err)
				return
			}
			if !bytes.Equal(decompressed, payload) {
				t.Error("roundtrip changed the payload")
			}
		}(i)
	}
	wg.Wait()
}
