package record

import (
	"bytes"
	"io"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := Record{Key: []byte("key1"), Value: []byte("value1")}

	var buf bytes.Buffer
	n, err := Encode(&buf, r)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != buf.Len() {
		t.Fatalf("Encode returned %d, buffer has %d bytes", n, buf.Len())
	}
	if n != EncodedLen(r) {
		t.Fatalf("EncodedLen() = %d, Encode wrote %d", EncodedLen(r), n)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.Key, r.Key) || !bytes.Equal(got.Value, r.Value) {
		t.Fatalf("got %+v, want %+v", got, r)
	}
	if got.IsTombstone() {
		t.Fatal("decoded record should not be a tombstone")
	}
}

func TestEncodeDecodeTombstone(t *testing.T) {
	r := NewTombstone([]byte("key1"))

	var buf bytes.Buffer
	if _, err := Encode(&buf, r); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.IsTombstone() {
		t.Fatal("expected a tombstone record")
	}
	if !bytes.Equal(got.Key, r.Key) {
		t.Fatalf("got key %q, want %q", got.Key, r.Key)
	}
}

func TestDecodeCleanEOF(t *testing.T) {
	_, err := Decode(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestDecodeMidRecordEOFIsDeserializeError(t *testing.T) {
	var buf bytes.Buffer
	_, _ = Encode(&buf, Record{Key: []byte("key1"), Value: []byte("value1")})

	truncated := buf.Bytes()[:buf.Len()-2]
	_, err := Decode(bytes.NewReader(truncated))
	if err == nil {
		t.Fatal("expected a Deserialize error on truncated input")
	}
	if err == io.EOF {
		t.Fatal("mid-record truncation must not be reported as a clean EOF")
	}
}

func TestEncodeMultipleRecordsSequentially(t *testing.T) {
	records := []Record{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		NewTombstone([]byte("a")),
	}

	var buf bytes.Buffer
	for _, r := range records {
		if _, err := Encode(&buf, r); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	for _, want := range records {
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got.Key, want.Key) || !bytes.Equal(got.Value, want.Value) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}

	if _, err := Decode(&buf); err != io.EOF {
		t.Fatalf("got %v, want io.EOF at end of stream", err)
	}
}
