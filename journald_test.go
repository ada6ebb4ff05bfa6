package journald

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// field is one decoded name/value pair. Decoding preserves order and
// repeated names, matching what the daemon itself would see.
type field struct {
	name  string
	value string
}

// decodeEntry parses a native-format entry back into its fields, handling
// both the NAME=VALUE form and the length-prefixed binary form.
func decodeEntry(t *testing.T, b []byte) []field {
	t.Helper()

	var fields []field
	for len(b) > 0 {
		nl := bytes.IndexByte(b, '\n')
		if nl < 0 {
			t.Fatalf("truncated entry: no newline in %q", b)
		}
		line := b[:nl]

		if eq := bytes.IndexByte(line, '='); eq >= 0 {
			fields = append(fields, field{string(line[:eq]), string(line[eq+1:])})
			b = b[nl+1:]
			continue
		}

		// binary form: NAME\n<8-byte little-endian length><raw bytes>\n
		name := string(line)
		b = b[nl+1:]
		if len(b) < 8 {
			t.Fatalf("truncated length prefix for field %s", name)
		}
		n := binary.LittleEndian.Uint64(b[:8])
		b = b[8:]
		if uint64(len(b)) < n+1 {
			t.Fatalf("truncated value for field %s: want %d bytes, have %d", name, n, len(b))
		}
		if b[n] != '\n' {
			t.Fatalf("missing trailing newline for field %s", name)
		}
		fields = append(fields, field{name, string(b[:n])})
		b = b[n+1:]
	}
	return fields
}

// fieldMap flattens decoded fields for tests that only care about presence,
// keeping the last value for any repeated name.
func fieldMap(fields []field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.name] = f.value
	}
	return m
}

// fakeTransport records the Client's delivery attempts. It implements the
// transport interface.
type fakeTransport struct {
	sendErr   error // returned by every send
	regionErr error // returned by every sendRegion
	sent      [][]byte
	regions   [][]byte
	closed    bool
}

func (f *fakeTransport) send(p []byte) error {
	f.sent = append(f.sent, append([]byte(nil), p...))
	return f.sendErr
}

func (f *fakeTransport) sendRegion(p []byte) error {
	f.regions = append(f.regions, append([]byte(nil), p...))
	return f.regionErr
}

func (f *fakeTransport) close() error {
	f.closed = true
	return nil
}

// testSink records decoded entries rather than sending them to the daemon.
// It implements the Handler's Sink interface.
type testSink struct {
	t       *testing.T
	sendErr error
	entries [][]field
}

func newTestSink(t *testing.T) *testSink {
	return &testSink{t: t}
}

func (s *testSink) Send(enc *Encoder) error {
	s.entries = append(s.entries, decodeEntry(s.t, enc.Bytes()))
	enc.Free()
	return s.sendErr
}

func (s *testSink) Close() error { return nil }

func (s *testSink) lastEntry() map[string]string {
	s.t.Helper()
	if len(s.entries) == 0 {
		s.t.Fatal("no entries were sent to the test sink")
	}
	return fieldMap(s.entries[len(s.entries)-1])
}
