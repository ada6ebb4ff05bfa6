package journald

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// EncoderPool defines a shared *Encoder pool, used to minimize heap
// allocations and to guarantee per-call buffer isolation when log events are
// emitted from concurrent goroutines.
type EncoderPool struct {
	p sync.Pool
	*EncoderOptions
}

// NewEncoderPool creates a shared *Encoder pool.
func NewEncoderPool(opts *EncoderOptions) *EncoderPool {
	if opts == nil {
		opts = DefaultEncoderOptions()
	} else {
		opts.resolve()
	}

	ep := &EncoderPool{EncoderOptions: opts}

	ep.p = sync.Pool{
		New: func() any {
			enc := NewEncoder(opts.NewBufferCap)
			enc.p = ep
			return enc
		},
	}

	return ep
}

// Get returns an empty Encoder from the pool.
func (p *EncoderPool) Get() *Encoder {
	return p.p.Get().(*Encoder)
}

// Put resets an Encoder and returns it to the shared pool.
func (p *EncoderPool) Put(e *Encoder) {

	// drop if the buffer got too large
	if e.Buffer.Cap() > p.MaxBufferCap {
		return
	}

	// reset for the next usage
	e.Buffer.Reset()

	// add back to the sync.Pool
	p.p.Put(e)
}

// Encoder serializes the fields of exactly one journal entry into the native
// wire format consumed by the journal daemon. Every field is emitted either
// as
//
//	NAME=VALUE\n
//
// when VALUE is newline-free, or in the binary-safe form
//
//	NAME\n<64-bit little-endian length><raw VALUE bytes>\n
//
// when it is not. The daemon accepts repeated field names within one entry,
// so the Encoder appends fields strictly in call order and never deduplicates.
type Encoder struct {
	*bytes.Buffer
	lenBuf [8]byte
	p      *EncoderPool
}

// NewEncoder returns a newly allocated Encoder.
func NewEncoder(bufferCap int) *Encoder {
	return &Encoder{Buffer: bytes.NewBuffer(make([]byte, 0, bufferCap))}
}

// Free returns the encoder to the shared pool after eagerly resetting it.
func (e *Encoder) Free() {
	if e.p != nil {
		e.p.Put(e)
	}
}

// DeepCopy returns a deep copy of the Encoder.
func (e *Encoder) DeepCopy() *Encoder {
	var e2 *Encoder
	if e.p != nil {
		e2 = e.p.Get()
	} else {
		e2 = NewEncoder(e.Cap())
	}
	e2.Write(e.Bytes())
	return e2
}

// AppendField appends one NAME=VALUE field. Values containing a newline byte
// are switched to the length-prefixed binary form, which transports them
// without ambiguity. An invalid field name returns an *EncodingError and
// leaves the buffer untouched.
func (e *Encoder) AppendField(name, value string) error {
	name, err := fieldName(name)
	if err != nil {
		return err
	}

	if strings.IndexByte(value, '\n') >= 0 {
		e.writeBinaryHeader(name, len(value))
		e.WriteString(value)
		e.WriteByte('\n')
		return nil
	}

	e.WriteString(name)
	e.WriteByte('=')
	e.WriteString(value)
	e.WriteByte('\n')
	return nil
}

// AppendBinaryField appends one field in the length-prefixed binary form,
// regardless of the value's content. This is the only representation that is
// safe for arbitrary bytes.
func (e *Encoder) AppendBinaryField(name string, value []byte) error {
	name, err := fieldName(name)
	if err != nil {
		return err
	}

	e.writeBinaryHeader(name, len(value))
	e.Write(value)
	e.WriteByte('\n')
	return nil
}

// AppendInt appends a field with the decimal text form of v.
func (e *Encoder) AppendInt(name string, v int64) error {
	return e.AppendField(name, strconv.FormatInt(v, 10))
}

// AppendUint appends a field with the decimal text form of v.
func (e *Encoder) AppendUint(name string, v uint64) error {
	return e.AppendField(name, strconv.FormatUint(v, 10))
}

// AppendBool appends a field with the value "true" or "false".
func (e *Encoder) AppendBool(name string, v bool) error {
	return e.AppendField(name, strconv.FormatBool(v))
}

// AppendFloat appends a field with the shortest decimal text form of v. The
// formatting is locale-independent.
func (e *Encoder) AppendFloat(name string, v float64) error {
	return e.AppendField(name, strconv.FormatFloat(v, 'g', -1, 64))
}

func (e *Encoder) writeBinaryHeader(name string, valueLen int) {
	e.WriteString(name)
	e.WriteByte('\n')
	binary.LittleEndian.PutUint64(e.lenBuf[:], uint64(valueLen))
	e.Write(e.lenBuf[:])
}

// fieldName normalizes and validates a journal field name. Lower-case ASCII
// letters are folded to upper case, matching the journal's field naming
// convention. Names must be non-empty, consist of [A-Z0-9_] after folding,
// and must not begin with an underscore, which the wire protocol reserves
// for fields the daemon assigns itself.
func fieldName(name string) (string, error) {
	if len(name) == 0 {
		return "", &EncodingError{Field: name, Reason: "name is empty"}
	}
	if name[0] == '_' {
		return "", &EncodingError{Field: name, Reason: "leading underscore is reserved for daemon-assigned fields"}
	}

	fold := false
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c >= 'a' && c <= 'z':
			fold = true
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return "", &EncodingError{Field: name, Reason: fmt.Sprintf("invalid character %q", c)}
		}
	}

	if fold {
		name = strings.ToUpper(name)
	}
	return name, nil
}
