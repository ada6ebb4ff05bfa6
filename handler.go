package journald

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Handler is an adapter that serializes Go structured logs into native
// journal entries, without first collecting them into intermediate data
// structures such as map[string]any.
//
//	// Example of basic usage
//	h, err := journald.NewHandler(nil)
//	if err != nil {
//	   log.Fatalln(err)
//	}
//
//	logger := slog.New(h)
//	slog.SetDefault(logger)
//
//	slog.Info("unrecognized user", "user_id", userID)
//
// The journal's field space is flat, so groups do not nest: WithGroup and
// slog.Group prefix their member fields with the upper-cased group path,
// joined by underscores ("req.method" logs as REQ_METHOD).
type Handler struct {
	*HandlerOptions
	client Sink
	pool   *EncoderPool
	prefix string   // upper-cased group path, e.g. "REQ_"
	preEnc *Encoder // fields pre-encoded by WithAttrs
	pid    string
}

// Sink interface defines the Client API.
type Sink interface {
	Send(*Encoder) error
	Close() error
}

// NewHandler creates a Handler over a Client and an EncoderPool with default
// options, connected to the journal daemon's well-known socket.
//
// For complete control over the `journald.Client` and the encoding options
// used by the `journald.Encoder`s, use the `NewHandlerCustom` constructor.
func NewHandler(opts *HandlerOptions) (*Handler, error) {
	c, err := NewClient(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create journald.Client: %w", err)
	}

	return NewHandlerCustom(c, NewEncoderPool(nil), opts), nil
}

// NewHandlerCustom creates a Handler that wraps a Sink and an EncoderPool
// that are fully customizable by the caller.
func NewHandlerCustom(client Sink, pool *EncoderPool, opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = DefaultHandlerOptions()
	} else {
		opts.resolve()
	}

	return &Handler{
		HandlerOptions: opts,
		client:         client,
		pool:           pool,
		preEnc:         NewEncoder(1024),
		pid:            strconv.Itoa(os.Getpid()),
	}
}

// Close releases the underlying Client's socket. You MUST NOT log through
// the Handler after calling Close.
func (h *Handler) Close() error {
	h.debug("closing the logging stack")
	return h.client.Close()
}

// deepCopy creates a copy of the Handler that can be independently modified
// moving forward without impacting the parent handler it derives from; that
// requires a deep copy of the encoder holding the pre-encoded attr fields.
func (h *Handler) deepCopy() *Handler {
	h2 := *h
	h2.preEnc = h.preEnc.DeepCopy()
	return &h2
}

func (h *Handler) debug(format string, args ...any) {
	if !h.Verbose {
		return
	}
	InternalLogger().Printf(format, args...)
}

// Enabled reports whether the handler handles records at the given level.
// The handler ignores records whose level is lower. It is called early,
// before any arguments are processed, to save effort if the log event should
// be discarded.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Level.Level()
}

// Handle assembles one journal entry from the Record and hands it to the
// Sink for a single best-effort delivery. A malformed attribute costs only
// that field: the failure goes to the internal logger and the rest of the
// entry still ships. A delivery failure is reported once, to both the
// internal logger and the caller, and the entry is dropped.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {

	// helper for serialization error collection
	errs := new(encErrs)

	enc := h.pool.Get()

	errs.join("message", enc.AppendField("MESSAGE", r.Message))

	pri := PriorityFromLevel(r.Level)
	errs.join("priority", enc.AppendInt("PRIORITY", int64(pri)))

	if !h.OmitMessageID {
		errs.join("message id", enc.AppendField("MESSAGE_ID", MessageID(r.Message, h.Identifier, pri)))
	}

	errs.join("identifier", enc.AppendField("SYSLOG_IDENTIFIER", h.Identifier))
	errs.join("facility", enc.AppendInt("SYSLOG_FACILITY", int64(h.Facility)))
	errs.join("pid", enc.AppendField("SYSLOG_PID", h.pid))

	// rule: ignore record time if zero
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	errs.join("timestamp", enc.AppendInt("CREATED_USEC", t.UnixMicro()))

	// rule: ignore source if no program counter
	if h.AddSource && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		errs.join("source file", enc.AppendField("CODE_FILE", f.File))
		errs.join("source line", enc.AppendInt("CODE_LINE", int64(f.Line)))
		errs.join("source func", enc.AppendField("CODE_FUNC", f.Function))
	}

	// fields pre-encoded by WithAttrs
	enc.Write(h.preEnc.Bytes())

	// attrs from the slog.Record land in the deepest group
	r.Attrs(func(attr slog.Attr) bool {
		errs.join("record attr", h.appendAttr(enc, h.prefix, attr))
		return true // continue iterating
	})

	// record all serialization errors
	if errs.err != nil {
		InternalLogger().Printf("encoding errors in Handle:\n%v", errs.err)
	}

	if err := h.client.Send(enc); err != nil {
		InternalLogger().Printf("unable to write message %q to journald: %v", r.Message, err)
		return err
	}
	return nil
}

// encErrs collects serialization errors
type encErrs struct {
	err error
}

func (e *encErrs) join(target string, err error) (wasErr bool) {
	if err == nil {
		return false
	}
	e.err = errors.Join(e.err, fmt.Errorf("failed to encode %s: %w", target, err))
	return true
}

func (h *Handler) appendAttr(enc *Encoder, prefix string, attr slog.Attr) error {

	// rule: must first resolve, and then ignore if empty
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return nil
	}

	if attr.Value.Kind() == slog.KindGroup {
		gAttrs := attr.Value.Group()

		// rule: ignore empty groups entirely
		if len(gAttrs) == 0 {
			return nil
		}

		// rule: inline the group's attrs if its key is empty
		if len(attr.Key) != 0 {
			prefix = prefix + strings.ToUpper(attr.Key) + "_"
		}

		errs := new(encErrs)
		for i := 0; i < len(gAttrs); i++ {
			errs.join("attr in group "+attr.Key, h.appendAttr(enc, prefix, gAttrs[i]))
		}
		return errs.err
	}

	// rule: ignore non-group attrs with empty keys
	if len(attr.Key) == 0 {
		return nil
	}

	name := prefix + attr.Key

	switch v, vk := attr.Value, attr.Value.Kind(); vk {
	case slog.KindString:
		return enc.AppendField(name, v.String())
	case slog.KindInt64:
		return enc.AppendInt(name, v.Int64())
	case slog.KindUint64:
		return enc.AppendUint(name, v.Uint64())
	case slog.KindFloat64:
		return enc.AppendFloat(name, v.Float64())
	case slog.KindBool:
		return enc.AppendBool(name, v.Bool())
	case slog.KindDuration:
		return enc.AppendField(name, v.Duration().String())
	case slog.KindTime:
		return enc.AppendField(name, v.Time().Format(h.TimeFormat))
	case slog.KindAny:
		if b, ok := v.Any().([]byte); ok {
			return enc.AppendBinaryField(name, b)
		}
		// arbitrary values are converted to text here, at the adapter
		// boundary; the Encoder itself accepts only strings and bytes
		return enc.AppendField(name, fmt.Sprint(v.Any()))
	case slog.KindLogValuer:
		return errors.New("Value.Resolve() invariant violation")
	default:
		return fmt.Errorf("unknown slog.Value.Kind: %d", vk)
	}
}

// WithAttrs returns a new Handler whose attributes consist of both the
// receiver's attributes and the arguments, pre-encoded once no matter how
// many records later carry them. The Handler owns the slice: it may retain,
// modify or discard it.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {

	// rule: skip if no attrs
	if len(attrs) == 0 {
		return h
	}

	// make independent copy
	h2 := h.deepCopy()

	// gather serialization errors
	errs := new(encErrs)

	before := h2.preEnc.Len()
	for i := 0; i < len(attrs); i++ {
		errs.join("attr in WithAttrs", h2.appendAttr(h2.preEnc, h2.prefix, attrs[i]))
	}

	if errs.err != nil {
		InternalLogger().Println(errs.err)
	}

	// if none added, don't keep the copy
	if h2.preEnc.Len() == before {
		return h
	}

	return h2
}

// WithGroup returns a new Handler with the given group appended to the
// receiver's existing groups. The journal's field space is flat, so the
// group becomes an upper-cased field name prefix rather than a nesting
// level. That is,
//
//	logger.WithGroup("req").Info(msg, slog.String("method", "GET"))
//
// logs the field REQ_METHOD=GET, and behaves like
//
//	logger.Info(msg, slog.Group("req", slog.String("method", "GET")))
//
// If the name is empty, WithGroup returns the receiver, which results in the
// nested attributes being inlined into the parent scope.
func (h *Handler) WithGroup(name string) slog.Handler {

	// rule: ignore if name is empty (true for any attr)
	if len(name) == 0 {
		return h
	}

	h2 := h.deepCopy()
	h2.prefix = h.prefix + strings.ToUpper(name) + "_"
	return h2
}
