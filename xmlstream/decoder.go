package xmlstream

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fenwick-labs/xmlstream/parser"
	"github.com/fenwick-labs/xmlstream/tokenizer"
	"github.com/fenwick-labs/xmlstream/xmldom"
)

// Decoder reads XML from an io.Reader in bounded chunks and drives a
// tokenizer.Tokenizer + parser.Parser pair. A Decoder is single-use and not
// safe for concurrent use.
type Decoder struct {
	cfg Config
	r   io.Reader
	id  uuid.UUID
	log *slog.Logger

	buf []byte
}

// NewDecoder returns a Decoder reading from r with cfg (DefaultConfig() if
// the zero Config is passed, recognized by a zero ReadBufferSize). Debug
// logging is silent; use NewDecoderWithLogger to attach one.
func NewDecoder(r io.Reader, cfg Config) *Decoder {
	return NewDecoderWithLogger(r, cfg, nil)
}

// NewDecoderWithLogger is NewDecoder with an explicit *slog.Logger. A nil
// logger keeps the Decoder silent; every record it does emit is tagged with
// the Decoder's correlation ID so concurrent decodes (one Decoder per
// goroutine) can be told apart in aggregated logs.
func NewDecoderWithLogger(r io.Reader, cfg Config, logger *slog.Logger) *Decoder {
	if cfg.ReadBufferSize == 0 {
		cfg = DefaultConfig()
	}
	id := uuid.New()
	d := &Decoder{cfg: cfg, r: r, id: id, buf: make([]byte, cfg.ReadBufferSize)}
	if logger != nil {
		d.log = logger.With("component", "xmlstream.Decoder", "decoder_id", id.String())
	}
	return d
}

// Decode reads the entire document from the Decoder's Reader and returns
// its built xmldom.Document. Use DecodeCallbacks instead to stream events
// to a custom parser.Callbacks without building a tree.
func (d *Decoder) Decode() (*xmldom.Document, error) {
	b := xmldom.NewBuilder()
	if err := d.DecodeCallbacks(b); err != nil {
		return nil, err
	}
	return b.Document()
}

// DecodeCallbacks drives cb directly from the streamed input, without
// building an xmldom.Document. Useful for validation-only consumers or
// alternative tree representations.
func (d *Decoder) DecodeCallbacks(cb parser.Callbacks) error {
	p := parser.New(d.cfg.Parser, cb)
	tok := tokenizer.New(d.cfg.Tokenizer)

	d.debug("decode started")
	chunks := 0
	for {
		n, err := d.r.Read(d.buf)
		if n > 0 {
			chunks++
			if procErr := tok.Process(d.buf[:n], p); procErr != nil {
				d.debug("decode failed", "chunks", chunks, "error", procErr)
				return procErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			d.debug("read failed", "chunks", chunks, "error", err)
			return err
		}
	}

	if err := tok.Finalize(p); err != nil {
		d.debug("finalize failed", "chunks", chunks, "error", err)
		return err
	}
	if err := p.Finalize(); err != nil {
		d.debug("parser finalize failed", "chunks", chunks, "error", err)
		return err
	}
	d.debug("decode finished", "chunks", chunks)
	return nil
}

func (d *Decoder) debug(msg string, args ...any) {
	if d.log != nil {
		d.log.Debug(msg, args...)
	}
}

// ID returns the Decoder's correlation ID, attached to every debug log
// record it emits.
func (d *Decoder) ID() uuid.UUID {
	return d.id
}
