package frame

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"github.com/snksoft/crc"

	"github.jpl.nasa.gov/bdube/rawframe/demosaic"
	"github.jpl.nasa.gov/bdube/rawframe/meta"
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// Wire format, all integers little-endian:
//
//	version   uint8
//	flags     uint8   bit0 payload compressed, bit1 timestamp present
//	pixtype   int8    BITPIX value of the sample type
//	cspace    uint8   0 gray, 1 bayer, 4 rgb
//	pattern   uint8   only if cspace is bayer
//	width     uint32
//	height    uint32
//	channels  uint8
//	tstamp    int64   unix nanoseconds, only if flagged
//	metacount uint32, then per entry:
//	  keylen  uint16, key bytes
//	  kind    uint8, payload (fixed width, or uint32-prefixed for strings)
//	  comlen  uint32, comment bytes
//	crc       uint32  CRC-32 of the raw uncompressed sample bytes
//	paylen    uint32
//	payload   raw sample bytes, zlib stream if the compressed flag is set
const codecVersion = 1

const (
	flagCompressed  = 1 << 0
	flagTimestamped = 1 << 1
)

const (
	wireGray  = 0
	wireBayer = 1
	wireRGB   = 4
)

// zero time instants cross the wire as this sentinel; UnixNano is undefined
// for them
const zeroTimeNanos = math.MinInt64

var crcTable = crc.NewTable(crc.CRC32)

func checksum(b []byte) uint32 {
	c := crcTable.InitCrc()
	c = crcTable.UpdateCrc(c, b)
	return crcTable.CRC32(c)
}

// Encode writes img to w in the versioned wire format, optionally
// compressing the pixel payload.
func Encode(w io.Writer, img *Image, compress bool) error {
	return encode(w, img.data.Ref(), img.tstamp, img.meta, compress)
}

// EncodeRef writes a bare frame to w: no timestamp, no metadata.  Decoding
// such a stream yields an Image with an unknown capture instant and an
// empty store.
func EncodeRef(w io.Writer, d DynamicRef, compress bool) error {
	return encode(w, d, time.Time{}, meta.NewStore(), compress)
}

func encode(w io.Writer, d DynamicRef, tstamp time.Time, store *meta.Store, compress bool) error {
	var buf bytes.Buffer
	flags := uint8(0)
	if compress {
		flags |= flagCompressed
	}
	if !tstamp.IsZero() {
		flags |= flagTimestamped
	}
	buf.WriteByte(codecVersion)
	buf.WriteByte(flags)
	buf.WriteByte(uint8(d.Type()))

	cs := d.ColorSpace()
	if cfa, ok := cs.CFA(); ok {
		buf.WriteByte(wireBayer)
		buf.WriteByte(uint8(cfa))
	} else if cs == RGB {
		buf.WriteByte(wireRGB)
	} else {
		buf.WriteByte(wireGray)
	}

	putU32(&buf, uint32(d.Width()))
	putU32(&buf, uint32(d.Height()))
	buf.WriteByte(uint8(d.Channels()))

	if flags&flagTimestamped != 0 {
		putU64(&buf, uint64(tstamp.UnixNano()))
	}

	entries := store.Entries()
	putU32(&buf, uint32(len(entries)))
	for _, e := range entries {
		putU16(&buf, uint16(len(e.Key)))
		buf.WriteString(e.Key)
		if err := encodeValue(&buf, e.Value); err != nil {
			return err
		}
		putU32(&buf, uint32(len(e.Comment)))
		buf.WriteString(e.Comment)
	}

	raw := d.Bytes()
	putU32(&buf, checksum(raw))

	payload := raw
	if compress {
		var comp bytes.Buffer
		zw := zlib.NewWriter(&comp)
		if _, err := zw.Write(raw); err != nil {
			return errors.Wrap(err, "compressing payload")
		}
		if err := zw.Close(); err != nil {
			return errors.Wrap(err, "compressing payload")
		}
		payload = comp.Bytes()
	}
	putU32(&buf, uint32(len(payload)))
	buf.Write(payload)

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "writing frame")
}

func encodeValue(buf *bytes.Buffer, v meta.Value) error {
	buf.WriteByte(uint8(v.Kind()))
	switch v.Kind() {
	case meta.Int:
		i, _ := v.Int()
		putU64(buf, uint64(i))
	case meta.Uint:
		u, _ := v.Uint()
		putU64(buf, u)
	case meta.Float32:
		f, _ := v.Float32()
		putU32(buf, math.Float32bits(f))
	case meta.Float64:
		f, _ := v.Float64()
		putU64(buf, math.Float64bits(f))
	case meta.String:
		s, _ := v.Text()
		putU32(buf, uint32(len(s)))
		buf.WriteString(s)
	case meta.Time:
		t, _ := v.Time()
		nanos := int64(zeroTimeNanos)
		if !t.IsZero() {
			nanos = t.UnixNano()
		}
		putU64(buf, uint64(nanos))
	case meta.Duration:
		d, _ := v.Duration()
		putU64(buf, uint64(d))
	default:
		return errors.Errorf("frame: unencodable metadata kind %d", v.Kind())
	}
	return nil
}

// Decode reads one frame from r.  The result is always an owning Image; a
// stream written by EncodeRef decodes with a zero timestamp and an empty
// metadata store.  Structural damage, truncation, and checksum mismatches
// all report ErrCorruptData; a foreign version byte reports
// ErrUnsupportedVersion.
func Decode(r io.Reader) (*Image, error) {
	hdr, err := readN(r, 4)
	if err != nil {
		return nil, err
	}
	if hdr[0] != codecVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", hdr[0])
	}
	flags := hdr[1]
	if flags&^uint8(flagCompressed|flagTimestamped) != 0 {
		return nil, errors.Wrapf(ErrCorruptData, "unknown flags %#x", flags)
	}
	ptype := pix.Type(int8(hdr[2]))
	if !ptype.Valid() {
		return nil, errors.Wrapf(ErrCorruptData, "pixel type %d", int8(hdr[2]))
	}

	var cspace ColorSpace
	switch hdr[3] {
	case wireGray:
		cspace = Gray
	case wireRGB:
		cspace = RGB
	case wireBayer:
		pat, err := readN(r, 1)
		if err != nil {
			return nil, err
		}
		if pat[0] > uint8(demosaic.GBRG) {
			return nil, errors.Wrapf(ErrCorruptData, "bayer pattern %d", pat[0])
		}
		cspace = cspaceOf(demosaic.CFA(pat[0]))
	default:
		return nil, errors.Wrapf(ErrCorruptData, "color space %d", hdr[3])
	}

	geom, err := readN(r, 9)
	if err != nil {
		return nil, err
	}
	width := int(binary.LittleEndian.Uint32(geom[0:4]))
	height := int(binary.LittleEndian.Uint32(geom[4:8]))
	if width < 1 || width > maxDim || height < 1 || height > maxDim {
		return nil, errors.Wrapf(ErrCorruptData, "dimensions %dx%d", width, height)
	}
	channels := int(geom[8])
	if channels != cspace.Channels() {
		return nil, errors.Wrapf(ErrCorruptData, "%d channels for %s", channels, cspace)
	}

	var tstamp time.Time
	if flags&flagTimestamped != 0 {
		b, err := readN(r, 8)
		if err != nil {
			return nil, err
		}
		tstamp = time.Unix(0, int64(binary.LittleEndian.Uint64(b)))
	}

	store, err := decodeMeta(r)
	if err != nil {
		return nil, err
	}

	tail, err := readN(r, 8)
	if err != nil {
		return nil, err
	}
	wantCRC := binary.LittleEndian.Uint32(tail[0:4])
	paylen := binary.LittleEndian.Uint32(tail[4:8])

	rawLen := width * height * channels * ptype.Size()
	if flags&flagCompressed == 0 && int(paylen) != rawLen {
		return nil, errors.Wrapf(ErrCorruptData, "payload %d bytes, want %d", paylen, rawLen)
	}
	// zlib worst case grows the input by a fraction of a percent
	if flags&flagCompressed != 0 && int64(paylen) > int64(rawLen)+int64(rawLen)/64+1024 {
		return nil, errors.Wrapf(ErrCorruptData, "compressed payload %d bytes for %d raw", paylen, rawLen)
	}
	payload, err := readN(r, int(paylen))
	if err != nil {
		return nil, err
	}

	raw := payload
	if flags&flagCompressed != 0 {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, errors.Wrap(ErrCorruptData, err.Error())
		}
		raw = make([]byte, rawLen)
		if _, err := io.ReadFull(zr, raw); err != nil {
			return nil, errors.Wrap(ErrCorruptData, err.Error())
		}
		// the stream must end exactly at the expected sample count
		var extra [1]byte
		if n, _ := zr.Read(extra[:]); n != 0 {
			return nil, errors.Wrap(ErrCorruptData, "trailing payload bytes")
		}
		zr.Close()
	}

	if got := checksum(raw); got != wantCRC {
		return nil, errors.Wrapf(ErrCorruptData, "checksum %#08x, want %#08x", got, wantCRC)
	}

	data, err := frameFromBytes(raw, width, height, cspace, ptype)
	if err != nil {
		return nil, errors.Wrap(ErrCorruptData, err.Error())
	}
	return &Image{tstamp: tstamp, meta: store, data: data}, nil
}

func decodeMeta(r io.Reader) (*meta.Store, error) {
	b, err := readN(r, 4)
	if err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(b)
	// one frame cannot meaningfully carry more header entries than this
	const maxEntries = 1 << 16
	if count > maxEntries {
		return nil, errors.Wrapf(ErrCorruptData, "%d metadata entries", count)
	}
	store := meta.NewStore()
	for i := uint32(0); i < count; i++ {
		kb, err := readN(r, 2)
		if err != nil {
			return nil, err
		}
		key, err := readN(r, int(binary.LittleEndian.Uint16(kb)))
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		cb, err := readN(r, 4)
		if err != nil {
			return nil, err
		}
		clen := binary.LittleEndian.Uint32(cb)
		if clen > meta.MaxStringLen {
			return nil, errors.Wrapf(ErrCorruptData, "comment of %d bytes", clen)
		}
		comment, err := readN(r, int(clen))
		if err != nil {
			return nil, err
		}
		if err := store.AddComment(string(key), val, string(comment)); err != nil {
			return nil, errors.Wrap(ErrCorruptData, err.Error())
		}
	}
	return store, nil
}

func decodeValue(r io.Reader) (meta.Value, error) {
	kb, err := readN(r, 1)
	if err != nil {
		return meta.Value{}, err
	}
	switch meta.Kind(kb[0]) {
	case meta.Int:
		u, err := readU64(r)
		return meta.IntValue(int64(u)), err
	case meta.Uint:
		u, err := readU64(r)
		return meta.UintValue(u), err
	case meta.Float32:
		b, err := readN(r, 4)
		if err != nil {
			return meta.Value{}, err
		}
		return meta.Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case meta.Float64:
		u, err := readU64(r)
		return meta.Float64Value(math.Float64frombits(u)), err
	case meta.String:
		lb, err := readN(r, 4)
		if err != nil {
			return meta.Value{}, err
		}
		slen := binary.LittleEndian.Uint32(lb)
		if slen > meta.MaxStringLen {
			return meta.Value{}, errors.Wrapf(ErrCorruptData, "string of %d bytes", slen)
		}
		s, err := readN(r, int(slen))
		return meta.StringValue(string(s)), err
	case meta.Time:
		u, err := readU64(r)
		if int64(u) == zeroTimeNanos {
			return meta.TimeValue(time.Time{}), err
		}
		return meta.TimeValue(time.Unix(0, int64(u))), err
	case meta.Duration:
		u, err := readU64(r)
		return meta.DurationValue(time.Duration(u)), err
	}
	return meta.Value{}, errors.Wrapf(ErrCorruptData, "metadata kind %d", kb[0])
}

func readN(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.Wrap(ErrCorruptData, err.Error())
	}
	return b, nil
}

func readU64(r io.Reader) (uint64, error) {
	b, err := readN(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func putU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
