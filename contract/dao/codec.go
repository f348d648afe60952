package dao

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Record layout version; bumped when a field is added so old blobs fail loudly.
const codecVersion byte = 1

var errUnexpectedEOF = errors.New("unexpected EOF")

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeAmount stores 256-bit amounts as fixed 32-byte big-endian words.
func (w *binWriter) writeAmount(v *uint256.Int) {
	b := OrZero(v).Bytes32()
	w.buf.Write(b[:])
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a Address) {
	w.writeString(a.String())
}

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errUnexpectedEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readAmount() (*uint256.Int, error) {
	if r.pos+32 > len(r.data) {
		return nil, errUnexpectedEOF
	}
	v := new(uint256.Int).SetBytes(r.data[r.pos : r.pos+32])
	r.pos += 32
	return v, nil
}

func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddress() (Address, error) {
	s, err := r.readString()
	return Address(s), err
}

func (r *binReader) expectVersion(kind string) error {
	v, err := r.readByte()
	if err != nil {
		return err
	}
	if v != codecVersion {
		return fmt.Errorf("%s: unsupported record version %d", kind, v)
	}
	return nil
}

// ------------------------------------------------------------------
// Records
// ------------------------------------------------------------------

// EncodeListing serializes a listing and its land uses to a compact binary form.
func EncodeListing(l *ListingRecord) []byte {
	w := newWriter()
	w.buf.WriteByte(codecVersion)
	w.writeUint64(l.ID)
	w.writeString(l.Name)
	w.writeString(l.Symbol)
	w.writeString(l.MetadataURI)
	w.writeAddress(l.Beneficiary)
	w.writeInt64(l.CreatedAt)
	w.writeInt64(l.ClosingTime)
	w.writeVarUint(uint64(len(l.Uses)))
	for _, use := range l.Uses {
		w.writeAmount(use.TotalSupply)
		w.writeAmount(use.Goal)
		w.writeAmount(use.Rate)
		w.writeAddress(use.Token)
		w.writeAddress(use.Sale)
	}
	return w.bytes()
}

// DecodeListing is the inverse of EncodeListing.
func DecodeListing(data []byte) (*ListingRecord, error) {
	r := newReader(data)
	if err := r.expectVersion("listing"); err != nil {
		return nil, err
	}
	l := &ListingRecord{}
	var err error
	if l.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if l.Name, err = r.readString(); err != nil {
		return nil, err
	}
	if l.Symbol, err = r.readString(); err != nil {
		return nil, err
	}
	if l.MetadataURI, err = r.readString(); err != nil {
		return nil, err
	}
	if l.Beneficiary, err = r.readAddress(); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if l.ClosingTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	count, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	// three amounts and two length-prefixed addresses per land use
	if count > uint64(len(r.data)-r.pos)/(3*32+2) {
		return nil, errUnexpectedEOF
	}
	l.Uses = make([]LandUse, 0, count)
	for i := uint64(0); i < count; i++ {
		var use LandUse
		if use.TotalSupply, err = r.readAmount(); err != nil {
			return nil, err
		}
		if use.Goal, err = r.readAmount(); err != nil {
			return nil, err
		}
		if use.Rate, err = r.readAmount(); err != nil {
			return nil, err
		}
		if use.Token, err = r.readAddress(); err != nil {
			return nil, err
		}
		if use.Sale, err = r.readAddress(); err != nil {
			return nil, err
		}
		l.Uses = append(l.Uses, use)
	}
	return l, nil
}

// EncodeToken serializes unit token metadata.
func EncodeToken(t *TokenRecord) []byte {
	w := newWriter()
	w.buf.WriteByte(codecVersion)
	w.writeAddress(t.Address)
	w.writeUint64(t.ListingID)
	w.writeVarUint(uint64(t.Use))
	w.writeString(t.Name)
	w.writeString(t.Symbol)
	w.buf.WriteByte(t.Decimals)
	w.writeAmount(t.TotalSupply)
	w.writeAddress(t.Owner)
	w.writeAddress(t.AuthorizedSale)
	w.writeString(t.MetadataURI)
	return w.bytes()
}

// DecodeToken is the inverse of EncodeToken.
func DecodeToken(data []byte) (*TokenRecord, error) {
	r := newReader(data)
	if err := r.expectVersion("token"); err != nil {
		return nil, err
	}
	t := &TokenRecord{}
	var err error
	if t.Address, err = r.readAddress(); err != nil {
		return nil, err
	}
	if t.ListingID, err = r.readUint64(); err != nil {
		return nil, err
	}
	use, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	t.Use = uint32(use)
	if t.Name, err = r.readString(); err != nil {
		return nil, err
	}
	if t.Symbol, err = r.readString(); err != nil {
		return nil, err
	}
	if t.Decimals, err = r.readByte(); err != nil {
		return nil, err
	}
	if t.TotalSupply, err = r.readAmount(); err != nil {
		return nil, err
	}
	if t.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if t.AuthorizedSale, err = r.readAddress(); err != nil {
		return nil, err
	}
	if t.MetadataURI, err = r.readString(); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeSale serializes the sale accounting record.
func EncodeSale(s *SaleRecord) []byte {
	w := newWriter()
	w.buf.WriteByte(codecVersion)
	w.writeAddress(s.Address)
	w.writeUint64(s.ListingID)
	w.writeVarUint(uint64(s.Use))
	w.writeAddress(s.Token)
	w.writeAddress(s.Wallet)
	w.writeAmount(s.Goal)
	w.writeAmount(s.Rate)
	w.writeInt64(s.ClosingTime)
	w.writeAmount(s.Raised)
	w.writeBool(s.Withdrawn)
	return w.bytes()
}

// DecodeSale is the inverse of EncodeSale.
func DecodeSale(data []byte) (*SaleRecord, error) {
	r := newReader(data)
	if err := r.expectVersion("sale"); err != nil {
		return nil, err
	}
	s := &SaleRecord{}
	var err error
	if s.Address, err = r.readAddress(); err != nil {
		return nil, err
	}
	if s.ListingID, err = r.readUint64(); err != nil {
		return nil, err
	}
	use, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	s.Use = uint32(use)
	if s.Token, err = r.readAddress(); err != nil {
		return nil, err
	}
	if s.Wallet, err = r.readAddress(); err != nil {
		return nil, err
	}
	if s.Goal, err = r.readAmount(); err != nil {
		return nil, err
	}
	if s.Rate, err = r.readAmount(); err != nil {
		return nil, err
	}
	if s.ClosingTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if s.Raised, err = r.readAmount(); err != nil {
		return nil, err
	}
	if s.Withdrawn, err = r.readBool(); err != nil {
		return nil, err
	}
	return s, nil
}
