package loopprof

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// A Record is one call-site's final aggregate. Addr is the runtime PC of the
// call into the entry hook; subtracting the profile's relocation offset
// yields the static (link-time) address an external symbolizer can resolve.
type Record struct {
	Addr      uint64
	ReadMPKI  float64
	WriteMPKI float64
}

// A Profile is the content of an emitted profile file.
//
// The file layout is little-endian and fixed width: an 8-byte relocation
// offset, then one 24-byte record per call-site (8-byte address and two
// 8-byte IEEE doubles), with no delimiters or length prefix.
type Profile struct {
	Reloc   uint64
	Records []Record
}

// StaticAddr translates a record's runtime address back to the link-time
// address.
func (p *Profile) StaticAddr(r Record) uint64 {
	return r.Addr - p.Reloc
}

// Sort orders the records by the given key: "addr" sorts ascending,
// "read-mpki" and "write-mpki" sort highest first, since high miss rates are
// what a profile is read for. reverse flips the order.
func (p *Profile) Sort(key string, reverse bool) error {
	var metric func(r Record) float64
	switch key {
	case "addr":
		sort.Slice(p.Records, func(i, j int) bool {
			less := p.Records[i].Addr < p.Records[j].Addr
			return less != reverse
		})
		return nil
	case "read-mpki":
		metric = func(r Record) float64 { return r.ReadMPKI }
	case "write-mpki":
		metric = func(r Record) float64 { return r.WriteMPKI }
	default:
		return fmt.Errorf("invalid sort key %q", key)
	}
	sort.Slice(p.Records, func(i, j int) bool {
		more := metric(p.Records[i]) > metric(p.Records[j])
		return more != reverse
	})
	return nil
}

// EncodeTo serializes the profile.
func (p *Profile) EncodeTo(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, p.Reloc); err != nil {
		return err
	}
	for _, rec := range p.Records {
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return nil
}

// DecodeProfile reads a profile until EOF. A file truncated mid-record is an
// error.
func DecodeProfile(r io.Reader) (*Profile, error) {
	p := &Profile{}
	if err := binary.Read(r, binary.LittleEndian, &p.Reloc); err != nil {
		return nil, err
	}
	for {
		var rec Record
		err := binary.Read(r, binary.LittleEndian, &rec)
		if err == io.EOF {
			return p, nil
		}
		if err != nil {
			return nil, err
		}
		p.Records = append(p.Records, rec)
	}
}
