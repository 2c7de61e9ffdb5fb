package loopprof

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestProfileRoundTrip(t *testing.T) {
	prof := &Profile{
		Reloc: 0x555500000000,
		Records: []Record{
			{Addr: 0x555500401000, ReadMPKI: 1.25, WriteMPKI: 0.5},
			{Addr: 0x555500402000, ReadMPKI: 17.375, WriteMPKI: 2.625},
		},
	}

	buf := &bytes.Buffer{}
	must(prof.EncodeTo(buf), t)

	wantLen := 8 + len(prof.Records)*24
	if buf.Len() != wantLen {
		t.Fatalf("encoded %d bytes, want %d", buf.Len(), wantLen)
	}

	got, err := DecodeProfile(bytes.NewReader(buf.Bytes()))
	must(err, t)
	if got.Reloc != prof.Reloc {
		t.Errorf("relocation %#x, want %#x", got.Reloc, prof.Reloc)
	}
	if len(got.Records) != len(prof.Records) {
		t.Fatalf("%d records, want %d", len(got.Records), len(prof.Records))
	}
	for i, rec := range got.Records {
		if rec != prof.Records[i] {
			t.Errorf("record %d: %+v, want %+v", i, rec, prof.Records[i])
		}
	}
}

func TestProfileLittleEndian(t *testing.T) {
	prof := &Profile{Reloc: 1}
	buf := &bytes.Buffer{}
	must(prof.EncodeTo(buf), t)

	if b := buf.Bytes(); b[0] != 1 || b[7] != 0 {
		t.Fatalf("relocation not little-endian: % x", b)
	}
}

// Degenerate samples serialize as IEEE bit patterns without corrupting
// neighboring records.
func TestProfileDegenerateValues(t *testing.T) {
	prof := &Profile{
		Records: []Record{
			{Addr: 0x1000, ReadMPKI: math.NaN(), WriteMPKI: math.Inf(1)},
			{Addr: 0x2000, ReadMPKI: 3, WriteMPKI: 4},
		},
	}

	buf := &bytes.Buffer{}
	must(prof.EncodeTo(buf), t)
	got, err := DecodeProfile(bytes.NewReader(buf.Bytes()))
	must(err, t)

	if !math.IsNaN(got.Records[0].ReadMPKI) {
		t.Errorf("read mpki %v, want NaN", got.Records[0].ReadMPKI)
	}
	if !math.IsInf(got.Records[0].WriteMPKI, 1) {
		t.Errorf("write mpki %v, want +Inf", got.Records[0].WriteMPKI)
	}
	if got.Records[1] != prof.Records[1] {
		t.Errorf("following record corrupted: %+v", got.Records[1])
	}
}

func TestDecodeTruncated(t *testing.T) {
	prof := &Profile{
		Reloc:   9,
		Records: []Record{{Addr: 0x1000, ReadMPKI: 1, WriteMPKI: 2}},
	}
	buf := &bytes.Buffer{}
	must(prof.EncodeTo(buf), t)

	// mid-record
	if _, err := DecodeProfile(bytes.NewReader(buf.Bytes()[:20])); err == nil {
		t.Error("decoding a file truncated mid-record did not fail")
	}
	// mid-header
	if _, err := DecodeProfile(bytes.NewReader(buf.Bytes()[:4])); err == nil {
		t.Error("decoding a truncated header did not fail")
	}
}

func TestDecodeEmptyProfile(t *testing.T) {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], 42)

	prof, err := DecodeProfile(bytes.NewReader(hdr[:]))
	must(err, t)
	if prof.Reloc != 42 || len(prof.Records) != 0 {
		t.Fatalf("got %+v, want relocation 42 and no records", prof)
	}
}

func TestStaticAddr(t *testing.T) {
	prof := &Profile{Reloc: 0x1000}
	rec := Record{Addr: 0x4567}
	if got := prof.StaticAddr(rec); got != 0x3567 {
		t.Fatalf("static address %#x, want 0x3567", got)
	}
}
