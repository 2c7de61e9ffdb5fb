package bininfo

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestMapsBase(t *testing.T) {
	const line = "55d06e179000-55d06e17b000 r--p 00000000 fd:01 1834628    /usr/bin/target\n" +
		"55d06e17b000-55d06e1f3000 r-xp 00002000 fd:01 1834628    /usr/bin/target\n"

	base, err := mapsBase(strings.NewReader(line))
	if err != nil {
		t.Fatal(err)
	}
	if base != 0x55d06e179000 {
		t.Fatalf("base %#x, want 0x55d06e179000", base)
	}
}

func TestMapsBaseGarbage(t *testing.T) {
	if _, err := mapsBase(strings.NewReader("not a maps line\n")); err == nil {
		t.Fatal("garbage maps content did not fail")
	}
}

func TestPCToFunc(t *testing.T) {
	b := &BinFile{
		funcs: []funcSym{
			{name: "alpha", addr: 0x1000, size: 0x100},
			{name: "_Z4betav", addr: 0x2000, size: 0x80},
			{name: "tail", addr: 0x3000, size: 0},
		},
	}

	name, err := b.PCToFunc(0x1010)
	if err != nil || name != "alpha" {
		t.Errorf("got (%q, %v), want alpha", name, err)
	}

	// demangled C++ name
	name, err = b.PCToFunc(0x2000)
	if err != nil || name != "beta()" {
		t.Errorf("got (%q, %v), want beta()", name, err)
	}

	// in the gap past alpha's end
	if _, err := b.PCToFunc(0x1200); err == nil {
		t.Error("address past function end resolved")
	}

	// before all functions
	if _, err := b.PCToFunc(0x500); err == nil {
		t.Error("address before all functions resolved")
	}

	// zero-size symbol accepts any following address
	name, err = b.PCToFunc(0x3456)
	if err != nil || name != "tail" {
		t.Errorf("got (%q, %v), want tail", name, err)
	}
}

func TestPCToFuncNoSymbols(t *testing.T) {
	b := &BinFile{}
	if _, err := b.PCToFunc(0x1000); err != ErrNoSymbols {
		t.Fatalf("got %v, want ErrNoSymbols", err)
	}
}

// Reads the test binary itself. Symbol presence depends on how the test was
// built, so missing tables only skip.
func TestReadSelf(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skip(err)
	}
	f, err := os.Open(exe)
	if err != nil {
		t.Skip(err)
	}
	defer f.Close()

	b, err := Read(f)
	if err != nil {
		t.Fatal(err)
	}
	if b.Pie() {
		t.Skip("test binary is position-independent; static addresses shifted")
	}
	if len(b.funcs) == 0 {
		t.Skip("test binary has no symbol table")
	}

	pc := uint64(reflect.ValueOf(TestReadSelf).Pointer())
	name, err := b.PCToFunc(pc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(name, "TestReadSelf") {
		t.Errorf("resolved %q for TestReadSelf's PC", name)
	}
}
