// Package bininfo provides functions for reading elf binary files and
// mapping addresses back to functions and source lines. It also determines
// whether an executable is position-independent and, if so, computes the
// load offset of a running instance.
package bininfo

import (
	"bufio"
	"debug/dwarf"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

var (
	ErrInvalidElfType = errors.New("invalid elf type")
	ErrNoSymbols      = errors.New("no elf symbol table")
	ErrNoDwarf        = errors.New("no DWARF debugging data")
)

type funcSym struct {
	name string
	addr uint64
	size uint64
}

// A BinFile maps addresses inside an executable to functions and source
// lines. Function names are demangled, since instrumented binaries are
// typically built from C/C++ sources. The BinFile also tracks if the
// executable is position-independent.
type BinFile struct {
	pie   bool
	funcs []funcSym
	dwarf *dwarf.Data
}

// Read creates a new BinFile from an io.ReaderAt. Missing symbol tables or
// debugging data are not errors; the corresponding lookups report them
// instead.
func Read(r io.ReaderAt) (*BinFile, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := &BinFile{}

	if f.Type == elf.ET_DYN || f.Type == elf.ET_REL {
		b.pie = true
	} else if f.Type != elf.ET_EXEC {
		return nil, ErrInvalidElfType
	}

	b.buildFuncCache(f)
	if dw, err := f.DWARF(); err == nil {
		b.dwarf = dw
	}

	return b, nil
}

func (b *BinFile) buildFuncCache(f *elf.File) error {
	symbols, err := f.Symbols()
	if err != nil {
		return err
	}

	for _, s := range symbols {
		if elf.ST_TYPE(s.Info) == elf.STT_FUNC {
			b.funcs = append(b.funcs, funcSym{
				name: s.Name,
				addr: s.Value,
				size: s.Size,
			})
		}
	}
	sort.Slice(b.funcs, func(i, j int) bool {
		return b.funcs[i].addr < b.funcs[j].addr
	})

	return nil
}

// Pie returns true if this executable is position-independent.
func (b *BinFile) Pie() bool {
	return b.pie
}

// PCToFunc returns the demangled name of the function containing the given
// static address.
func (b *BinFile) PCToFunc(pc uint64) (string, error) {
	if len(b.funcs) == 0 {
		return "", ErrNoSymbols
	}

	// first symbol above pc, then step back
	i := sort.Search(len(b.funcs), func(i int) bool {
		return b.funcs[i].addr > pc
	})
	if i == 0 {
		return "", fmt.Errorf("0x%x precedes all known functions", pc)
	}
	fn := b.funcs[i-1]
	if fn.size != 0 && pc >= fn.addr+fn.size {
		return "", fmt.Errorf("0x%x is not inside a known function", pc)
	}
	return demangle.Filter(fn.name), nil
}

// PCToLine returns the source file and line for the given static address,
// using the DWARF line tables.
func (b *BinFile) PCToLine(pc uint64) (string, int, error) {
	if b.dwarf == nil {
		return "", 0, ErrNoDwarf
	}

	r := b.dwarf.Reader()
	cu, err := r.SeekPC(pc)
	if err != nil {
		return "", 0, fmt.Errorf("0x%x has no compile unit", pc)
	}
	lr, err := b.dwarf.LineReader(cu)
	if err != nil || lr == nil {
		return "", 0, ErrNoDwarf
	}

	var entry dwarf.LineEntry
	if err := lr.SeekPC(pc, &entry); err != nil {
		return "", 0, fmt.Errorf("0x%x has no line info", pc)
	}
	file := "<unknown>"
	if entry.File != nil {
		file = entry.File.Name
	}
	return file, entry.Line, nil
}

// PieOffset returns the PIE/ASLR offset for a running instance of this
// binary file. It reads /proc/pid/maps to determine the right location, so
// the caller must be the process itself or have ptrace permissions. If
// possible, you should cache the result of this function instead of calling
// it multiple times.
func (b *BinFile) PieOffset(pid int) (uint64, error) {
	if !b.pie {
		return 0, nil
	}

	maps, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return 0, err
	}
	defer maps.Close()

	return mapsBase(maps)
}

// mapsBase extracts the base address from the first line of a
// /proc/pid/maps file (the bottom mapping of the text segment).
func mapsBase(r io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
	}
	parts := strings.Split(scanner.Text(), "-")
	if len(parts) < 1 {
		return 0, errors.New("invalid /proc/pid/maps format")
	}
	off, err := strconv.ParseUint("0x"+parts[0], 0, 64)
	if err != nil {
		return 0, err
	}
	return off, nil
}
