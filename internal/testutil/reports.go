package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleReadelf is `readelf --headers --symbols --wide` output for a small
// program whose entry point lies in _start.
const SampleReadelf = `ELF Header:
  Entry point address:               0x401020

Symbol table '.symtab' contains 6 entries:
   Num:    Value          Size Type    Bind   Vis      Ndx Name
     0: 0000000000000000     0 NOTYPE  LOCAL  DEFAULT  UND 
     1: 0000000000401020    38 FUNC    GLOBAL DEFAULT   14 _start
     2: 0000000000401100    38 FUNC    GLOBAL DEFAULT   14 get_oid
     3: 0000000000401126    27 FUNC    GLOBAL DEFAULT   14 lookup
     4: 0000000000401150    16 FUNC    GLOBAL DEFAULT   14 die
     5: 0000000000401160    16 FUNC    GLOBAL DEFAULT   14 usage
`

// SampleObjdump is `objdump -d --no-show-raw-insn` output matching
// SampleReadelf. It yields six direct control transfers:
//
//	_start -> get_oid, _start -> usage, get_oid -> lookup,
//	get_oid -> get_oid, lookup -> die, usage -> die
const SampleObjdump = `
0000000000401020 <_start>:
  401022:	call   401100 <get_oid>
  401027:	call   401160 <usage>

0000000000401100 <get_oid>:
  401101:	call   401126 <lookup>
  401108:	jne    401100 <get_oid>

0000000000401126 <lookup>:
  401130:	je     401150 <die>

0000000000401160 <usage>:
  401164:	jmp    401150 <die>
  401169:	call   *%rax
`

// WriteReports writes SampleReadelf and SampleObjdump to a temporary
// directory and returns their paths.
func WriteReports(t *testing.T) (readelfReport, objdumpReport string) {
	t.Helper()

	dir := t.TempDir()
	readelfReport = filepath.Join(dir, "prog.readelf")
	objdumpReport = filepath.Join(dir, "prog.objdump")

	if err := os.WriteFile(readelfReport, []byte(SampleReadelf), 0o644); err != nil {
		t.Fatalf("failed to write readelf report: %v", err)
	}
	if err := os.WriteFile(objdumpReport, []byte(SampleObjdump), 0o644); err != nil {
		t.Fatalf("failed to write objdump report: %v", err)
	}
	return readelfReport, objdumpReport
}
