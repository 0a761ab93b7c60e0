package instructions

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault_LoadsAllEntries(t *testing.T) {
	tbl := Default()
	for i := 0; i < 256; i++ {
		if tbl.Base[i].Mnemonic == Unknown {
			t.Fatalf("base %02X has unknown mnemonic", i)
		}
		if tbl.CB[i].Mnemonic == Unknown {
			t.Fatalf("cb %02X has unknown mnemonic", i)
		}
		if int(tbl.Base[i].OpCode) != i || int(tbl.CB[i].OpCode) != i {
			t.Fatalf("opcode field mismatch at %02X", i)
		}
		if !tbl.CB[i].Prefixed || tbl.Base[i].Prefixed {
			t.Fatalf("prefixed flag wrong at %02X", i)
		}
	}
	if Default() != tbl {
		t.Fatalf("Default returned a different table on second call")
	}
}

func TestDefault_KnownEntries(t *testing.T) {
	tbl := Default()
	cases := []struct {
		in   Instruction
		want string
		len  int
		cyc  int
	}{
		{tbl.Lookup(0x06, false), "06 LD B,d8", 2, 8},
		{tbl.Lookup(0x3C, false), "3C INC A", 1, 4},
		{tbl.Lookup(0xEA, false), "EA LD (a16),A", 3, 16},
		{tbl.Lookup(0x7C, true), "CB 7C BIT 7,H", 2, 8},
		{tbl.Lookup(0xFF, false), "FF RST 38H", 1, 16},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Fatalf("String got %q want %q", got, c.want)
		}
		if c.in.Length != c.len || c.in.Cycles != c.cyc {
			t.Fatalf("%s: length/cycles got %d/%d want %d/%d", c.want, c.in.Length, c.in.Cycles, c.len, c.cyc)
		}
	}

	jrc := tbl.Lookup(0x38, false)
	if jrc.Operand1 != CondC || jrc.Cycles != 12 || jrc.CyclesNotTaken != 8 {
		t.Fatalf("JR C,r8 decoded as %+v", jrc)
	}
	ldc := tbl.Lookup(0x4E, false)
	if ldc.Operand1 != C || ldc.Operand2 != IndHL {
		t.Fatalf("LD C,(HL) decoded as %+v", ldc)
	}
	if f := tbl.Lookup(0x3C, false).Flags; f.Effect(0) != Computed || f.Effect(1) != Reset || f.Effect(3) != Keep {
		t.Fatalf("INC A flags %q", f)
	}
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"not yaml":        "::: [",
		"missing section": "unprefixed:\n  \"0x00\": {mnemonic: NOP, length: 1, cycles: [4], flags: \"----\"}\n",
		"empty":           "",
	}
	for name, src := range cases {
		_, err := Load(strings.NewReader(src))
		if !errors.Is(err, ErrMalformedTable) {
			t.Fatalf("%s: got err %v want ErrMalformedTable", name, err)
		}
	}
}

func TestLoad_BadOperand(t *testing.T) {
	src := strings.Replace(string(opcodesYAML), `operand2: "d8"`, `operand2: "q9"`, 1)
	if _, err := Load(strings.NewReader(src)); !errors.Is(err, ErrMalformedTable) {
		t.Fatalf("got err %v want ErrMalformedTable", err)
	}
}

func TestParseOperand_CarryDisambiguation(t *testing.T) {
	if op, _ := ParseOperand("C", JP); op != CondC {
		t.Fatalf("JP C parsed as %v", op)
	}
	if op, _ := ParseOperand("C", LD); op != C {
		t.Fatalf("LD C parsed as %v", op)
	}
	if v, ok := RST28.RSTVector(); !ok || v != 0x28 {
		t.Fatalf("RST28 vector got %02X", v)
	}
	if n, ok := Bit6.BitIndex(); !ok || n != 6 {
		t.Fatalf("Bit6 index got %d", n)
	}
}

func TestOperand_Classes(t *testing.T) {
	if !FlagZ.IsFlag() || !FlagCY.IsFlag() || CondZ.IsFlag() {
		t.Fatalf("IsFlag misclassifies")
	}
	for _, op := range []Operand{D8, D16, A8, A16, R8} {
		if !op.IsImmediate() {
			t.Fatalf("%v not immediate", op)
		}
	}
	if A.IsImmediate() || IndHL.IsImmediate() {
		t.Fatalf("register operand reported immediate")
	}
}
