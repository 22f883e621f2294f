package govitrite

import (
	"testing"
)

var gT *testing.T

func TestEdgePacking(t *testing.T) {
	gT = t

	e := FormEdge(7, 3)
	if e != FormEdge(3, 7) {
		t.Fatal("edge must be unordered")
	}
	lo, hi := e.Nodes()
	if lo != 3 || hi != 7 {
		t.Fatalf("unpacked %d, %d", lo, hi)
	}

	a := FormArc(7, 3)
	if a == Arc(FormEdge(7, 3)) {
		t.Fatal("arc must keep direction")
	}
	from, to := a.Nodes()
	if from != 7 || to != 3 {
		t.Fatalf("unpacked %d, %d", from, to)
	}
}

func TestCycleKeyEnc(t *testing.T) {
	gT = t

	c1 := Cycle{1, 2, 130, 70000}

	{
		var scrap [4]byte
		checkEncoding(c1, scrap[:])
	}

	{
		var scrap [200]byte
		checkEncoding(c1, scrap[:])
	}

	var c Cycle
	if err := c.InitFromKey(CycleKey{3, 1, 2}); err != ErrUnmarshal {
		gT.Fatalf("truncated key: got %v", err)
	}
}

func checkEncoding(c Cycle, scrap []byte) {
	enc := c.AppendKeyTo(scrap[:0])

	var dec Cycle
	err := dec.InitFromKey(enc)
	if err != nil {
		gT.Fatalf("cycle encoding error: %v", err)
	}

	if len(dec) != len(c) {
		gT.Fatalf("cycle encoding failed, should be:\n     %v\ngot:\n    %v", c, dec)
	}
	for i := range c {
		if dec[i] != c[i] {
			gT.Fatalf("cycle encoding failed, should be:\n     %v\ngot:\n    %v", c, dec)
		}
	}
}

func TestSpanOffsets(t *testing.T) {
	gT = t

	o := Offset{1, 0, -2}
	if o.IsZero() || !o.Add(o.Negate()).IsZero() {
		t.Fatal("offset arithmetic broken")
	}
}
