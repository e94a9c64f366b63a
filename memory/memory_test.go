package memory

import "testing"

func TestRAMReadWrite(t *testing.T) {
	r := NewRAM()
	r.Write(0x1234, 0xAB)
	if got := r.Read(0x1234); got != 0xAB {
		t.Errorf("Read(0x1234) = %.2X, want AB", got)
	}
	if got := r.Read(0x0000); got != 0x00 {
		t.Errorf("Read(0x0000) = %.2X, want 00 (zeroed on NewRAM)", got)
	}
}

func TestRead16LittleEndian(t *testing.T) {
	r := NewRAM()
	r.Write(0x10FF, 0x34)
	r.Write(0x1100, 0x12)
	if got := Read16(r, 0x10FF); got != 0x1234 {
		t.Errorf("Read16(0x10FF) = %.4X, want 1234", got)
	}
}

func TestLoadAtWraps(t *testing.T) {
	r := NewRAM()
	r.LoadAt(0xFFFE, []uint8{0x01, 0x02, 0x03})
	if got := r.Read(0xFFFE); got != 0x01 {
		t.Errorf("Read(0xFFFE) = %.2X, want 01", got)
	}
	if got := r.Read(0xFFFF); got != 0x02 {
		t.Errorf("Read(0xFFFF) = %.2X, want 02", got)
	}
	if got := r.Read(0x0000); got != 0x03 {
		t.Errorf("Read(0x0000) = %.2X, want 03 (wrapped)", got)
	}
}
