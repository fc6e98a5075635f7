package hashkit

import "testing"

func TestString_Deterministic(t *testing.T) {
	a := String("hello")
	b := String("hello")
	if a != b {
		t.Errorf("String(\"hello\") not deterministic: %d != %d", a, b)
	}
	if String("hello") == String("world") {
		t.Errorf("String(\"hello\") == String(\"world\"), want distinct hashes")
	}
}

func TestBytes_Deterministic(t *testing.T) {
	a := Bytes([]byte("payload"))
	b := Bytes([]byte("payload"))
	if a != b {
		t.Errorf("Bytes not deterministic: %d != %d", a, b)
	}
}

func TestFast_Deterministic(t *testing.T) {
	a := Fast([]byte{1, 2, 3, 4})
	b := Fast([]byte{1, 2, 3, 4})
	if a != b {
		t.Errorf("Fast not deterministic: %d != %d", a, b)
	}
	if Fast([]byte{1, 2, 3, 4}) == Fast([]byte{4, 3, 2, 1}) {
		t.Errorf("Fast collided on distinct inputs of the same length")
	}
}

func TestUint64_Deterministic(t *testing.T) {
	for _, x := range []uint64{0, 1, 42, 1 << 63, ^uint64(0)} {
		if Uint64(x) != Uint64(x) {
			t.Errorf("Uint64(%d) not deterministic", x)
		}
	}
	if Uint64(1) == Uint64(2) {
		t.Errorf("Uint64(1) == Uint64(2), want distinct hashes")
	}
}

func TestAny_EqualKeysHashEqual(t *testing.T) {
	type point struct{ X, Y int }

	a := point{1, 2}
	b := point{1, 2}
	c := point{2, 1}

	if Any(a) != Any(b) {
		t.Errorf("Any(%v) != Any(%v), want equal keys to hash equal", a, b)
	}
	if Any(a) == Any(c) {
		t.Errorf("Any(%v) == Any(%v), want distinct keys to (almost always) hash distinct", a, c)
	}
}

func TestAny_StringKeys(t *testing.T) {
	if Any("x") == Any("y") {
		t.Errorf("Any(\"x\") == Any(\"y\")")
	}
	if Any("x") != Any("x") {
		t.Errorf("Any(\"x\") not deterministic")
	}
}
