package keymap

import "testing"

func TestLayoutIsBidirectional(t *testing.T) {
	for code := byte(0); code < 16; code++ {
		key, ok := KeyForCode(code)
		if !ok {
			t.Fatalf("code %x has no host key mapped", code)
		}
		back, ok := CodeForKey(key)
		if !ok || back != code {
			t.Errorf("key %q for code %x maps back to %x, want %x", key, code, back, code)
		}
	}
}

func TestUnmappedKeyIsNotFound(t *testing.T) {
	if _, ok := CodeForKey('?'); ok {
		t.Fatal("'?' should not be mapped")
	}
}
