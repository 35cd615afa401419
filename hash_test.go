package mpq

import "testing"

// spec §8 property 2: fixed hash test vectors for the table decryption keys.
func TestHashTestVectors(t *testing.T) {
	cases := []struct {
		name string
		role hashRole
		want uint32
	}{
		{"(hash table)", hashRoleTable, 3283040112},
		{"(block table)", hashRoleTable, 0xEC83B3A3},
	}

	for _, c := range cases {
		if got := hashString(c.name, c.role); got != c.want {
			t.Errorf("hashString(%q, TABLE) = %d (0x%08X), want %d (0x%08X)", c.name, got, got, c.want, c.want)
		}
	}
}

func TestHashStringCaseInsensitive(t *testing.T) {
	lower := hashString("replay.details", hashRoleHashA)
	upper := hashString("REPLAY.DETAILS", hashRoleHashA)

	if lower != upper {
		t.Fatalf("hashString is case-sensitive: %d != %d", lower, upper)
	}
}

func TestHashTableKeys(t *testing.T) {
	if got := hashTableKey(); got != 3283040112 {
		t.Errorf("hashTableKey() = %d, want 3283040112", got)
	}
	if got := blockTableKey(); got != 0xEC83B3A3 {
		t.Errorf("blockTableKey() = 0x%08X, want 0xEC83B3A3", got)
	}
}
