package scan

import (
	"bytes"
	"math/rand"
)

// fragments are spliced into noise to build binaries with hard cases:
// multi-byte and invalid bytes in front of "cargo", garbage inside a
// registry path, Windows separators, and ".rs" without a path.
var fragments = []string{
	"/home/u/.cargo/registry/src/index.crates.io-6f17d22bba15001f/addr2line-0.17.0/src/lib.rs",
	`C:\Users\dev\.cargo\registry\src\index.crates.io-1949cf8c6b5b557f\windows-sys-0.48.0\src\lib.rs`,
	"\u00e9cargo/registry/src/idx-deadbeef/serde-1.0.152",
	"\xe9cargo/registry/src/idx-0123abcd/foo-12",
	"\x80cargo/registry/src/idx-0123abcd/bar-34",
	"\ufffdcargo/registry/src/idx-0123abcd/baz-56",
	"/.cargo/registry/src/x\xff-deadbeef/",
	"/cargo/registry/src/mirror\n-deadbeef/qux-7.8",
	"/cargo/registry/src/a-0123abcd/cargo/registry/src/b-0123abcd/nested-1.0",
	"/rustc/84c898d65adf2f39a5a98507f1fe0ce10a2b8dbc/library/core/src/panicking.rs",
	"/home/dev/app/src/main.rs",
	"src/main.rs",
	".rs.rs/x.rs",
	"D:/work/a.rs",
	"cargo",
}

// noisyBinary returns n bytes of seeded noise with fragments spliced in.
func noisyBinary(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	for buf.Len() < n {
		if rng.Intn(4) == 0 {
			buf.WriteString(fragments[rng.Intn(len(fragments))])
			continue
		}
		chunk := make([]byte, rng.Intn(64))
		for i := range chunk {
			switch rng.Intn(3) {
			case 0:
				chunk[i] = byte(rng.Intn(256))
			case 1:
				chunk[i] = "abc./\\-_019:\n\x00"[rng.Intn(14)]
			default:
				chunk[i] = 0
			}
		}
		buf.Write(chunk)
	}
	return buf.Bytes()
}
