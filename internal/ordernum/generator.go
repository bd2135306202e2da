package ordernum

import "math/rand/v2"

// alphabet is the 36-symbol set order numbers are drawn from.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length of every generated order number.
const Length = 9

// Generate returns a 9-character order number with each position sampled
// uniformly and independently from [A-Z0-9]. The package-level rand source
// is safe for concurrent use, so calls from concurrent requests produce
// independent samples.
//
// Generation alone does not guarantee uniqueness: callers must check the
// candidate against the order store and regenerate on collision.
func Generate() string {
	buf := make([]byte, Length)
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}
