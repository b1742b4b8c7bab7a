package sbox

import (
	"math/bits"
)

// https://csrc.nist.gov/publications/fips/fips197/fips-197.pdf

// AES returns the AES S-box, FIPS-197 Figure 7.
//
// It is generated from the multiplicative inverse in GF(2⁸) modulo x⁸ + x⁴ + x³ + x + 1
// followed by the affine transformation, walking the field with the generator 3.
func AES() SBox {
	s := make(SBox, 256)

	var p, q uint8 = 1, 1
	for {
		/* multiply p by 3 */
		if p&0x80 != 0 {
			p ^= (p << 1) ^ 0x1b
		} else {
			p ^= p << 1
		}

		/* divide q by 3 (equals multiplication by 0xf6) */
		q ^= q << 1
		q ^= q << 2
		q ^= q << 4
		if q&0x80 != 0 {
			q ^= 0x09
		}

		/* compute the affine transformation */
		xformed := q ^ bits.RotateLeft8(q, 1) ^ bits.RotateLeft8(q, 2) ^ bits.RotateLeft8(q, 3) ^ bits.RotateLeft8(q, 4)
		s[p] = uint32(xformed ^ 0x63)

		if p == 1 {
			break
		}
	}

	/* 0 is a special case since it has no inverse */
	s[0] = 0x63
	return s
}
