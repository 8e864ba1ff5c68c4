package mkt

import (
	"fmt"
	"hash/crc32"
)

// checksum returns the CRC-32 of b as a hex string
func checksum(b []byte) string {
	h := crc32.NewIEEE()
	h.Write(b)

	return fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil))
}
