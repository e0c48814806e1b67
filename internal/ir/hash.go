package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for content-addressed triple identity.
// Version suffix enables future algorithm migration.
const DomainTriple = "infospace/triple/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + part[0] + 0x00 + part[1] ...)
// The null byte separators keep "ab"+"c" and "a"+"bc" apart.
func hashWithDomain(domain string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TripleID derives the ID of the edge between id1 and id2.
// The ID is stable given the same two inputs, so creating the same logical
// edge twice produces the same triple ID. Inputs are NFC normalized first,
// so visually identical identifiers hash identically.
//
// Order matters: TripleID(a, b) != TripleID(b, a).
func TripleID(id1, id2 string) string {
	return hashWithDomain(DomainTriple, norm.NFC.String(id1), norm.NFC.String(id2))
}

// NewTriple builds a triple whose ID is TripleID(id1, id2).
func NewTriple(id1, id2 string) Triple {
	return Triple{ID: TripleID(id1, id2), ID1: id1, ID2: id2}
}
