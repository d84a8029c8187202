package tmeta

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// DigestAlgorithm selects the hash used to fingerprint catalog files.
// The zero value is BLAKE3.
type DigestAlgorithm int

const (
	BLAKE3 DigestAlgorithm = iota
	SHA1
	SHA256Base16
	SHA256Base32
)

var ErrUnknownDigestAlgorithm = errors.New("unknown digest algorithm")

func (d DigestAlgorithm) String() string {
	switch d {
	case BLAKE3:
		return "blake3"
	case SHA1:
		return "sha1"
	case SHA256Base16:
		return "sha256"
	case SHA256Base32:
		return "sha256-base32"
	default:
		return "unknown"
	}
}

// ParseDigestAlgorithm parses an algorithm name as used on the command
// line and in digest prefixes.
func ParseDigestAlgorithm(s string) (DigestAlgorithm, error) {
	switch s {
	case "blake3":
		return BLAKE3, nil
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256Base16, nil
	case "sha256-base32":
		return SHA256Base32, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDigestAlgorithm, s)
	}
}

// GetDigest consumes r and returns its digest in "<algorithm>:<sum>"
// form.
func GetDigest(r io.Reader, digestAlgorithm DigestAlgorithm) (string, error) {
	switch digestAlgorithm {
	case BLAKE3:
		return getBLAKE3(r)
	case SHA1:
		return getSHA1(r)
	case SHA256Base16:
		return getSHA256Base16(r)
	case SHA256Base32:
		return getSHA256Base32(r)
	default:
		return "", ErrUnknownDigestAlgorithm
	}
}

func getSHA1(r io.Reader) (string, error) {
	sha := sha1.New()

	_, err := io.Copy(sha, r)
	if err != nil {
		return "", err
	}

	return "sha1:" + base32.StdEncoding.EncodeToString(sha.Sum(nil)), nil
}

func getSHA256Base32(r io.Reader) (string, error) {
	sha := sha256.New()

	_, err := io.Copy(sha, r)
	if err != nil {
		return "", err
	}

	return "sha256:" + base32.StdEncoding.EncodeToString(sha.Sum(nil)), nil
}

func getSHA256Base16(r io.Reader) (string, error) {
	sha := sha256.New()

	_, err := io.Copy(sha, r)
	if err != nil {
		return "", err
	}

	return "sha256:" + hex.EncodeToString(sha.Sum(nil)), nil
}

func getBLAKE3(r io.Reader) (string, error) {
	hash := blake3.New()

	_, err := io.Copy(hash, r)
	if err != nil {
		return "", err
	}

	return "blake3:" + hex.EncodeToString(hash.Sum(nil)), nil
}
