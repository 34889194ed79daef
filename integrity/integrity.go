package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// BlockSize is the read granularity for streaming hashing.
const BlockSize = 64 * 1024

// ZeroSizedChecksumSHA256 is the sha256 of empty input, hex encoded.
// Content with this checksum is never admitted into the blob store.
const ZeroSizedChecksumSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// EmptyFileError reports an attempt to hash zero-length content.
// A zero-length blob cannot be content-addressed meaningfully, so
// hashing refuses it instead of producing the well-known empty digest.
type EmptyFileError struct {
	Path string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("file %q is empty and cannot be hashed", e.Path)
}

// ChecksumFile computes the sha256 of the file at path, reading it in
// BlockSize chunks. It returns the lowercase hex digest.
// A zero-length file yields an EmptyFileError.
func ChecksumFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", &EmptyFileError{Path: path}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return checksumReader(f)
}

func checksumReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	buf := make([]byte, BlockSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
