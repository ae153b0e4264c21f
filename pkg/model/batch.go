package model

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// NewBatchFile splits an encrypted batch archive into parts of at most
// partSize bytes and builds the descriptor declared at batch-session open.
// It returns the descriptor together with the part payloads, in ordinal
// order, ready to be uploaded to the slots the server issues.
func NewBatchFile(archive []byte, partSize int) (BatchFile, [][]byte, error) {
	if len(archive) == 0 {
		return BatchFile{}, nil, &ValidationError{Field: "archive", Reason: "must not be empty"}
	}
	if partSize <= 0 {
		return BatchFile{}, nil, &ValidationError{Field: "partSize", Reason: "must be positive"}
	}

	batchID := uuid.New().String()
	var parts [][]byte
	var infos []BatchPartInfo
	for offset, ordinal := 0, 1; offset < len(archive); ordinal++ {
		end := offset + partSize
		if end > len(archive) {
			end = len(archive)
		}
		part := archive[offset:end]
		sum := sha256.Sum256(part)
		infos = append(infos, BatchPartInfo{
			OrdinalNumber: ordinal,
			FileName:      fmt.Sprintf("%s.part%03d", batchID, ordinal),
			FileSize:      int64(len(part)),
			FileHash:      base64.StdEncoding.EncodeToString(sum[:]),
		})
		parts = append(parts, part)
		offset = end
	}

	sum := sha256.Sum256(archive)
	return BatchFile{
		FileSize:  int64(len(archive)),
		FileHash:  base64.StdEncoding.EncodeToString(sum[:]),
		FileParts: infos,
	}, parts, nil
}
