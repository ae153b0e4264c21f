package model

import "fmt"

// ValidationError reports a malformed input detected before any request is
// sent. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks that every required field of an open-online request is set.
func (r *OpenOnlineSessionRequest) Validate() error {
	if err := r.FormCode.validate(); err != nil {
		return err
	}
	return r.Encryption.validate()
}

// Validate checks that every required field of an open-batch request is set.
func (r *OpenBatchSessionRequest) Validate() error {
	if err := r.FormCode.validate(); err != nil {
		return err
	}
	if r.BatchFile.FileSize <= 0 {
		return &ValidationError{Field: "batchFile.fileSize", Reason: "must be positive"}
	}
	if r.BatchFile.FileHash == "" {
		return &ValidationError{Field: "batchFile.fileHash", Reason: "must not be empty"}
	}
	if len(r.BatchFile.FileParts) == 0 {
		return &ValidationError{Field: "batchFile.fileParts", Reason: "at least one part is required"}
	}
	for i, p := range r.BatchFile.FileParts {
		if p.OrdinalNumber <= 0 {
			return &ValidationError{Field: fmt.Sprintf("fileParts[%d].ordinalNumber", i), Reason: "must be positive"}
		}
		if p.FileSize <= 0 {
			return &ValidationError{Field: fmt.Sprintf("fileParts[%d].fileSize", i), Reason: "must be positive"}
		}
		if p.FileHash == "" {
			return &ValidationError{Field: fmt.Sprintf("fileParts[%d].fileHash", i), Reason: "must not be empty"}
		}
	}
	return r.Encryption.validate()
}

func (f FormCode) validate() error {
	if f.SystemCode == "" {
		return &ValidationError{Field: "formCode.systemCode", Reason: "must not be empty"}
	}
	if f.SchemaVersion == "" {
		return &ValidationError{Field: "formCode.schemaVersion", Reason: "must not be empty"}
	}
	if f.Value == "" {
		return &ValidationError{Field: "formCode.value", Reason: "must not be empty"}
	}
	return nil
}

func (e EncryptionInfo) validate() error {
	if e.EncryptedSymmetricKey == "" {
		return &ValidationError{Field: "encryption.encryptedSymmetricKey", Reason: "must not be empty"}
	}
	if e.InitializationVector == "" {
		return &ValidationError{Field: "encryption.initializationVector", Reason: "must not be empty"}
	}
	return nil
}
