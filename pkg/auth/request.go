package auth

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/openksef/go-ksef/pkg/model"
)

// authTokenRequestNamespace is the schema of the signed proof document.
const authTokenRequestNamespace = "http://ksef.mf.gov.pl/auth/token/2.0"

// SubjectIdentifierType declares how the signing certificate identifies
// the authenticating subject.
type SubjectIdentifierType string

const (
	// SubjectCertificateSubject matches the subject DN of the certificate.
	SubjectCertificateSubject SubjectIdentifierType = "certificateSubject"
	// SubjectCertificateFingerprint matches a pre-registered fingerprint.
	SubjectCertificateFingerprint SubjectIdentifierType = "certificateFingerprint"
)

// BuildTokenRequest renders the unsigned AuthTokenRequest document for the
// certificate flow. The document embeds the challenge text, the context
// identifier, and the declared subject identifier type; it is handed to a
// XadesSigner before submission.
func BuildTokenRequest(challenge string, context model.ContextIdentifier, subjectType SubjectIdentifierType) ([]byte, error) {
	if challenge == "" {
		return nil, &model.ValidationError{Field: "challenge", Reason: "must not be empty"}
	}
	if context.Value == "" {
		return nil, &model.ValidationError{Field: "contextIdentifier.value", Reason: "must not be empty"}
	}
	if subjectType == "" {
		subjectType = SubjectCertificateSubject
	}

	contextElement, err := contextElementName(context.Type)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("AuthTokenRequest")
	root.CreateAttr("xmlns", authTokenRequestNamespace)

	root.CreateElement("Challenge").SetText(challenge)

	contextID := root.CreateElement("ContextIdentifier")
	contextID.CreateElement(contextElement).SetText(context.Value)

	root.CreateElement("SubjectIdentifierType").SetText(string(subjectType))

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render request document: %w", err)
	}
	return data, nil
}

func contextElementName(typ model.ContextIdentifierType) (string, error) {
	switch typ {
	case model.ContextNIP:
		return "Nip", nil
	case model.ContextInternalID:
		return "InternalId", nil
	case model.ContextVatEU:
		return "VatUe", nil
	default:
		return "", &model.ValidationError{Field: "contextIdentifier.type", Reason: fmt.Sprintf("unknown type %q", typ)}
	}
}
