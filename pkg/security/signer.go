package security

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/beevik/etree"
	"github.com/leifj/signedxml"
)

// XML-DSig algorithm URIs used in the signature template.
const (
	algoRSASHA256         = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	algoSHA256            = "http://www.w3.org/2001/04/xmlenc#sha256"
	algoC14NExclusive     = "http://www.w3.org/2001/10/xml-exc-c14n#"
	algoEnvelopedSig      = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
	xmldsigCoreNamespace  = "http://www.w3.org/2000/09/xmldsig#"
)

// XadesSigner produces a digitally signed XML document from an unsigned
// one. The coordinator never inspects signature internals; it passes the
// signed bytes through verbatim. Callers with external signing
// infrastructure (HSM, qualified signature service) provide their own
// implementation.
type XadesSigner interface {
	Sign(ctx context.Context, unsignedXML []byte) ([]byte, error)
}

// XMLDSigSigner signs documents with an enveloped XML-DSig signature
// (RSA-SHA256, exclusive canonicalization) using the holder's certificate.
type XMLDSigSigner struct {
	privateKey *rsa.PrivateKey
	cert       *x509.Certificate
}

// NewXMLDSigSigner creates a signer from a private key and its certificate.
func NewXMLDSigSigner(privateKey *rsa.PrivateKey, cert *x509.Certificate) (*XMLDSigSigner, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if cert == nil {
		return nil, fmt.Errorf("certificate is required")
	}
	if _, ok := cert.PublicKey.(*rsa.PublicKey); !ok {
		return nil, fmt.Errorf("certificate does not contain an RSA public key")
	}
	return &XMLDSigSigner{privateKey: privateKey, cert: cert}, nil
}

// Sign parses the unsigned document, appends the signature template and
// lets signedxml compute the digest and signature values.
func (s *XMLDSigSigner) Sign(ctx context.Context, unsignedXML []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(unsignedXML); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("no root element found")
	}

	s.appendSignatureTemplate(root)

	xmlStr, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("failed to write XML: %w", err)
	}

	signer, err := signedxml.NewSigner(xmlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	signedXML, err := signer.Sign(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return []byte(signedXML), nil
}

// appendSignatureTemplate adds a ds:Signature element covering the whole
// document. Digest and signature values are placeholders filled in by
// signedxml during Sign().
func (s *XMLDSigSigner) appendSignatureTemplate(root *etree.Element) {
	sig := root.CreateElement("ds:Signature")
	sig.CreateAttr("xmlns:ds", xmldsigCoreNamespace)

	signedInfo := sig.CreateElement("ds:SignedInfo")

	c14nMethod := signedInfo.CreateElement("ds:CanonicalizationMethod")
	c14nMethod.CreateAttr("Algorithm", algoC14NExclusive)

	sigMethod := signedInfo.CreateElement("ds:SignatureMethod")
	sigMethod.CreateAttr("Algorithm", algoRSASHA256)

	// One enveloped reference over the whole document.
	ref := signedInfo.CreateElement("ds:Reference")
	ref.CreateAttr("URI", "")

	transforms := ref.CreateElement("ds:Transforms")
	enveloped := transforms.CreateElement("ds:Transform")
	enveloped.CreateAttr("Algorithm", algoEnvelopedSig)
	c14n := transforms.CreateElement("ds:Transform")
	c14n.CreateAttr("Algorithm", algoC14NExclusive)

	digestMethod := ref.CreateElement("ds:DigestMethod")
	digestMethod.CreateAttr("Algorithm", algoSHA256)

	digestValue := ref.CreateElement("ds:DigestValue")
	digestValue.SetText("placeholder")

	sigValue := sig.CreateElement("ds:SignatureValue")
	sigValue.SetText("placeholder")

	keyInfo := sig.CreateElement("ds:KeyInfo")
	x509Data := keyInfo.CreateElement("ds:X509Data")
	x509Cert := x509Data.CreateElement("ds:X509Certificate")
	x509Cert.SetText(base64.StdEncoding.EncodeToString(s.cert.Raw))
}
