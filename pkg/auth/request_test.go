package auth

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openksef/go-ksef/pkg/model"
)

func TestBuildTokenRequest(t *testing.T) {
	data, err := BuildTokenRequest("20240101-CR-123", model.ContextIdentifier{
		Type:  model.ContextNIP,
		Value: "5265877635",
	}, SubjectCertificateSubject)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "AuthTokenRequest", root.Tag)
	assert.Equal(t, authTokenRequestNamespace, root.SelectAttrValue("xmlns", ""))

	challenge := root.FindElement("./Challenge")
	require.NotNil(t, challenge)
	assert.Equal(t, "20240101-CR-123", challenge.Text())

	nip := root.FindElement("./ContextIdentifier/Nip")
	require.NotNil(t, nip)
	assert.Equal(t, "5265877635", nip.Text())

	subjectType := root.FindElement("./SubjectIdentifierType")
	require.NotNil(t, subjectType)
	assert.Equal(t, "certificateSubject", subjectType.Text())
}

func TestBuildTokenRequestContextVariants(t *testing.T) {
	tests := []struct {
		typ     model.ContextIdentifierType
		element string
	}{
		{model.ContextNIP, "Nip"},
		{model.ContextInternalID, "InternalId"},
		{model.ContextVatEU, "VatUe"},
	}
	for _, tt := range tests {
		data, err := BuildTokenRequest("ch", model.ContextIdentifier{Type: tt.typ, Value: "id-1"}, "")
		require.NoError(t, err)

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromBytes(data))
		elem := doc.Root().FindElement("./ContextIdentifier/" + tt.element)
		require.NotNil(t, elem, "expected element %s", tt.element)
		assert.Equal(t, "id-1", elem.Text())
	}
}

func TestBuildTokenRequestValidation(t *testing.T) {
	var validationErr *model.ValidationError

	_, err := BuildTokenRequest("", model.ContextIdentifier{Type: model.ContextNIP, Value: "x"}, "")
	require.ErrorAs(t, err, &validationErr)

	_, err = BuildTokenRequest("ch", model.ContextIdentifier{Type: model.ContextNIP}, "")
	require.ErrorAs(t, err, &validationErr)

	_, err = BuildTokenRequest("ch", model.ContextIdentifier{Type: "Pesel", Value: "x"}, "")
	require.ErrorAs(t, err, &validationErr)
}

func TestBuildTokenRequestDefaultsSubjectType(t *testing.T) {
	data, err := BuildTokenRequest("ch", model.ContextIdentifier{Type: model.ContextNIP, Value: "x"}, "")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	subjectType := doc.Root().FindElement("./SubjectIdentifierType")
	require.NotNil(t, subjectType)
	assert.Equal(t, "certificateSubject", subjectType.Text())
}
