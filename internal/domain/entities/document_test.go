//go:build unit

package entities_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

const validPubliccode = `publiccodeYmlVersion: "0.2"
name: Foo
developmentStatus: beta
`

func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	t.Run("should parse a plain YAML body", func(t *testing.T) {
		// given
		body := []byte(validPubliccode)

		// when
		doc, err := entities.DecodeDocument(body, entities.EnvelopeNone)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Foo", doc.String("name"))
	})

	t.Run("should decode a base64 body with line breaks before parsing", func(t *testing.T) {
		// given
		encoded := base64.StdEncoding.EncodeToString([]byte(validPubliccode))
		body := []byte(encoded[:10] + "\n" + encoded[10:] + "\n")

		// when
		doc, err := entities.DecodeDocument(body, entities.EnvelopeBase64)

		// then
		require.NoError(t, err)
		assert.Equal(t, "beta", doc.String("developmentStatus"))
	})

	t.Run("should unwrap a contents API JSON envelope", func(t *testing.T) {
		// given
		encoded := base64.StdEncoding.EncodeToString([]byte(validPubliccode))
		body := []byte(`{"type":"file","encoding":"base64","content":"` + encoded + `"}`)

		// when
		doc, err := entities.DecodeDocument(body, entities.EnvelopeJSONContents)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Foo", doc.String("name"))
	})

	t.Run("should report invalid YAML as an invalid document", func(t *testing.T) {
		// given
		body := []byte("name: [unclosed\n  - : :")

		// when
		doc, err := entities.DecodeDocument(body, entities.EnvelopeNone)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidDocument)
		assert.Nil(t, doc)
	})

	t.Run("should report an empty body as an invalid document", func(t *testing.T) {
		// given
		body := []byte("")

		// when
		_, err := entities.DecodeDocument(body, entities.EnvelopeNone)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidDocument)
	})

	t.Run("should report broken base64 as an invalid document", func(t *testing.T) {
		// given
		body := []byte("%%%not-base64%%%")

		// when
		_, err := entities.DecodeDocument(body, entities.EnvelopeBase64)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidDocument)
	})
}

func TestDecodePubliccode(t *testing.T) {
	t.Parallel()

	t.Run("should accept a document declaring publiccodeYmlVersion", func(t *testing.T) {
		// given
		body := []byte(validPubliccode)

		// when
		doc, err := entities.DecodePubliccode(body, entities.EnvelopeNone)

		// then
		require.NoError(t, err)
		assert.Equal(t, "0.2", doc.String("publiccodeYmlVersion"))
	})

	t.Run("should accept a numeric publiccodeYmlVersion", func(t *testing.T) {
		// given
		body := []byte("publiccodeYmlVersion: 0.3\nname: Foo\n")

		// when
		doc, err := entities.DecodePubliccode(body, entities.EnvelopeNone)

		// then
		require.NoError(t, err)
		assert.Equal(t, "0.3", doc.String("publiccodeYmlVersion"))
	})

	t.Run("should reject a document without publiccodeYmlVersion", func(t *testing.T) {
		// given
		body := []byte("name: Foo\n")

		// when
		_, err := entities.DecodePubliccode(body, entities.EnvelopeNone)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidDocument)
	})
}
