package entities

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Document is a loosely-typed decoded YAML file.
type Document map[string]any

const publiccodeVersionKey = "publiccodeYmlVersion"

// contentsEnvelope is the part of a contents-API response the decoder needs.
type contentsEnvelope struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// DecodeDocument unwraps body according to envelope and parses it as YAML.
// Any failure is reported as ErrInvalidDocument.
func DecodeDocument(body []byte, envelope Envelope) (Document, error) {
	raw, err := unwrap(body, envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var doc Document
	if unmarshalErr := yaml.Unmarshal(raw, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, unmarshalErr)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	return doc, nil
}

// DecodePubliccode decodes a publiccode file and checks that it declares its version.
func DecodePubliccode(body []byte, envelope Envelope) (Document, error) {
	doc, err := DecodeDocument(body, envelope)
	if err != nil {
		return nil, err
	}

	version := doc.String(publiccodeVersionKey)
	if version == "" {
		return nil, fmt.Errorf("%w: %s is missing", ErrInvalidDocument, publiccodeVersionKey)
	}
	if !semver.IsValid(normalizeVersion(version)) {
		logger.Warnf("Publiccode file declares a non-semver %s %q", publiccodeVersionKey, version)
	}

	return doc, nil
}

// String returns the scalar at key formatted as text, or "" when absent.
func (d Document) String(key string) string {
	value, ok := d[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

func unwrap(body []byte, envelope Envelope) ([]byte, error) {
	switch envelope {
	case EnvelopeBase64:
		return decodeBase64(string(body))
	case EnvelopeJSONContents:
		var wrapped contentsEnvelope
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse contents envelope: %w", err)
		}
		if wrapped.Encoding != "" && wrapped.Encoding != "base64" {
			return []byte(wrapped.Content), nil
		}
		return decodeBase64(wrapped.Content)
	default:
		return body, nil
	}
}

func decodeBase64(content string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, content)

	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 content: %w", err)
	}
	return decoded, nil
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
