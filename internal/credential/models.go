// Package credential holds the verifiable-credential model shared by the cache,
// the exchange and the wallet client.
package credential

import "slices"

const baseType = "VerifiableCredential"

// Credential is a credential held in the user's wallet.
type Credential struct {
	ID             string   `json:"id"`
	Document       string   `json:"document,omitempty"`
	ParsedDocument Document `json:"parsedDocument"`
}

// Document is the decoded credential body.
type Document struct {
	ID                string         `json:"id,omitempty"`
	Type              []string       `json:"type"`
	Issuer            any            `json:"issuer,omitempty"`
	IssuanceDate      string         `json:"issuanceDate,omitempty"`
	CredentialSubject map[string]any `json:"credentialSubject,omitempty"`
}

// TypeTag is the credential's most specific type: the last entry of its type
// list that is not the generic base type.
func (c Credential) TypeTag() string {
	types := c.ParsedDocument.Type
	for i := len(types) - 1; i >= 0; i-- {
		if types[i] != "" && types[i] != baseType {
			return types[i]
		}
	}
	if slices.Contains(types, baseType) {
		return baseType
	}
	return ""
}
