package defines

/**
 * @since 3.16.0
 */
type SemanticTokensLegend struct {

	// The token types a server uses, the index of a type is the value sent in the data.
	TokenTypes []string `json:"tokenTypes"`

	// The token modifiers a server uses.
	TokenModifiers []string `json:"tokenModifiers"`
}

/**
 * @since 3.16.0
 */
type SemanticTokensOptions struct {

	// The legend used by the server
	Legend SemanticTokensLegend `json:"legend"`

	// Server supports providing semantic tokens for a specific range of a document.
	Range bool `json:"range,omitempty"`

	// Server supports providing semantic tokens for a full document.
	Full bool `json:"full,omitempty"`
}

/**
 * @since 3.16.0
 */
type SemanticTokensParams struct {

	// The text document.
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

/**
 * @since 3.16.0
 */
type SemanticTokens struct {

	// The actual tokens: each token is encoded as 5 integers (deltaLine, deltaStartChar, length, tokenType,
	// tokenModifiers), positions are relative to the previous token.
	Data []uint `json:"data"`
}
