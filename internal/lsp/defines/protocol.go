package defines

// DocumentUri is the URI of a document, e.g. file:///home/user/script.sparv.
type DocumentUri string

/**
 * Position in a text document expressed as zero-based line and zero-based character offset.
 */
type Position struct {

	// Line position in a document (zero-based).
	Line uint `json:"line"`

	// Character offset on a line in a document (zero-based).
	Character uint `json:"character"`
}

/**
 * A range in a text document expressed as (zero-based) start and end positions, the end position is exclusive.
 */
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextDocumentIdentifier struct {
	Uri DocumentUri `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier

	// The version number of this document.
	Version int `json:"version"`
}

/**
 * An item to transfer a text document from the client to the server.
 */
type TextDocumentItem struct {
	Uri        DocumentUri `json:"uri"`
	LanguageId string      `json:"languageId"`

	// The version number of this document (it will increase after each change, including undo/redo).
	Version int    `json:"version"`
	Text    string `json:"text"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type TextEdit struct {

	// The range of the text document to be manipulated. To insert text into a document create a range where
	// start === end.
	Range Range `json:"range"`

	// The string to be inserted. For delete operations use an empty string.
	NewText string `json:"newText"`
}

// ---- Lifecycle -------------------------------

type ClientInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
}

type InitializeParams struct {
	ProcessId  *int         `json:"processId"`
	ClientInfo *ClientInfo  `json:"clientInfo,omitempty"`
	RootUri    *DocumentUri `json:"rootUri"`

	// User provided initialization options.
	InitializationOptions interface{} `json:"initializationOptions,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type InitializeResult struct {

	// The capabilities the language server provides.
	Capabilities ServerCapabilities `json:"capabilities"`

	// Information about the server.
	ServerInfo *ServerInfo `json:"serverInfo,omitempty"`
}

type ServerCapabilities struct {

	// Defines how text documents are synced.
	TextDocumentSync TextDocumentSyncKind `json:"textDocumentSync"`

	// The server provides completion support.
	CompletionProvider *CompletionOptions `json:"completionProvider,omitempty"`

	// The server provides hover support.
	HoverProvider bool `json:"hoverProvider,omitempty"`

	// The server provides semantic tokens support.
	SemanticTokensProvider *SemanticTokensOptions `json:"semanticTokensProvider,omitempty"`

	// The server provides document formatting.
	DocumentFormattingProvider bool `json:"documentFormattingProvider,omitempty"`
}

type InitializedParams struct{}

type TextDocumentSyncKind int

const (
	// Documents should not be synced at all.
	TextDocumentSyncKindNone TextDocumentSyncKind = 0

	// Documents are synced by always sending the full content of the document.
	TextDocumentSyncKindFull TextDocumentSyncKind = 1

	// Documents are synced by sending the full content on open. After that only incremental updates to the
	// document are sent.
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

// ---- Document synchronization -------------------------------

type DidOpenTextDocumentParams struct {

	// The document that was opened.
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {

	// The document that did change. The version number points to the version after all provided content changes
	// have been applied.
	TextDocument VersionedTextDocumentIdentifier `json:"textDocument"`

	// The actual content changes, with full synchronization there is a single change without range.
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

/**
 * An event describing a change to a text document. If range is omitted the new text is considered to be the
 * full content of the document.
 */
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidCloseTextDocumentParams struct {

	// The document that was closed.
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// ---- Diagnostics -------------------------------

type DiagnosticSeverity int

const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`

	// A human-readable string describing the source of this diagnostic, e.g. 'sparv'.
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

type PublishDiagnosticsParams struct {

	// The URI for which diagnostic information is reported.
	Uri DocumentUri `json:"uri"`

	// Optional the version number of the document the diagnostics are published for.
	Version *int `json:"version,omitempty"`

	// An array of diagnostic information items.
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ---- Completion -------------------------------

type CompletionOptions struct {

	// The characters that trigger completion automatically.
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type CompletionParams struct {
	TextDocumentPositionParams
}

type CompletionItemKind int

const (
	CompletionItemKindText     CompletionItemKind = 1
	CompletionItemKindMethod   CompletionItemKind = 2
	CompletionItemKindFunction CompletionItemKind = 3
	CompletionItemKindField    CompletionItemKind = 5
	CompletionItemKindVariable CompletionItemKind = 6
	CompletionItemKindKeyword  CompletionItemKind = 14
	CompletionItemKindSnippet  CompletionItemKind = 15
	CompletionItemKindConstant CompletionItemKind = 21
)

type InsertTextFormat int

const (
	InsertTextFormatPlainText InsertTextFormat = 1

	// The primary text to be inserted is treated as a snippet ($1, $2 are tab stops).
	InsertTextFormatSnippet InsertTextFormat = 2
)

type CompletionItemLabelDetails struct {

	// An optional string which is rendered less prominently directly after the label, without any spacing.
	Detail string `json:"detail,omitempty"`

	// An optional string which is rendered less prominently after the detail.
	Description string `json:"description,omitempty"`
}

type CompletionItem struct {

	// The label of this completion item, it is also the text that is inserted when selecting this completion
	// if no insert text is provided.
	Label        string                      `json:"label"`
	LabelDetails *CompletionItemLabelDetails `json:"labelDetails,omitempty"`
	Kind         CompletionItemKind          `json:"kind,omitempty"`

	// A human-readable string with additional information about this item, like type or symbol information.
	Detail        string         `json:"detail,omitempty"`
	Documentation *MarkupContent `json:"documentation,omitempty"`

	// A string that should be used when comparing this item with other items.
	SortText         string           `json:"sortText,omitempty"`
	InsertText       string           `json:"insertText,omitempty"`
	InsertTextFormat InsertTextFormat `json:"insertTextFormat,omitempty"`
}

type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// ---- Hover -------------------------------

type MarkupKind string

const (
	MarkupKindPlainText MarkupKind = "plaintext"
	MarkupKindMarkdown  MarkupKind = "markdown"
)

type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

type HoverParams struct {
	TextDocumentPositionParams
}

type Hover struct {
	Contents MarkupContent `json:"contents"`

	// The range the hover applies to, used to highlight the hovered symbol.
	Range *Range `json:"range,omitempty"`
}

// ---- Formatting -------------------------------

type FormattingOptions struct {

	// Size of a tab in spaces.
	TabSize uint `json:"tabSize"`

	// Prefer spaces over tabs.
	InsertSpaces bool `json:"insertSpaces"`
}

type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}
