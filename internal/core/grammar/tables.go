// Package grammar holds the per-language classification tables that drive
// the syntax extractor: which tree-sitter node kinds count as identifiers,
// comments, strings, method/type/property declarations, plus a keyword
// predicate. Adding a language means adding a table, a keyword set, and an
// extension mapping; the extractor itself never changes.
package grammar

import "strings"

// Table classifies raw node-kind labels for one language (or a family of
// languages sharing a grammar shape, like JavaScript/TypeScript).
type Table struct {
	Name string

	Identifiers map[string]struct{}
	Comments    map[string]struct{}
	Strings     map[string]struct{}
	Methods     map[string]struct{}
	Types       map[string]struct{}
	Properties  map[string]struct{}

	// ModifierContainers are wrapper nodes (e.g. Java "modifiers") whose
	// children are scanned for the modifier vocabulary.
	ModifierContainers map[string]struct{}

	// FoldKeywords compares keywords lower-cased (PHP); all other
	// languages compare exact-case.
	Keywords     map[string]struct{}
	FoldKeywords bool
}

func (t *Table) IsIdentifier(kind string) bool { return has(t.Identifiers, kind) }
func (t *Table) IsComment(kind string) bool    { return has(t.Comments, kind) }
func (t *Table) IsString(kind string) bool     { return has(t.Strings, kind) }
func (t *Table) IsMethod(kind string) bool     { return has(t.Methods, kind) }
func (t *Table) IsType(kind string) bool       { return has(t.Types, kind) }
func (t *Table) IsProperty(kind string) bool   { return has(t.Properties, kind) }

func (t *Table) IsModifierContainer(kind string) bool {
	return has(t.ModifierContainers, kind)
}

func (t *Table) IsKeyword(word string) bool {
	if t == nil || word == "" {
		return false
	}
	if t.FoldKeywords {
		word = strings.ToLower(word)
	}
	_, ok := t.Keywords[word]
	return ok
}

func has(m map[string]struct{}, k string) bool {
	if m == nil {
		return false
	}
	_, ok := m[k]
	return ok
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// JavaScript covers JavaScript and TypeScript; the two grammars share node
// kinds. TSX uses a distinct parser but the same table.
var JavaScript = &Table{
	Name: "javascript",
	Identifiers: set(
		"identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "type_identifier",
		"private_property_identifier",
	),
	Comments: set("comment", "html_comment"),
	Strings:  set("string", "template_string"),
	Methods: set(
		"function_declaration", "generator_function_declaration",
		"method_definition", "method_signature", "arrow_function",
		"function_expression",
	),
	Types: set(
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration",
	),
	Properties: set("public_field_definition", "field_definition", "property_signature"),
	Keywords: set(
		"abstract", "any", "as", "async", "await", "boolean", "break", "case",
		"catch", "class", "const", "continue", "debugger", "declare",
		"default", "delete", "do", "else", "enum", "export", "extends",
		"false", "finally", "for", "from", "function", "get", "if",
		"implements", "import", "in", "infer", "instanceof", "interface",
		"is", "keyof", "let", "module", "namespace", "never", "new", "null",
		"number", "object", "of", "private", "protected", "public",
		"readonly", "require", "return", "set", "static", "string", "super",
		"switch", "symbol", "this", "throw", "true", "try", "type", "typeof",
		"undefined", "unknown", "var", "void", "while", "with", "yield",
	),
}

var Python = &Table{
	Name:        "python",
	Identifiers: set("identifier"),
	Comments:    set("comment"),
	Strings:     set("string", "concatenated_string"),
	Methods:     set("function_definition"),
	Types:       set("class_definition"),
	Keywords: set(
		"False", "None", "True", "and", "as", "assert", "async", "await",
		"break", "case", "class", "continue", "def", "del", "elif", "else",
		"except", "finally", "for", "from", "global", "if", "import", "in",
		"is", "lambda", "match", "nonlocal", "not", "or", "pass", "raise",
		"return", "self", "try", "while", "with", "yield",
	),
}

var Go = &Table{
	Name: "go",
	Identifiers: set(
		"identifier", "type_identifier", "field_identifier",
		"package_identifier",
	),
	Comments:   set("comment"),
	Strings:    set("interpreted_string_literal", "raw_string_literal"),
	Methods:    set("function_declaration", "method_declaration", "func_literal"),
	Types:      set("type_spec"),
	Properties: set("field_declaration"),
	Keywords: set(
		"append", "bool", "break", "byte", "cap", "case", "chan", "const",
		"continue", "default", "defer", "else", "error", "fallthrough",
		"false", "for", "func", "go", "goto", "if", "import", "int",
		"interface", "iota", "len", "make", "map", "new", "nil", "package",
		"range", "return", "rune", "select", "string", "struct", "switch",
		"true", "type", "var",
	),
}

var Java = &Table{
	Name:        "java",
	Identifiers: set("identifier", "type_identifier"),
	Comments:    set("comment", "line_comment", "block_comment"),
	Strings:     set("string_literal", "text_block"),
	Methods:     set("method_declaration", "constructor_declaration"),
	Types: set(
		"class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration",
	),
	Properties:         set("field_declaration"),
	ModifierContainers: set("modifiers"),
	Keywords: set(
		"abstract", "assert", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "default", "do", "double",
		"else", "enum", "extends", "false", "final", "finally", "float",
		"for", "goto", "if", "implements", "import", "instanceof", "int",
		"interface", "long", "native", "new", "null", "package", "permits",
		"private", "protected", "public", "record", "return", "sealed",
		"short", "static", "strictfp", "super", "switch", "synchronized",
		"this", "throw", "throws", "transient", "true", "try", "var", "void",
		"volatile", "while",
	),
}

var C = &Table{
	Name:        "c",
	Identifiers: set("identifier", "type_identifier", "field_identifier"),
	Comments:    set("comment"),
	Strings:     set("string_literal"),
	Methods:     set("function_definition"),
	Types:       set("struct_specifier", "enum_specifier", "union_specifier"),
	Properties:  set("field_declaration"),
	Keywords: set(
		"auto", "break", "case", "char", "const", "continue", "default",
		"do", "double", "else", "enum", "extern", "float", "for", "goto",
		"if", "inline", "int", "long", "register", "restrict", "return",
		"short", "signed", "sizeof", "static", "struct", "switch", "typedef",
		"union", "unsigned", "void", "volatile", "while",
	),
}

var CPP = &Table{
	Name:        "cpp",
	Identifiers: set("identifier", "type_identifier", "field_identifier", "namespace_identifier"),
	Comments:    set("comment"),
	Strings:     set("string_literal", "raw_string_literal"),
	Methods:     set("function_definition"),
	Types: set(
		"class_specifier", "struct_specifier", "enum_specifier",
		"union_specifier",
	),
	Properties: set("field_declaration"),
	Keywords: set(
		"auto", "bool", "break", "case", "catch", "char", "class", "const",
		"constexpr", "continue", "default", "delete", "do", "double", "else",
		"enum", "explicit", "extern", "false", "final", "float", "for",
		"friend", "goto", "if", "inline", "int", "long", "mutable",
		"namespace", "new", "noexcept", "nullptr", "operator", "override",
		"private", "protected", "public", "register", "return", "short",
		"signed", "sizeof", "static", "struct", "switch", "template", "this",
		"throw", "true", "try", "typedef", "typename", "union", "unsigned",
		"using", "virtual", "void", "volatile", "while",
	),
}

var CSharp = &Table{
	Name:        "csharp",
	Identifiers: set("identifier"),
	Comments:    set("comment"),
	Strings: set(
		"string_literal", "verbatim_string_literal",
		"interpolated_string_expression", "raw_string_literal",
	),
	Methods: set(
		"method_declaration", "constructor_declaration",
		"local_function_statement",
	),
	Types: set(
		"class_declaration", "interface_declaration", "struct_declaration",
		"enum_declaration", "record_declaration",
	),
	Properties:         set("property_declaration", "field_declaration"),
	ModifierContainers: set("modifier"),
	Keywords: set(
		"abstract", "as", "async", "await", "base", "bool", "break", "byte",
		"case", "catch", "char", "checked", "class", "const", "continue",
		"decimal", "default", "delegate", "do", "double", "else", "enum",
		"event", "explicit", "extern", "false", "finally", "fixed", "float",
		"for", "foreach", "get", "goto", "if", "implicit", "in", "int",
		"interface", "internal", "is", "lock", "long", "namespace", "new",
		"null", "object", "operator", "out", "override", "params", "private",
		"protected", "public", "readonly", "record", "ref", "return",
		"sbyte", "sealed", "set", "short", "sizeof", "stackalloc", "static",
		"string", "struct", "switch", "this", "throw", "true", "try",
		"typeof", "uint", "ulong", "unchecked", "unsafe", "ushort", "using",
		"var", "virtual", "void", "volatile", "while",
	),
}

var PHP = &Table{
	Name:        "php",
	Identifiers: set("name"),
	Comments:    set("comment"),
	Strings:     set("string", "encapsed_string", "heredoc"),
	Methods:     set("function_definition", "method_declaration"),
	Types: set(
		"class_declaration", "interface_declaration", "trait_declaration",
		"enum_declaration",
	),
	Properties:   set("property_declaration"),
	FoldKeywords: true,
	Keywords: set(
		"abstract", "and", "array", "as", "break", "callable", "case",
		"catch", "class", "clone", "const", "continue", "declare", "default",
		"do", "echo", "else", "elseif", "empty", "enum", "extends", "false",
		"final", "finally", "fn", "for", "foreach", "function", "global",
		"goto", "if", "implements", "include", "instanceof", "insteadof",
		"interface", "isset", "list", "match", "namespace", "new", "null",
		"or", "parent", "print", "private", "protected", "public",
		"readonly", "require", "return", "self", "static", "switch", "this",
		"throw", "trait", "true", "try", "unset", "use", "var", "while",
		"xor", "yield",
	),
}

var Bash = &Table{
	Name:        "bash",
	Identifiers: set("variable_name", "command_name"),
	Comments:    set("comment"),
	Strings:     set("string", "raw_string"),
	Methods:     set("function_definition"),
	Keywords: set(
		"case", "coproc", "declare", "do", "done", "echo", "elif", "else",
		"esac", "exit", "export", "fi", "for", "function", "if", "in",
		"local", "readonly", "return", "select", "set", "shift", "then",
		"time", "unset", "until", "while",
	),
}

// JSON indexes string_content as terms: object keys always, string values
// when they are identifier-shaped single words. jsonc comments are harvested
// like any other comment.
var JSON = &Table{
	Name:        "json",
	Identifiers: set("string_content"),
	Comments:    set("comment"),
	Strings:     set("string"),
	Keywords:    set("true", "false", "null"),
}

// TableForExt maps a lower-cased file extension (with dot) to its table,
// or nil when the extension has no grammar.
func TableForExt(ext string) *Table {
	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx":
		return JavaScript
	case ".py":
		return Python
	case ".go":
		return Go
	case ".java":
		return Java
	case ".c":
		return C
	case ".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx", ".h":
		// Prefer C++ for headers; it can usually parse C too.
		return CPP
	case ".cs", ".csx":
		return CSharp
	case ".php":
		return PHP
	case ".sh", ".bash":
		return Bash
	case ".json", ".jsonc":
		return JSON
	default:
		return nil
	}
}
