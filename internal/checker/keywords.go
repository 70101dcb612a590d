package checker

import "strings"

// 'bool' is not really primitive, but it is an omnipresent typedef.
// 'float' and 'double' are C primitives even though kernel code avoids
// them. 'void' itself cannot be declared, but derived types (pointer to
// void) can.
var primitiveTypes = []string{
	"signed", "unsigned", "char", "short", "int", "long",
	"size_t", "intptr_t", "uintptr_t", "void",
	"bool", "float", "double", "struct", "union", "enum",
}

// Non-exhaustive. The vast majority of kernel types are bare structs
// rather than typedefs; config can add project-specific ones.
var kernelTypedefs = []string{
	"u8", "u16", "u32", "u64", "s8", "s16", "s32", "s64",
	"cpumask_var_t",
}

var storageClasses = []string{"auto", "static", "register", "extern"}

var typeQualifiers = []string{"const", "volatile", "restrict"}

// KeywordSet answers whether a line's first token opens a variable
// declaration. The set is fixed at construction and safe to share
// across concurrent scans.
type KeywordSet struct {
	openers map[string]bool
}

// NewKeywordSet builds the declaration-opener set from the built-in
// primitive types, kernel typedefs, storage classes and qualifiers,
// plus any extra tokens (typically project typedef names).
func NewKeywordSet(extra ...string) *KeywordSet {
	openers := make(map[string]bool,
		len(primitiveTypes)+len(kernelTypedefs)+len(storageClasses)+len(typeQualifiers)+len(extra))

	for _, group := range [][]string{primitiveTypes, kernelTypedefs, storageClasses, typeQualifiers} {
		for _, word := range group {
			openers[word] = true
		}
	}
	for _, word := range extra {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		openers[word] = true
	}

	return &KeywordSet{openers: openers}
}

// IsDecl reports whether a trimmed line looks like the start of a
// declaration: its first space-delimited token is a type name, storage
// class or qualifier. No sanely-formatted non-declaration should ever
// begin with one of those.
func (k *KeywordSet) IsDecl(line string) bool {
	word, _, _ := strings.Cut(line, " ")
	return k.openers[word]
}
