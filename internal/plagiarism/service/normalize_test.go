package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"plagiarism-service/internal/plagiarism/model"
)

func TestDialectFor(t *testing.T) {
	cases := map[string]model.Dialect{
		"main.py":     model.DialectPython,
		"main.PY":     model.DialectPython,
		"main.cpp":    model.DialectCpp,
		"defs.h":      model.DialectCpp,
		"impl.cc":     model.DialectCpp,
		"impl.cxx":    model.DialectCpp,
		"Main.java":   model.DialectJava,
		"notes.txt":   model.DialectGeneric,
		"noext":       model.DialectGeneric,
		"weird.py.md": model.DialectGeneric,
	}
	for name, want := range cases {
		assert.Equal(t, want, DialectFor(name), name)
	}
}

func TestSupportedExt(t *testing.T) {
	assert.True(t, SupportedExt("a.py"))
	assert.True(t, SupportedExt("b.CXX"))
	assert.False(t, SupportedExt("c.txt"))
	assert.False(t, SupportedExt("d"))
}

func TestNormalizePython(t *testing.T) {
	// пример из дашборда: a.py и b.py дают одну каноническую строку
	a := Normalize([]byte("import os\n#hi\nprint(1)"), model.DialectPython)
	b := Normalize([]byte("print(1)"), model.DialectPython)
	assert.Equal(t, "print(1)", a)
	assert.Equal(t, a, b)
}

func TestNormalizePythonOnlyBoilerplate(t *testing.T) {
	src := "# just a comment\nimport sys\nfrom os import path\n"
	assert.Empty(t, Normalize([]byte(src), model.DialectPython))
}

func TestNormalizeCpp(t *testing.T) {
	src := "#include <iostream>\nusing namespace std;\n" +
		"int Main() { // entry\n/* block\nspans lines */\nreturn 0; }\n"
	got := Normalize([]byte(src), model.DialectCpp)
	assert.Equal(t, "int main() { return 0; }", got)
}

func TestNormalizeJava(t *testing.T) {
	src := "package com.example;\nimport java.util.List;\n" +
		"class A { /* doc */ int x; // field\n}\n"
	got := Normalize([]byte(src), model.DialectJava)
	assert.Equal(t, "class a { int x; }", got)
}

func TestNormalizeGeneric(t *testing.T) {
	// generic не трогает комментарии, только канонизация
	got := Normalize([]byte("  Hello\n\tWORLD  # keep me "), model.DialectGeneric)
	assert.Equal(t, "hello world # keep me", got)
}

func TestNormalizeDeterministic(t *testing.T) {
	src := []byte("import os\nprint('X')  # hi\n")
	first := Normalize(src, model.DialectPython)
	second := Normalize(src, model.DialectPython)
	assert.Equal(t, first, second)
}

func TestNormalizeInvalidBytes(t *testing.T) {
	// битые байты не роняют нормализацию и не попадают в вывод
	raw := append([]byte("print(1)"), 0xff, 0xfe, 0xff)
	got := Normalize(raw, model.DialectPython)
	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "print(1)")
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil, model.DialectPython))
	assert.Empty(t, Normalize([]byte("   \n\t  "), model.DialectGeneric))
}
