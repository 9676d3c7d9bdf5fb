package service

import (
	"path/filepath"
	"regexp"
	"strings"

	"plagiarism-service/internal/plagiarism/model"
)

// Расширения, которые принимаем и умеем чистить. Один список на весь
// пайплайн: и для валидации загрузки, и для препроцессинга.
var validExt = map[string]bool{
	".py":   true,
	".cpp":  true,
	".h":    true,
	".cc":   true,
	".cxx":  true,
	".java": true,
}

// SupportedExt — входит ли расширение файла в поддерживаемый набор.
func SupportedExt(filename string) bool {
	return validExt[strings.ToLower(filepath.Ext(filename))]
}

// ValidExtensions — отсортированный список для сообщений об ошибках.
func ValidExtensions() []string {
	return []string{".cc", ".cpp", ".cxx", ".h", ".java", ".py"}
}

// Правила очистки — прямые regex-замены, как и валидация в csv-нормализаторе.
var (
	rePyComment    = regexp.MustCompile(`#.*`)
	rePyImport     = regexp.MustCompile(`(?m)^[ \t]*import .*`)
	rePyFromImport = regexp.MustCompile(`(?m)^[ \t]*from .* import .*`)

	reLineComment  = regexp.MustCompile(`//.*`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`) // блок может пересекать строки
	reInclude      = regexp.MustCompile(`(?m)^[ \t]*#include.*`)
	reUsingNS      = regexp.MustCompile(`(?m)^[ \t]*using namespace.*;`)

	reJavaImport  = regexp.MustCompile(`(?m)^[ \t]*import .*;`)
	reJavaPackage = regexp.MustCompile(`(?m)^[ \t]*package .*;`)
)

// DialectFor — диалект по расширению; неизвестные падают в generic.
func DialectFor(filename string) model.Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".py":
		return model.DialectPython
	case ".cpp", ".h", ".cc", ".cxx":
		return model.DialectCpp
	case ".java":
		return model.DialectJava
	default:
		return model.DialectGeneric
	}
}

// Normalize — срезает шаблонный код диалекта (комментарии, импорты) и
// канонизирует текст. Битые байты отбрасываются при декодировании, так что
// ошибок здесь не бывает; сравнение дальше идёт по канонической строке.
func Normalize(raw []byte, d model.Dialect) string {
	code := decodeLossy(raw)
	switch d {
	case model.DialectPython:
		code = rePyComment.ReplaceAllString(code, "")
		code = rePyImport.ReplaceAllString(code, "")
		code = rePyFromImport.ReplaceAllString(code, "")
	case model.DialectCpp:
		code = reLineComment.ReplaceAllString(code, "")
		code = reBlockComment.ReplaceAllString(code, "")
		code = reInclude.ReplaceAllString(code, "")
		code = reUsingNS.ReplaceAllString(code, "")
	case model.DialectJava:
		code = reLineComment.ReplaceAllString(code, "")
		code = reBlockComment.ReplaceAllString(code, "")
		code = reJavaImport.ReplaceAllString(code, "")
		code = reJavaPackage.ReplaceAllString(code, "")
	}
	return canonicalize(code)
}

// canonicalize: нижний регистр, все пробельные последовательности в один
// пробел, trim. Именно поэтому сравнение устойчиво к регистру и форматированию.
func canonicalize(code string) string {
	return strings.Join(strings.Fields(strings.ToLower(code)), " ")
}
