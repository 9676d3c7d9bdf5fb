package service

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
)

// decodeLossy — приводит сырые байты к UTF-8. Кодировку угадываем по
// содержимому; известные однобайтовые перекодируем, всё остальное считаем
// UTF-8 и выбрасываем невалидные последовательности вместо ошибки.
func decodeLossy(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	cs := ""
	if det, err := chardet.NewTextDetector().DetectBest(raw); err == nil && det != nil {
		cs = strings.ToLower(det.Charset)
	}

	switch cs {
	case "windows-1251", "cp1251":
		if out, err := charmap.Windows1251.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	case "windows-1252", "iso-8859-1":
		if out, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	case "koi8-r":
		if out, err := charmap.KOI8R.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	}

	// считаем UTF-8; мусорные байты просто отбрасываем
	return strings.ToValidUTF8(string(raw), "")
}
