package i18n

import (
	"github.com/go-ini/ini"

	"leantime-watchers/internal/domain"
)

// parseIni flattens every section into one key space; section headers only
// group keys inside the file.
func parseIni(name string, data []byte) (map[string]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		AllowBooleanKeys:    true,
	}, data)
	if err != nil {
		return nil, &domain.ParseError{Path: name, Err: err}
	}

	out := make(map[string]string)
	for _, sec := range f.Sections() {
		for _, key := range sec.Keys() {
			out[key.Name()] = key.Value()
		}
	}
	return out, nil
}
