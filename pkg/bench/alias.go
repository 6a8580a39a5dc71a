package bench

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Alias связывает каноническое значение для провода с принимаемыми вариантами ввода.
// Сам канонический токен принимается всегда.
type Alias struct {
	Canonical string   `yaml:"canonical"`
	Accept    []string `yaml:"accept"`
}

// AliasTable - конечное тотальное отображение вариантов ввода в канонические токены.
// Сравнение без учёта регистра и пробелов по краям. Булевы и целые значения
// принимаются, только если таблица объявляет "true"/"false" или соответствующие цифры.
type AliasTable struct {
	name   string
	canon  []string
	lookup map[string]string
}

// NewAliasTable строит таблицу. Один вариант ввода не может вести к двум каноническим токенам.
func NewAliasTable(name string, aliases ...Alias) (*AliasTable, error) {
	if len(aliases) == 0 {
		return nil, errors.Errorf("alias table %s: no values", name)
	}
	t := &AliasTable{name: name, lookup: make(map[string]string)}
	for _, a := range aliases {
		canon := strings.TrimSpace(a.Canonical)
		if canon == "" {
			return nil, errors.Errorf("alias table %s: empty canonical token", name)
		}
		for _, c := range t.canon {
			if strings.EqualFold(c, canon) {
				return nil, errors.Errorf("alias table %s: canonical token %q declared twice", name, canon)
			}
		}
		t.canon = append(t.canon, canon)

		for _, in := range append([]string{canon}, a.Accept...) {
			key := normKey(in)
			if key == "" {
				return nil, errors.Errorf("alias table %s: empty alias for %q", name, canon)
			}
			if prev, ok := t.lookup[key]; ok && prev != canon {
				return nil, errors.Errorf("alias table %s: %q maps to both %q and %q", name, in, prev, canon)
			}
			t.lookup[key] = canon
		}
	}
	return t, nil
}

// MustAliasTable - NewAliasTable для встроенных таблиц; паникует при ошибке объявления.
func MustAliasTable(name string, aliases ...Alias) *AliasTable {
	t, err := NewAliasTable(name, aliases...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name возвращает имя таблицы.
func (t *AliasTable) Name() string { return t.name }

// Canonical возвращает канонические токены в порядке объявления.
func (t *AliasTable) Canonical() []string {
	out := make([]string, len(t.canon))
	copy(out, t.canon)
	return out
}

// Accepted возвращает все принимаемые варианты ввода в нижнем регистре.
func (t *AliasTable) Accepted() []string {
	out := make([]string, 0, len(t.lookup))
	for k := range t.lookup {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Normalize переводит значение вызывающего кода в канонический токен.
// Всё, что вне области таблицы, отклоняется с ErrValidation.
func (t *AliasTable) Normalize(v any) (string, error) {
	key, ok := aliasKey(v)
	if !ok {
		return "", validationErrorf("%s: unsupported value type %T", t.name, v)
	}
	canon, ok := t.lookup[key]
	if !ok {
		return "", validationErrorf("%s: unrecognized value %q (accepted: %s)", t.name, key, strings.Join(t.Accepted(), ", "))
	}
	return canon, nil
}

// Lookup разбирает ответ прибора: кавычки и знак '+' отбрасываются.
func (t *AliasTable) Lookup(resp string) (string, bool) {
	key := normKey(strings.Trim(strings.TrimSpace(resp), `"`))
	if canon, ok := t.lookup[key]; ok {
		return canon, true
	}
	canon, ok := t.lookup[strings.TrimPrefix(key, "+")]
	return canon, ok
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func aliasKey(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return normKey(x), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.Itoa(int(x)), true
	case int16:
		return strconv.Itoa(int(x)), true
	case int32:
		return strconv.Itoa(int(x)), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatInt(int64(x), 10), true
		}
	}
	return "", false
}

// Общие таблицы, одинаковые у всех поставщиков.
var (
	OnOffAliases = MustAliasTable("on/off",
		Alias{Canonical: "ON", Accept: []string{"1", "true", "enable", "enabled"}},
		Alias{Canonical: "OFF", Accept: []string{"0", "false", "disable", "disabled"}},
	)

	CouplingAliases = MustAliasTable("coupling",
		Alias{Canonical: "AC"},
		Alias{Canonical: "DC"},
	)

	UnitAliases = MustAliasTable("unit",
		Alias{Canonical: "VOLT", Accept: []string{"v", "volt", "volts", "voltage"}},
		Alias{Canonical: "AMP", Accept: []string{"a", "amp", "amps", "ampere", "amperes"}},
	)

	SignalTypeAliases = MustAliasTable("signal type",
		Alias{Canonical: "SING", Accept: []string{"single", "single-ended", "single ended", "se"}},
		Alias{Canonical: "DIFF", Accept: []string{"differential", "diff"}},
	)

	WaveformFormatAliases = MustAliasTable("waveform format",
		Alias{Canonical: "ASCii", Accept: []string{"ascii", "asc"}},
		Alias{Canonical: "BYTE"},
		Alias{Canonical: "WORD"},
	)
)
