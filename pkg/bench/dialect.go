package bench

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ValueKind - вид значения, подставляемого в шаблон команды.
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindInteger
	KindEnum
	KindText
	KindNumberList
)

var kindNames = map[ValueKind]string{
	KindNumber:     "number",
	KindInteger:    "integer",
	KindEnum:       "enum",
	KindText:       "text",
	KindNumberList: "number-list",
}

func (k ValueKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Range - допустимый диапазон числового значения, границы включены.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Param описывает одно значение команды.
// Для KindNumber таблица Aliases необязательна и задаёт символьные значения (INF, MIN, MAX).
type Param struct {
	Name    string
	Kind    ValueKind
	Aliases *AliasTable
	Range   *Range
	MaxLen  int
}

// Command - шаблон команды с плейсхолдерами <n> (канал) и <v>, <v1>..<v9> (значения).
// Reply задаёт таблицу для разбора перечислимого ответа запроса.
type Command struct {
	Template string
	Params   []Param
	Reply    *AliasTable
}

// Query сообщает, ждёт ли команда ответа.
func (c Command) Query() bool {
	head, _, _ := strings.Cut(c.Template, " ")
	return strings.HasSuffix(head, "?")
}

func (c Command) usesChannel() bool { return strings.Contains(c.Template, "<n>") }

func (c Command) clone() Command {
	out := c
	out.Params = append([]Param(nil), c.Params...)
	for i, p := range out.Params {
		if p.Range != nil {
			r := *p.Range
			out.Params[i].Range = &r
		}
	}
	return out
}

var placeholderRe = regexp.MustCompile(`<(n|v[0-9]?)>`)

func (c Command) validate() error {
	if strings.TrimSpace(c.Template) == "" {
		return errors.New("empty template")
	}
	if strings.ContainsAny(c.Template, "\r\n") {
		return errors.Errorf("template %q contains a line terminator", c.Template)
	}
	if len(c.Params) > 9 {
		return errors.Errorf("template %q: at most 9 values", c.Template)
	}
	used := make([]bool, len(c.Params))
	for _, m := range placeholderRe.FindAllStringSubmatch(c.Template, -1) {
		ph := m[1]
		if ph == "n" {
			continue
		}
		idx := 1
		if len(ph) == 2 {
			idx = int(ph[1] - '0')
		}
		if idx < 1 || idx > len(c.Params) {
			return errors.Errorf("template %q: placeholder <%s> has no value", c.Template, ph)
		}
		used[idx-1] = true
	}
	for i, p := range c.Params {
		if !used[i] {
			return errors.Errorf("template %q: value %d is never substituted", c.Template, i+1)
		}
		if p.Kind == KindEnum && p.Aliases == nil {
			return errors.Errorf("template %q: enum value %d has no alias table", c.Template, i+1)
		}
		if p.Range != nil && p.Range.Min > p.Range.Max {
			return errors.Errorf("template %q: value %d range [%g, %g] is empty", c.Template, i+1, p.Range.Min, p.Range.Max)
		}
		if _, ok := kindNames[p.Kind]; !ok {
			return errors.Errorf("template %q: value %d has unknown kind %d", c.Template, i+1, p.Kind)
		}
	}
	return nil
}

// Dialect - неизменяемая таблица команд одного семейства приборов.
type Dialect struct {
	name     string
	commands map[Op]Command
	waveform *WaveformSpec
	startup  []Op
}

// DialectOption настраивает диалект при создании.
type DialectOption func(*Dialect) error

// WithWaveformSpec объявляет разметку преамбулы и правила декодирования осциллограмм.
func WithWaveformSpec(spec WaveformSpec) DialectOption {
	return func(d *Dialect) error {
		s, err := spec.normalized()
		if err != nil {
			return err
		}
		d.waveform = s
		return nil
	}
}

// WithStartup задаёт операции, которые выполняются при создании прибора, по порядку.
func WithStartup(ops ...Op) DialectOption {
	return func(d *Dialect) error {
		d.startup = append([]Op(nil), ops...)
		return nil
	}
}

// NewDialect проверяет все шаблоны и строит диалект.
func NewDialect(name string, commands map[Op]Command, opts ...DialectOption) (*Dialect, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("dialect name is empty")
	}
	d := &Dialect{name: name, commands: make(map[Op]Command, len(commands))}
	for op, cmd := range commands {
		if err := cmd.validate(); err != nil {
			return nil, errors.Wrapf(err, "dialect %s: %s", name, op)
		}
		d.commands[op] = cmd.clone()
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, errors.Wrapf(err, "dialect %s", name)
		}
	}
	for _, op := range d.startup {
		if _, ok := d.commands[op]; !ok {
			return nil, errors.Errorf("dialect %s: startup op %s has no command", name, op)
		}
	}
	return d, nil
}

// MustDialect - NewDialect для встроенных диалектов.
func MustDialect(name string, commands map[Op]Command, opts ...DialectOption) *Dialect {
	d, err := NewDialect(name, commands, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dialect) Name() string { return d.name }

// Supports сообщает, объявлена ли операция.
func (d *Dialect) Supports(op Op) bool {
	_, ok := d.commands[op]
	return ok
}

// Command возвращает копию команды операции.
func (d *Dialect) Command(op Op) (Command, bool) {
	c, ok := d.commands[op]
	if !ok {
		return Command{}, false
	}
	return c.clone(), true
}

// Ops возвращает объявленные операции в лексикографическом порядке.
func (d *Dialect) Ops() []Op {
	ops := make([]Op, 0, len(d.commands))
	for op := range d.commands {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Waveform возвращает правила декодирования или nil, если диалект их не объявляет.
func (d *Dialect) Waveform() *WaveformSpec { return d.waveform }

// Startup возвращает операции начальной настройки.
func (d *Dialect) Startup() []Op { return append([]Op(nil), d.startup...) }

// Resolve строит текст команды. Все значения нормализуются до подстановки,
// поэтому при ошибке проверки текст не строится вовсе.
func (d *Dialect) Resolve(op Op, channel int, values ...any) (string, error) {
	cmd, ok := d.commands[op]
	if !ok {
		return "", errors.Wrapf(ErrUnsupported, "%s: %s", d.name, op)
	}
	if len(values) != len(cmd.Params) {
		return "", validationErrorf("%s: %s takes %d values, got %d", d.name, op, len(cmd.Params), len(values))
	}
	if cmd.usesChannel() && channel < 1 {
		return "", errors.Wrapf(ErrChannelRange, "%s: %s: channel %d", d.name, op, channel)
	}

	pairs := []string{"<n>", strconv.Itoa(channel)}
	for i, p := range cmd.Params {
		s, err := p.format(values[i])
		if err != nil {
			return "", errors.WithMessagef(err, "%s: %s", d.name, op)
		}
		if i == 0 {
			pairs = append(pairs, "<v>", s)
		}
		pairs = append(pairs, "<v"+strconv.Itoa(i+1)+">", s)
	}
	return strings.NewReplacer(pairs...).Replace(cmd.Template), nil
}

func (p Param) label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Kind.String()
}

func (p Param) format(v any) (string, error) {
	switch p.Kind {
	case KindEnum:
		return p.Aliases.Normalize(v)
	case KindText:
		return p.formatText(v)
	case KindNumberList:
		return p.formatList(v)
	case KindInteger:
		f, err := toNumber(v)
		if err != nil {
			return "", validationErrorf("%s: %v", p.label(), err)
		}
		if f != math.Trunc(f) {
			return "", validationErrorf("%s: %g is not an integer", p.label(), f)
		}
		if err := p.checkRange(f); err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(f), 10), nil
	default:
		if s, ok := v.(string); ok && p.Aliases != nil {
			if canon, err := p.Aliases.Normalize(s); err == nil {
				return canon, nil
			}
		}
		return p.formatNumber(v)
	}
}

func (p Param) formatNumber(v any) (string, error) {
	f, err := toNumber(v)
	if err != nil {
		return "", validationErrorf("%s: %v", p.label(), err)
	}
	if err := p.checkRange(f); err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func (p Param) checkRange(f float64) error {
	if p.Range != nil && (f < p.Range.Min || f > p.Range.Max) {
		return validationErrorf("%s: %g not in [%g, %g]", p.label(), f, p.Range.Min, p.Range.Max)
	}
	return nil
}

func (p Param) formatText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", validationErrorf("%s: expected text, got %T", p.label(), v)
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return "", validationErrorf("%s: control character %q in text", p.label(), r)
		}
	}
	if p.MaxLen > 0 && utf8.RuneCountInString(s) > p.MaxLen {
		return "", validationErrorf("%s: text longer than %d characters", p.label(), p.MaxLen)
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`, nil
}

func (p Param) formatList(v any) (string, error) {
	var list []float64
	switch x := v.(type) {
	case []float64:
		list = x
	case []int:
		for _, n := range x {
			list = append(list, float64(n))
		}
	default:
		return "", validationErrorf("%s: expected a number list, got %T", p.label(), v)
	}
	if len(list) == 0 {
		return "", validationErrorf("%s: empty list", p.label())
	}
	parts := make([]string, len(list))
	for i, f := range list {
		s, err := p.formatNumber(f)
		if err != nil {
			return "", errors.WithMessagef(err, "item %d", i)
		}
		parts[i] = s
	}
	return strings.Join(parts, ","), nil
}

func toNumber(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint32:
		f = float64(x)
	case string:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errors.Errorf("%q is not a number", x)
		}
	default:
		return 0, errors.Errorf("expected a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("%g is not a finite number", f)
	}
	return f, nil
}

// Конструкторы для встроенных таблиц команд.

func setCmd(template string, params ...Param) Command {
	return Command{Template: template, Params: params}
}

func getCmd(template string, reply *AliasTable) Command {
	return Command{Template: template, Reply: reply}
}

func number(name string) Param { return Param{Name: name, Kind: KindNumber} }

func numberIn(name string, min, max float64) Param {
	return Param{Name: name, Kind: KindNumber, Range: &Range{Min: min, Max: max}}
}

func integerIn(name string, min, max float64) Param {
	return Param{Name: name, Kind: KindInteger, Range: &Range{Min: min, Max: max}}
}

func enum(name string, t *AliasTable) Param {
	return Param{Name: name, Kind: KindEnum, Aliases: t}
}

func textParam(name string, maxLen int) Param {
	return Param{Name: name, Kind: KindText, MaxLen: maxLen}
}
