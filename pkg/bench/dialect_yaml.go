package bench

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Встроенные таблицы, на которые можно ссылаться из YAML по имени.
var builtinAliases = map[string]*AliasTable{
	"onoff":           OnOffAliases,
	"coupling":        CouplingAliases,
	"unit":            UnitAliases,
	"signal-type":     SignalTypeAliases,
	"waveform-format": WaveformFormatAliases,
	"trigger-type":    triggerType,
	"trigger-sweep":   triggerSweep,
}

type yamlDialect struct {
	Name     string             `yaml:"name"`
	Startup  []Op               `yaml:"startup"`
	Aliases  map[string][]Alias `yaml:"aliases"`
	Commands map[Op]yamlCommand `yaml:"commands"`
	Waveform *yamlWaveform      `yaml:"waveform"`
}

type yamlCommand struct {
	Template string      `yaml:"template"`
	Params   []yamlParam `yaml:"params"`
	Reply    string      `yaml:"reply"`
}

type yamlParam struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Aliases string `yaml:"aliases"`
	Range   *Range `yaml:"range"`
	MaxLen  int    `yaml:"max_len"`
}

type yamlWaveform struct {
	Delimiter   string            `yaml:"delimiter"`
	MinFields   int               `yaml:"min_fields"`
	Fields      map[string]int    `yaml:"fields"`
	FormatCodes map[string]string `yaml:"format_codes"`
	Headers     map[string]string `yaml:"headers"`
	ASCIIScale  string            `yaml:"ascii_scale"`
	TimeAxis    string            `yaml:"time_axis"`
	Binary      *struct {
		Width     int    `yaml:"width"`
		Signed    bool   `yaml:"signed"`
		BigEndian bool   `yaml:"big_endian"`
		Scale     string `yaml:"scale"`
	} `yaml:"binary"`
}

// LoadDialectYAML читает таблицу команд из YAML. Проверки те же, что у NewDialect.
func LoadDialectYAML(r io.Reader) (*Dialect, error) {
	var doc yamlDialect
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode dialect")
	}

	tables := make(map[string]*AliasTable, len(doc.Aliases))
	for name, aliases := range doc.Aliases {
		t, err := NewAliasTable(name, aliases...)
		if err != nil {
			return nil, err
		}
		tables[name] = t
	}
	table := func(name string) (*AliasTable, error) {
		if name == "" {
			return nil, nil
		}
		if t, ok := tables[name]; ok {
			return t, nil
		}
		if t, ok := builtinAliases[strings.ToLower(name)]; ok {
			return t, nil
		}
		return nil, errors.Errorf("unknown alias table %q", name)
	}

	commands := make(map[Op]Command, len(doc.Commands))
	for op, yc := range doc.Commands {
		c := Command{Template: yc.Template}
		var err error
		if c.Reply, err = table(yc.Reply); err != nil {
			return nil, errors.Wrapf(err, "dialect %s: %s", doc.Name, op)
		}
		for _, yp := range yc.Params {
			p := Param{Name: yp.Name, Range: yp.Range, MaxLen: yp.MaxLen}
			if p.Kind, err = parseKind(yp.Kind); err != nil {
				return nil, errors.Wrapf(err, "dialect %s: %s", doc.Name, op)
			}
			if p.Aliases, err = table(yp.Aliases); err != nil {
				return nil, errors.Wrapf(err, "dialect %s: %s", doc.Name, op)
			}
			c.Params = append(c.Params, p)
		}
		commands[op] = c
	}

	opts := []DialectOption{WithStartup(doc.Startup...)}
	if doc.Waveform != nil {
		spec, err := doc.Waveform.spec()
		if err != nil {
			return nil, errors.Wrapf(err, "dialect %s", doc.Name)
		}
		opts = append(opts, WithWaveformSpec(spec))
	}
	return NewDialect(doc.Name, commands, opts...)
}

func parseKind(s string) (ValueKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown value kind %q", s)
}

var (
	headerNames = map[string]HeaderRule{"none": HeaderNone, "block": HeaderBlock}
	scaleNames  = map[string]ValueScale{"": ScalePhysical, "physical": ScalePhysical, "linear": ScaleLinear, "referenced": ScaleReferenced}
	axisNames   = map[string]TimeAxis{"": TimeIncrement, "increment": TimeIncrement, "origin": TimeOrigin, "origin-reference": TimeOriginReference}
)

func (w *yamlWaveform) spec() (WaveformSpec, error) {
	spec := WaveformSpec{
		Delimiter:   w.Delimiter,
		MinFields:   w.MinFields,
		Fields:      make(map[PreambleField]int, len(w.Fields)),
		FormatCodes: make(map[string]Format, len(w.FormatCodes)),
		Headers:     make(map[Format]HeaderRule, len(w.Headers)),
	}
	for name, idx := range w.Fields {
		f, err := ParsePreambleField(name)
		if err != nil {
			return spec, err
		}
		spec.Fields[f] = idx
	}
	for code, name := range w.FormatCodes {
		f, err := ParseFormat(name)
		if err != nil {
			return spec, err
		}
		spec.FormatCodes[code] = f
	}
	for name, rule := range w.Headers {
		f, err := ParseFormat(name)
		if err != nil {
			return spec, err
		}
		h, ok := headerNames[strings.ToLower(rule)]
		if !ok {
			return spec, errors.Errorf("unknown header rule %q", rule)
		}
		spec.Headers[f] = h
	}
	var ok bool
	if spec.ASCIIScale, ok = scaleNames[strings.ToLower(w.ASCIIScale)]; !ok {
		return spec, errors.Errorf("unknown value scale %q", w.ASCIIScale)
	}
	if spec.TimeAxis, ok = axisNames[strings.ToLower(w.TimeAxis)]; !ok {
		return spec, errors.Errorf("unknown time axis %q", w.TimeAxis)
	}
	if b := w.Binary; b != nil {
		scale, ok := scaleNames[strings.ToLower(b.Scale)]
		if !ok {
			return spec, errors.Errorf("unknown value scale %q", b.Scale)
		}
		spec.Binary = &BinaryLayout{Width: b.Width, Signed: b.Signed, BigEndian: b.BigEndian, Scale: scale}
	}
	return spec, nil
}
