package bench

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Family - класс прибора.
type Family int

const (
	FamilyOscilloscope Family = iota
	FamilyFunctionGenerator
	FamilyPowerSupply
)

func (f Family) String() string {
	switch f {
	case FamilyOscilloscope:
		return "oscilloscope"
	case FamilyFunctionGenerator:
		return "function-generator"
	case FamilyPowerSupply:
		return "power-supply"
	}
	return "unknown"
}

// ParseFamily - обратное к String.
func ParseFamily(s string) (Family, error) {
	for _, f := range []Family{FamilyOscilloscope, FamilyFunctionGenerator, FamilyPowerSupply} {
		if strings.EqualFold(f.String(), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return 0, validationErrorf("unknown instrument family %q", s)
}

// ChannelLimit - паспортные пределы канала источника питания.
type ChannelLimit struct {
	Voltage Range
	Current Range
}

// Model - конкретная модель прибора. Число каналов объявляется здесь, прибор не опрашивается.
type Model struct {
	Name     string
	Family   Family
	Channels int
	Dialect  *Dialect
	Limits   []ChannelLimit
}

func (m *Model) validate() error {
	if m == nil {
		return validationErrorf("model is nil")
	}
	if m.Name == "" {
		return validationErrorf("model name is empty")
	}
	if m.Dialect == nil {
		return validationErrorf("model %s: dialect is nil", m.Name)
	}
	if m.Channels < 1 {
		return validationErrorf("model %s: channel count %d", m.Name, m.Channels)
	}
	if len(m.Limits) != 0 && len(m.Limits) != m.Channels {
		return validationErrorf("model %s: %d channel limits for %d channels", m.Name, len(m.Limits), m.Channels)
	}
	return nil
}

// Limit возвращает пределы канала k, если модель их объявляет.
func (m *Model) Limit(k int) (ChannelLimit, bool) {
	if k < 1 || k > len(m.Limits) {
		return ChannelLimit{}, false
	}
	return m.Limits[k-1], true
}

var (
	modelsMu sync.RWMutex
	models   = map[string]*Model{}
)

func init() {
	e36300 := func(name string, limits ...ChannelLimit) *Model {
		return &Model{Name: name, Family: FamilyPowerSupply, Channels: 3, Dialect: KeysightE36300, Limits: limits}
	}
	builtin := []*Model{
		{Name: "DSOX1202G", Family: FamilyOscilloscope, Channels: 2, Dialect: KeysightInfiniiVision},
		{Name: "DSOX1204G", Family: FamilyOscilloscope, Channels: 4, Dialect: KeysightInfiniiVision},
		{Name: "MSO2012B", Family: FamilyOscilloscope, Channels: 2, Dialect: TektronixMSO2000},
		{Name: "MSO2014B", Family: FamilyOscilloscope, Channels: 4, Dialect: TektronixMSO2000},
		{Name: "EDU33211A", Family: FamilyFunctionGenerator, Channels: 1, Dialect: KeysightEDU33210},
		{Name: "EDU33212A", Family: FamilyFunctionGenerator, Channels: 2, Dialect: KeysightEDU33210},
		e36300("E36311A",
			ChannelLimit{Voltage: Range{0, 6}, Current: Range{0, 5}},
			ChannelLimit{Voltage: Range{0, 25}, Current: Range{0, 1}},
			ChannelLimit{Voltage: Range{-25, 0}, Current: Range{0, 1}},
		),
		e36300("E36312A",
			ChannelLimit{Voltage: Range{0, 6}, Current: Range{0, 5}},
			ChannelLimit{Voltage: Range{0, 25}, Current: Range{0, 1}},
			ChannelLimit{Voltage: Range{0, 25}, Current: Range{0, 1}},
		),
		e36300("E36313A",
			ChannelLimit{Voltage: Range{0, 6}, Current: Range{0, 10}},
			ChannelLimit{Voltage: Range{0, 25}, Current: Range{0, 2}},
			ChannelLimit{Voltage: Range{0, 25}, Current: Range{0, 2}},
		),
	}
	for _, m := range builtin {
		if err := RegisterModel(m); err != nil {
			panic(err)
		}
	}
}

// RegisterModel добавляет модель в реестр. Повторная регистрация имени - ошибка.
func RegisterModel(m *Model) error {
	if err := m.validate(); err != nil {
		return err
	}
	key := strings.ToLower(m.Name)
	modelsMu.Lock()
	defer modelsMu.Unlock()
	if _, ok := models[key]; ok {
		return errors.Wrapf(ErrValidation, "model %s already registered", m.Name)
	}
	models[key] = m
	return nil
}

// LookupModel ищет модель по имени без учёта регистра.
func LookupModel(name string) (*Model, error) {
	modelsMu.RLock()
	defer modelsMu.RUnlock()
	m, ok := models[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "unknown model %q", name)
	}
	return m, nil
}

// Models возвращает имена зарегистрированных моделей по алфавиту.
func Models() []string {
	modelsMu.RLock()
	defer modelsMu.RUnlock()
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}
