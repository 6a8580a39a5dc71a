package bench

// Generator - возможности генератора сигналов.
type Generator interface {
	Core
	ChannelSelector
	Apply(function string, frequency, amplitude, offset float64) error
	SetFunction(function string) error
	SetFrequency(hz float64) error
	SetAmplitude(v float64) error
	SetOffset(v float64) error
	SetOutput(on bool) error
	SetOutputLoad(load any) error
	SetSweep(s Sweep) error
}

var _ Generator = (*FunctionGenerator)(nil)

type FunctionGenerator struct {
	*Instrument
}

func NewFunctionGenerator(sess *Session, model *Model, opts ...InstrumentOption) (*FunctionGenerator, error) {
	if err := checkFamily(model, FamilyFunctionGenerator); err != nil {
		return nil, err
	}
	inst, err := NewInstrument(sess, model, opts...)
	if err != nil {
		return nil, err
	}
	return &FunctionGenerator{Instrument: inst}, nil
}

func (g *FunctionGenerator) View(k int) (*FunctionGenerator, error) {
	v, err := g.Instrument.View(k)
	if err != nil {
		return nil, err
	}
	return &FunctionGenerator{Instrument: v}, nil
}

// Apply задаёт форму, частоту, амплитуду и смещение одной командой.
func (g *FunctionGenerator) Apply(function string, frequency, amplitude, offset float64) error {
	return g.Set(OpApply, function, frequency, amplitude, offset)
}

func (g *FunctionGenerator) SetFunction(function string) error { return g.Set(OpSetFunction, function) }
func (g *FunctionGenerator) GetFunction() (string, error)      { return g.GetEnum(OpGetFunction) }

func (g *FunctionGenerator) SetFrequency(hz float64) error  { return g.Set(OpSetFrequency, hz) }
func (g *FunctionGenerator) GetFrequency() (float64, error) { return g.GetFloat(OpGetFrequency) }

func (g *FunctionGenerator) SetAmplitude(v float64) error   { return g.Set(OpSetAmplitude, v) }
func (g *FunctionGenerator) GetAmplitude() (float64, error) { return g.GetFloat(OpGetAmplitude) }

func (g *FunctionGenerator) SetOffset(v float64) error   { return g.Set(OpSetSourceOffset, v) }
func (g *FunctionGenerator) GetOffset() (float64, error) { return g.GetFloat(OpGetSourceOffset) }

func (g *FunctionGenerator) SetOutput(on bool) error  { return g.Set(OpSetOutput, on) }
func (g *FunctionGenerator) GetOutput() (bool, error) { return g.GetBool(OpGetOutput) }

// SetOutputLoad задаёт ожидаемую нагрузку: сопротивление в омах или "INF".
func (g *FunctionGenerator) SetOutputLoad(load any) error { return g.Set(OpSetOutputLoad, load) }

// GetOutputLoad возвращает нагрузку в омах; высокоомная нагрузка читается как 9.9E37.
func (g *FunctionGenerator) GetOutputLoad() (float64, error) { return g.GetFloat(OpGetOutputLoad) }

// Sweep - качание частоты.
type Sweep struct {
	Start   float64
	Stop    float64
	Spacing string  // "linear" или "log"; пусто - "linear"
	Time    float64 // секунды
}

// SetSweep настраивает и включает качание частоты текущего канала.
func (g *FunctionGenerator) SetSweep(s Sweep) error {
	if s.Start >= s.Stop {
		return validationErrorf("sweep start %g must be below stop %g", s.Start, s.Stop)
	}
	spacing := s.Spacing
	if spacing == "" {
		spacing = "linear"
	}
	ch := g.Channel()
	var cmds []string
	for _, step := range []struct {
		op Op
		v  any
	}{
		{OpSetSweepStart, s.Start},
		{OpSetSweepStop, s.Stop},
		{OpSetSweepSpacing, spacing},
		{OpSetSweepTime, s.Time},
		{OpSetSweepState, true},
	} {
		c, err := g.resolve(step.op, ch, step.v)
		if err != nil {
			return err
		}
		cmds = append(cmds, c)
	}
	return g.exec(cmds...)
}

// StopSweep выключает качание частоты.
func (g *FunctionGenerator) StopSweep() error { return g.Set(OpSetSweepState, false) }

// SetFrequencyCoupling связывает частоты каналов: mode "offset" или "ratio".
func (g *FunctionGenerator) SetFrequencyCoupling(enabled bool, mode string) error {
	ch := g.Channel()
	couple, err := g.resolve(OpSetFrequencyCouple, ch, enabled)
	if err != nil {
		return err
	}
	if !enabled || mode == "" {
		return g.exec(couple)
	}
	m, err := g.resolve(OpSetFrequencyMode, ch, mode)
	if err != nil {
		return err
	}
	return g.exec(m, couple)
}

// SetFrequencyList загружает список частот и время пребывания на каждой.
func (g *FunctionGenerator) SetFrequencyList(freqs []float64, dwell float64) error {
	ch := g.Channel()
	list, err := g.resolve(OpSetListFrequency, ch, freqs)
	if err != nil {
		return err
	}
	d, err := g.resolve(OpSetListDwell, ch, dwell)
	if err != nil {
		return err
	}
	return g.exec(list, d)
}
